// Binary fetchdrivers downloads the WebDriver binaries and browsers that
// seleniumwrapper.Create looks for, by default into ./vendor.
package main

import (
	"context"
	"flag"

	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
)

const (
	// desiredChromeBuild is the known build of Chromium to download from the
	// chromium-browser-snapshots/Linux_x64 bucket. It corresponds to version
	// 76.0.3809.0.
	desiredChromeBuild = "664981"

	// desiredFirefoxVersion is the known version of Firefox to download.
	desiredFirefoxVersion = "68.0.1"

	seleniumURL = "https://selenium-release.storage.googleapis.com/3.141/selenium-server-standalone-3.141.59.jar"
)

var (
	dir              = flag.String("dir", "vendor", "Directory to download the files into.")
	downloadBrowsers = flag.Bool("download_browsers", true, "If true, download the Firefox and Chrome browsers.")
	downloadLatest   = flag.Bool("download_latest", false, "If true, download the latest browser versions.")
	geckoDriverRange = flag.String("geckodriver", ">=0.26.0", "Semantic version range of the GeckoDriver release to download.")
	htmlUnitRange    = flag.String("htmlunit", ">=2.36.0", "Semantic version range of the HTMLUnit driver release to download.")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	f := newFetcher(*dir, *downloadBrowsers)
	f.add(file{url: seleniumURL, name: "selenium-server.jar"})

	if *downloadBrowsers {
		chromeBuild, firefoxVersion := desiredChromeBuild, desiredFirefoxVersion
		if *downloadLatest {
			chromeBuild, firefoxVersion = "", ""
		}
		f.addFirefox(firefoxVersion)
		if err := f.addChrome(ctx, chromeBuild); err != nil {
			glog.Errorf("Unable to find the Chromium build: %v", err)
		}
	} else if err := f.addChrome(ctx, desiredChromeBuild); err != nil {
		// ChromeDriver is still wanted without the browser.
		glog.Errorf("Unable to find ChromeDriver: %v", err)
	}

	gh := github.NewClient(nil)
	if err := f.addGithubRelease(ctx, gh, "SeleniumHQ", "htmlunit-driver", `htmlunit-driver-.*-jar-with-dependencies\.jar$`, *htmlUnitRange, "htmlunit-driver.jar"); err != nil {
		glog.Errorf("Unable to find the HTMLUnit driver: %v", err)
	}
	if err := f.addGithubRelease(ctx, gh, "mozilla", "geckodriver", `geckodriver-.*linux64\.tar\.gz$`, *geckoDriverRange, "geckodriver.tar.gz"); err != nil {
		glog.Errorf("Unable to find GeckoDriver: %v", err)
	}

	if err := f.fetchAll(ctx); err != nil {
		glog.Exitf("Error fetching drivers: %v", err)
	}
	glog.Infof("Downloaded %d files into %s", len(f.files), *dir)
}
