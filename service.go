package seleniumwrapper

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// service is the part of *selenium.Service a Driver needs.
type service interface {
	Stop() error
}

// The service constructors are replaced in tests.
var (
	newChromeDriverService = func(path string, port int, opts ...selenium.ServiceOption) (service, error) {
		s, err := selenium.NewChromeDriverService(path, port, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	newGeckoDriverService = func(path string, port int, opts ...selenium.ServiceOption) (service, error) {
		s, err := selenium.NewGeckoDriverService(path, port, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	newSeleniumService = func(jarPath string, port int, opts ...selenium.ServiceOption) (service, error) {
		s, err := selenium.NewSeleniumService(jarPath, port, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
)

// startService launches the WebDriver service that drives the named browser
// and returns it along with the URL prefix to connect to.
func startService(browser string, cfg *Config) (service, string, error) {
	port := cfg.Port
	if port == 0 {
		p, err := pickUnusedPort()
		if err != nil {
			return nil, "", fmt.Errorf("pick a port for %s: %w", browser, err)
		}
		port = p
	}

	var opts []selenium.ServiceOption
	if cfg.FrameBuffer {
		opts = append(opts, selenium.StartFrameBuffer())
	}
	if cfg.output != nil {
		opts = append(opts, selenium.Output(cfg.output))
	}
	opts = append(opts, cfg.serviceOptions...)

	var (
		svc  service
		addr string
		err  error
	)
	switch browser {
	case ChromeBrowser:
		path, perr := resolvePath(cfg.ChromeDriverPath, true)
		if perr != nil {
			return nil, "", fmt.Errorf("chromedriver: %w", perr)
		}
		glog.V(1).Infof("starting %s on port %d", path, port)
		svc, err = newChromeDriverService(path, port, opts...)
		addr = fmt.Sprintf("http://127.0.0.1:%d/wd/hub", port)
	case FirefoxBrowser:
		path, perr := resolvePath(cfg.GeckoDriverPath, true)
		if perr != nil {
			return nil, "", fmt.Errorf("geckodriver: %w", perr)
		}
		glog.V(1).Infof("starting %s on port %d", path, port)
		svc, err = newGeckoDriverService(path, port, opts...)
		addr = fmt.Sprintf("http://127.0.0.1:%d", port)
	case HTMLUnit, HTMLUnitWithJS, InternetExplorer, Opera, Safari:
		jar, perr := resolvePath(cfg.SeleniumPath, false)
		if perr != nil {
			return nil, "", fmt.Errorf("selenium server: %w", perr)
		}
		if browser == HTMLUnit || browser == HTMLUnitWithJS {
			htmlUnit, perr := resolvePath(cfg.HTMLUnitPath, false)
			if perr != nil {
				return nil, "", fmt.Errorf("htmlunit driver: %w", perr)
			}
			opts = append(opts, selenium.HTMLUnit(htmlUnit))
		}
		if cfg.JavaPath != "" {
			opts = append(opts, selenium.JavaPath(cfg.JavaPath))
		}
		glog.V(1).Infof("starting selenium server %s on port %d", jar, port)
		svc, err = newSeleniumService(jar, port, opts...)
		addr = fmt.Sprintf("http://127.0.0.1:%d/wd/hub", port)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrNotLocal, browser)
	}
	if err != nil {
		return nil, "", fmt.Errorf("start %s service: %w", browser, err)
	}
	return svc, addr, nil
}

// resolvePath finds the file a configured path refers to. The path itself is
// tried first, then the newest file matching path*, and for binaries the
// base name in $PATH.
func resolvePath(path string, binary bool) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no path configured")
	}
	if usable(path, binary) {
		return path, nil
	}
	if p := findBestPath(path+"*", binary); p != "" {
		return p, nil
	}
	if binary {
		if p, err := exec.LookPath(filepath.Base(path)); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%q not found", path)
}

func usable(path string, binary bool) bool {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return false
	}
	return !binary || fi.Mode().Perm()&0111 != 0
}

// findBestPath returns the last match of glob in sort order that is a usable
// file. Versioned names sort newest last.
func findBestPath(glob string, binary bool) string {
	matches, err := filepath.Glob(glob)
	if err != nil {
		glog.Warningf("Error globbing %q: %s", glob, err)
		return ""
	}
	sort.Strings(matches)
	for i := len(matches) - 1; i >= 0; i-- {
		if usable(matches[i], binary) {
			return matches[i]
		}
	}
	return ""
}

func pickUnusedPort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, err
	}
	return port, nil
}
