package main

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// file is one download.
type file struct {
	url      string
	name     string
	hash     string
	hashType string // default is sha256
	rename   []string
	browser  bool
}

// fetcher collects the files to download into dir and fetches them.
type fetcher struct {
	dir      string
	client   *http.Client
	browsers bool

	mu    sync.Mutex
	files []file
}

func newFetcher(dir string, browsers bool) *fetcher {
	return &fetcher{dir: dir, client: http.DefaultClient, browsers: browsers}
}

func (f *fetcher) add(fl file) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, fl)
}

// pickRelease returns the newest release whose tag satisfies rng along with
// its first asset matching assetRE. Drafts and pre-releases are skipped.
func pickRelease(releases []*github.RepositoryRelease, rng semver.Range, assetRE *regexp.Regexp) (semver.Version, string, error) {
	var (
		best    semver.Version
		bestURL string
	)
	for _, rel := range releases {
		if rel.GetDraft() || rel.GetPrerelease() {
			continue
		}
		v, err := semver.ParseTolerant(rel.GetTagName())
		if err != nil {
			glog.V(1).Infof("Ignoring release %q: %v", rel.GetTagName(), err)
			continue
		}
		if !rng(v) || (bestURL != "" && v.LTE(best)) {
			continue
		}
		for _, a := range rel.Assets {
			if !assetRE.MatchString(a.GetName()) || a.GetBrowserDownloadURL() == "" {
				continue
			}
			best, bestURL = v, a.GetBrowserDownloadURL()
			break
		}
	}
	if bestURL == "" {
		return semver.Version{}, "", fmt.Errorf("no release asset matching %q in the requested range", assetRE)
	}
	return best, bestURL, nil
}

// addGithubRelease adds the asset matching assetName of the newest release of
// owner/repo whose version satisfies versionRange. The file is saved as
// localFileName.
func (f *fetcher) addGithubRelease(ctx context.Context, client *github.Client, owner, repo, assetName, versionRange, localFileName string, rename ...string) error {
	rng, err := semver.ParseRange(versionRange)
	if err != nil {
		return fmt.Errorf("invalid version range %q: %v", versionRange, err)
	}
	assetRE, err := regexp.Compile(assetName)
	if err != nil {
		return fmt.Errorf("invalid asset name regular expression %q: %s", assetName, err)
	}
	releases, _, err := client.Repositories.ListReleases(ctx, owner, repo, &github.ListOptions{PerPage: 50})
	if err != nil {
		return err
	}
	v, u, err := pickRelease(releases, rng, assetRE)
	if err != nil {
		return fmt.Errorf("http://github.com/%s/%s/releases: %v", owner, repo, err)
	}
	glog.Infof("Using %s/%s %s", owner, repo, v)
	f.add(file{name: localFileName, url: u, rename: rename})
	return nil
}

// addChrome adds Chromium and its ChromeDriver from the snapshot bucket. An
// empty build selects the latest one.
func (f *fetcher) addChrome(ctx context.Context, build string) error {
	const (
		storageBktName             = "chromium-browser-snapshots"
		prefixLinux64              = "Linux_x64"
		lastChangeFile             = "Linux_x64/LAST_CHANGE"
		chromeFilename             = "chrome-linux.zip"
		chromeDriverFilename       = "chromedriver_linux64.zip"
		chromeDriverTargetFilename = "chromedriver.zip"
	)
	gcsPath := fmt.Sprintf("gs://%s/", storageBktName)
	client, err := storage.NewClient(ctx, option.WithHTTPClient(f.client))
	if err != nil {
		return fmt.Errorf("cannot create a storage client: %v", err)
	}
	defer client.Close()

	bkt := client.Bucket(storageBktName)
	if build == "" {
		r, err := bkt.Object(lastChangeFile).NewReader(ctx)
		if err != nil {
			return fmt.Errorf("cannot read %s%s: %v", gcsPath, lastChangeFile, err)
		}
		defer r.Close()
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return fmt.Errorf("cannot read %s%s: %v", gcsPath, lastChangeFile, err)
		}
		build = strings.TrimSpace(string(data))
	}

	chromePackage := path.Join(prefixLinux64, build, chromeFilename)
	attrs, err := bkt.Object(chromePackage).Attrs(ctx)
	if err != nil {
		return fmt.Errorf("cannot get the attributes of %s%s: %v", gcsPath, chromePackage, err)
	}
	f.add(file{name: chromeFilename, url: attrs.MediaLink, browser: true})

	driverPackage := path.Join(prefixLinux64, build, chromeDriverFilename)
	attrs, err = bkt.Object(driverPackage).Attrs(ctx)
	if err != nil {
		return fmt.Errorf("cannot get the attributes of %s%s: %v", gcsPath, driverPackage, err)
	}
	f.add(file{
		name:   chromeDriverTargetFilename,
		url:    attrs.MediaLink,
		rename: []string{"chromedriver_linux64/chromedriver", "chromedriver"},
	})
	return nil
}

// addFirefox adds a Firefox release, or the latest nightly if version is
// empty.
func (f *fetcher) addFirefox(version string) {
	if version == "" {
		f.add(file{
			url:     "https://download.mozilla.org/?product=firefox-nightly-latest-ssl&os=linux64&lang=en-US",
			name:    "firefox-nightly.tar.bz2",
			browser: true,
		})
		return
	}
	v := url.PathEscape(version)
	f.add(file{
		url:     "https://download-installer.cdn.mozilla.net/pub/firefox/releases/" + v + "/linux-x86_64/en-US/firefox-" + v + ".tar.bz2",
		name:    "firefox.tar.bz2",
		browser: true,
	})
}

// fetchAll handles every added file concurrently and returns the first error.
func (f *fetcher) fetchAll(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, fl := range f.files {
		fl := fl
		g.Go(func() error {
			if err := f.handle(ctx, fl); err != nil {
				return fmt.Errorf("%s: %v", fl.name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (f *fetcher) handle(ctx context.Context, fl file) error {
	if fl.browser && !f.browsers {
		glog.Infof("Skipping %q because --download_browsers is not set.", fl.name)
		return nil
	}
	if fl.hash != "" && f.sameHash(fl) {
		glog.Infof("Skipping file %q which has already been downloaded.", fl.name)
	} else {
		glog.Infof("Downloading %q from %q", fl.name, fl.url)
		if err := f.download(ctx, fl); err != nil {
			return err
		}
	}
	if err := f.unpack(fl); err != nil {
		return err
	}
	if rename := fl.rename; len(rename) == 2 {
		from, to := filepath.Join(f.dir, rename[0]), filepath.Join(f.dir, rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			glog.Warningf("Error renaming %q to %q: %v", from, to, err)
		}
	}
	return nil
}

func (f *fetcher) unpack(fl file) error {
	var cmd *exec.Cmd
	switch path.Ext(fl.name) {
	case ".zip":
		cmd = exec.Command("unzip", "-o", fl.name)
	case ".gz":
		cmd = exec.Command("tar", "-xzf", fl.name)
	case ".bz2":
		cmd = exec.Command("tar", "-xjf", fl.name)
	default:
		return nil
	}
	glog.Infof("Unpacking %q", fl.name)
	cmd.Dir = f.dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("error unpacking %q: %v: %s", fl.name, err, out)
	}
	return nil
}

func newHash(hashType string) hash.Hash {
	switch strings.ToLower(hashType) {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	default:
		return sha256.New()
	}
}

func (f *fetcher) download(ctx context.Context, fl file) (err error) {
	name := filepath.Join(f.dir, fl.name)
	out, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("error creating %q: %v", name, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %v", name, closeErr)
		}
	}()

	req, err := http.NewRequest(http.MethodGet, fl.url, nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error downloading %q: %v", fl.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error downloading %q: %s", fl.url, resp.Status)
	}

	h := newHash(fl.hashType)
	if _, err := io.Copy(io.MultiWriter(out, h), resp.Body); err != nil {
		return fmt.Errorf("error downloading %q: %v", fl.url, err)
	}
	if fl.hash == "" {
		return nil
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != fl.hash {
		return fmt.Errorf("got %s hash %q, want %q", fl.hashType, sum, fl.hash)
	}
	return nil
}

func (f *fetcher) sameHash(fl file) bool {
	in, err := os.Open(filepath.Join(f.dir, fl.name))
	if err != nil {
		return false
	}
	defer in.Close()

	h := newHash(fl.hashType)
	if _, err := io.Copy(h, in); err != nil {
		return false
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if sum != fl.hash {
		glog.Warningf("File %q: got hash %q, expect hash %q", fl.name, sum, fl.hash)
		return false
	}
	return true
}
