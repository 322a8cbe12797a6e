package seleniumwrapper

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// Driver wraps a selenium.WebDriver. Every WebDriver method is available on it
// unchanged; on top of those it offers waiting lookups and short-hand
// aliases whose results are wrapped as *Element and *Elements.
type Driver struct {
	selenium.WebDriver
	lookup

	svc service
}

// New wraps an existing WebDriver session.
func New(wd selenium.WebDriver, opts ...Option) (*Driver, error) {
	if wd == nil {
		return nil, ErrNilDriver
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return newDriver(wd, nil, cfg), nil
}

func newDriver(wd selenium.WebDriver, svc service, cfg *Config) *Driver {
	return &Driver{
		WebDriver: wd,
		lookup:    lookup{src: wd, cfg: cfg, wd: wd},
		svc:       svc,
	}
}

// Unwrap returns the wrapped WebDriver.
func (d *Driver) Unwrap() selenium.WebDriver {
	return d.WebDriver
}

// Config returns a copy of the driver's configuration.
func (d *Driver) Config() Config {
	return *d.cfg
}

// Active returns the element that currently has focus.
func (d *Driver) Active() (*Element, error) {
	we, err := d.WebDriver.ActiveElement()
	if err != nil {
		return nil, err
	}
	if we == nil {
		return nil, fmt.Errorf("%w: no active element", ErrNoSuchElement)
	}
	return d.wrap(we), nil
}

// Quit ends the session and stops the WebDriver service started by Create,
// if any.
func (d *Driver) Quit() error {
	err := d.WebDriver.Quit()
	if d.svc != nil {
		glog.V(1).Info("stopping WebDriver service")
		if serr := d.svc.Stop(); serr != nil && err == nil {
			err = serr
		}
		d.svc = nil
	}
	return err
}

// BrowserVersion returns the version of the browser driven by the session.
func (d *Driver) BrowserVersion() (semver.Version, error) {
	caps, err := d.WebDriver.Capabilities()
	if err != nil {
		return semver.Version{}, err
	}
	for _, key := range []string{"browserVersion", "version"} {
		s, ok := caps[key].(string)
		if !ok || s == "" {
			continue
		}
		// Chrome reports four components, e.g. 79.0.3945.88.
		if parts := strings.SplitN(s, ".", 4); len(parts) == 4 {
			s = strings.Join(parts[:3], ".")
		}
		v, err := semver.ParseTolerant(s)
		if err != nil {
			return semver.Version{}, fmt.Errorf("parse browser version %q: %w", s, err)
		}
		return v, nil
	}
	return semver.Version{}, fmt.Errorf("session capabilities carry no browser version")
}

// Connect starts a session on a remote WebDriver server. The desired
// capabilities are the defaults of browser, merged with the capabilities set
// by opts and finally with caps. An empty executor uses Config.Executor.
func Connect(browser, executor string, caps selenium.Capabilities, opts ...Option) (*Driver, error) {
	name, err := normalizeBrowser(browser)
	if err != nil {
		return nil, err
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if executor == "" {
		executor = cfg.Executor
	}
	merged := mergeCapabilities(desired[name], cfg.caps, caps)
	glog.V(1).Infof("connecting to %s for %s", executor, name)
	wd, err := newRemote(merged, executor)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", executor, err)
	}
	return newDriver(wd, nil, cfg), nil
}

// Create launches a local WebDriver service for browser and starts a session
// on it. Quitting the returned Driver also stops the service.
func Create(browser string, opts ...Option) (*Driver, error) {
	name, err := normalizeBrowser(browser)
	if err != nil {
		return nil, err
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	svc, addr, err := startService(name, cfg)
	if err != nil {
		return nil, err
	}
	merged := mergeCapabilities(desired[name], cfg.caps)
	wd, err := newRemote(merged, addr)
	if err != nil {
		if serr := svc.Stop(); serr != nil {
			glog.Warningf("stopping %s service: %v", name, serr)
		}
		return nil, fmt.Errorf("new session on %s: %w", addr, err)
	}
	return newDriver(wd, svc, cfg), nil
}

// newRemote is replaced in tests.
var newRemote = selenium.NewRemote
