package seleniumwrapper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tebeka/selenium"
)

// Browser names accepted by Create and Connect.
const (
	Android          = "android"
	ChromeBrowser    = "chrome"
	FirefoxBrowser   = "firefox"
	HTMLUnit         = "htmlunit"
	HTMLUnitWithJS   = "htmlunitwithjs"
	InternetExplorer = "internetexplorer"
	IPad             = "ipad"
	IPhone           = "iphone"
	Opera            = "opera"
	Safari           = "safari"
)

var browserAliases = map[string]string{
	"ie":                InternetExplorer,
	"internet explorer": InternetExplorer,
}

// desired holds the default desired capabilities of each browser. Entries are
// never handed out directly; see DesiredCapabilities.
var desired = map[string]selenium.Capabilities{
	Android: {
		"browserName":       "android",
		"version":           "",
		"platform":          "ANDROID",
		"javascriptEnabled": true,
	},
	ChromeBrowser: {
		"browserName":       "chrome",
		"version":           "",
		"platform":          "ANY",
		"javascriptEnabled": true,
	},
	FirefoxBrowser: {
		"browserName":       "firefox",
		"version":           "",
		"platform":          "ANY",
		"javascriptEnabled": true,
	},
	HTMLUnit: {
		"browserName": "htmlunit",
		"version":     "",
		"platform":    "ANY",
	},
	HTMLUnitWithJS: {
		"browserName":       "htmlunit",
		"version":           "firefox",
		"platform":          "ANY",
		"javascriptEnabled": true,
	},
	InternetExplorer: {
		"browserName":       "internet explorer",
		"version":           "",
		"platform":          "WINDOWS",
		"javascriptEnabled": true,
	},
	IPad: {
		"browserName":       "iPad",
		"version":           "",
		"platform":          "MAC",
		"javascriptEnabled": true,
	},
	IPhone: {
		"browserName":       "iPhone",
		"version":           "",
		"platform":          "MAC",
		"javascriptEnabled": true,
	},
	Opera: {
		"browserName":       "opera",
		"version":           "",
		"platform":          "ANY",
		"javascriptEnabled": true,
	},
	Safari: {
		"browserName":       "safari",
		"version":           "",
		"platform":          "ANY",
		"javascriptEnabled": true,
	},
}

// Browsers returns the sorted list of browser names known to Create and
// Connect.
func Browsers() []string {
	names := make([]string, 0, len(desired))
	for name := range desired {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalizeBrowser maps a user-supplied browser name to its canonical form.
func normalizeBrowser(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := browserAliases[n]; ok {
		n = alias
	}
	if _, ok := desired[n]; !ok {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownBrowser, name, strings.Join(Browsers(), ", "))
	}
	return n, nil
}

// DesiredCapabilities returns a fresh copy of the default capabilities of the
// named browser. The caller may modify the result.
func DesiredCapabilities(browser string) (selenium.Capabilities, error) {
	name, err := normalizeBrowser(browser)
	if err != nil {
		return nil, err
	}
	return mergeCapabilities(desired[name]), nil
}

// mergeCapabilities returns a new map holding the keys of every argument,
// later arguments winning.
func mergeCapabilities(all ...selenium.Capabilities) selenium.Capabilities {
	merged := make(selenium.Capabilities)
	for _, caps := range all {
		for k, v := range caps {
			merged[k] = v
		}
	}
	return merged
}
