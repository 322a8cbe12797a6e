package seleniumwrapper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// finder is the lookup surface shared by selenium.WebDriver and
// selenium.WebElement.
type finder interface {
	FindElement(by, value string) (selenium.WebElement, error)
	FindElements(by, value string) ([]selenium.WebElement, error)
}

var strategies = map[string]bool{
	selenium.ByID:              true,
	selenium.ByXPATH:           true,
	selenium.ByLinkText:        true,
	selenium.ByPartialLinkText: true,
	selenium.ByName:            true,
	selenium.ByTagName:         true,
	selenium.ByClassName:       true,
	selenium.ByCSSSelector:     true,
}

// LookupOption adjusts a single lookup.
type LookupOption func(*lookupOptions)

type lookupOptions struct {
	timeout  time.Duration
	interval time.Duration
	partial  bool
	tag      string
	alt, ext string
}

// Within overrides the timeout of one lookup.
func Within(d time.Duration) LookupOption {
	return func(o *lookupOptions) { o.timeout = d }
}

// Every overrides the poll interval of one lookup.
func Every(d time.Duration) LookupOption {
	return func(o *lookupOptions) {
		if d > 0 {
			o.interval = d
		}
	}
}

// Partial makes ByLinkText, ByText and Button match on a substring.
func Partial() LookupOption {
	return func(o *lookupOptions) { o.partial = true }
}

// Tag restricts ByText to elements with the given tag name.
func Tag(name string) LookupOption {
	return func(o *lookupOptions) { o.tag = name }
}

// Alt makes Img match images whose alt text contains s.
func Alt(s string) LookupOption {
	return func(o *lookupOptions) { o.alt = s }
}

// Ext makes Img match images whose source contains s, usually a file
// extension such as ".png".
func Ext(s string) LookupOption {
	return func(o *lookupOptions) { o.ext = s }
}

// errPollTimeout is returned by poll when the condition never held.
var errPollTimeout = errors.New("timeout")

// poll calls cond until it reports done, returns an error, or the timeout
// elapses. cond is always called at least once.
func poll(timeout, interval time.Duration, cond func() (bool, error)) error {
	start := time.Now()
	for {
		done, err := cond()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Since(start) >= timeout {
			return errPollTimeout
		}
		time.Sleep(interval)
	}
}

// lookup implements the waiting finders and aliases. It is embedded in both
// Driver and Element.
type lookup struct {
	src    finder
	cfg    *Config
	scoped bool
	// wd is the session the elements belong to. It is nil for elements
	// wrapped with Wrap.
	wd     selenium.WebDriver
}

func (l lookup) options(opts []LookupOption) lookupOptions {
	o := lookupOptions{timeout: l.cfg.Timeout, interval: l.cfg.PollInterval}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (l lookup) root() string {
	if l.scoped {
		return "."
	}
	return ""
}

func (l lookup) wrap(we selenium.WebElement) *Element {
	return &Element{WebElement: we, lookup: lookup{src: we, cfg: l.cfg, scoped: true, wd: l.wd}}
}

func (l lookup) wrapAll(wes []selenium.WebElement) *Elements {
	return &Elements{elems: wes, cfg: l.cfg, wd: l.wd}
}

// Find looks up a single element without waiting.
func (l lookup) Find(by, value string) (*Element, error) {
	if !strategies[by] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, by)
	}
	we, err := l.src.FindElement(by, value)
	if err != nil {
		return nil, err
	}
	if we == nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrNoSuchElement, by, value)
	}
	return l.wrap(we), nil
}

// FindAll looks up every matching element without waiting. An empty result is
// not an error.
func (l lookup) FindAll(by, value string) (*Elements, error) {
	if !strategies[by] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, by)
	}
	wes, err := l.src.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	return l.wrapAll(wes), nil
}

// WaitFor polls for an element matching the selenium.By* strategy by and
// value until one is found or the timeout elapses. Failures reported by the
// WebDriver server are retried; other errors are returned as they are.
func (l lookup) WaitFor(by, value string, opts ...LookupOption) (*Element, error) {
	if !strategies[by] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, by)
	}
	o := l.options(opts)
	glog.V(1).Infof("waiting up to %v for %s=%q", o.timeout, by, value)

	var found selenium.WebElement
	var last error
	err := poll(o.timeout, o.interval, func() (bool, error) {
		we, err := l.src.FindElement(by, value)
		switch {
		case err != nil && !retryable(err):
			return false, err
		case err != nil:
			glog.V(2).Infof("%s=%q not found yet: %v", by, value, err)
			last = err
			return false, nil
		case we == nil:
			last = nil
			return false, nil
		}
		found = we
		return true, nil
	})
	if err != nil {
		return nil, notFound(err, by, value, o.timeout, last)
	}
	return l.wrap(found), nil
}

// WaitForAll is the variant of WaitFor that waits for at least one matching
// element and returns all of them.
func (l lookup) WaitForAll(by, value string, opts ...LookupOption) (*Elements, error) {
	if !strategies[by] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, by)
	}
	o := l.options(opts)
	glog.V(1).Infof("waiting up to %v for all %s=%q", o.timeout, by, value)

	var found []selenium.WebElement
	var last error
	err := poll(o.timeout, o.interval, func() (bool, error) {
		wes, err := l.src.FindElements(by, value)
		switch {
		case err != nil && !retryable(err):
			return false, err
		case err != nil:
			glog.V(2).Infof("%s=%q not found yet: %v", by, value, err)
			last = err
			return false, nil
		case len(wes) == 0:
			last = nil
			return false, nil
		}
		found = wes
		return true, nil
	})
	if err != nil {
		return nil, notFound(err, by, value, o.timeout, last)
	}
	return l.wrapAll(found), nil
}

func notFound(err error, by, value string, timeout time.Duration, last error) error {
	if err != errPollTimeout {
		return err
	}
	return &lookupError{by: by, value: value, timeout: timeout, last: last}
}

// lookupError is returned when a wait times out. It matches ErrNoSuchElement
// with errors.Is and unwraps to the last error reported by the driver, if
// any.
type lookupError struct {
	by, value string
	timeout   time.Duration
	last      error
}

func (e *lookupError) Error() string {
	msg := fmt.Sprintf("%v: %s=%q after %v", ErrNoSuchElement, e.by, e.value, e.timeout)
	if e.last != nil {
		msg += ": " + e.last.Error()
	}
	return msg
}

func (e *lookupError) Is(target error) bool {
	return target == ErrNoSuchElement
}

func (e *lookupError) Unwrap() error {
	return e.last
}

// XPath waits for the element matching an XPath expression.
func (l lookup) XPath(expr string, opts ...LookupOption) (*Element, error) {
	return l.WaitFor(selenium.ByXPATH, expr, opts...)
}

// XPathAll waits for the elements matching an XPath expression.
func (l lookup) XPathAll(expr string, opts ...LookupOption) (*Elements, error) {
	return l.WaitForAll(selenium.ByXPATH, expr, opts...)
}

// CSS waits for the element matching a CSS selector.
func (l lookup) CSS(selector string, opts ...LookupOption) (*Element, error) {
	return l.WaitFor(selenium.ByCSSSelector, selector, opts...)
}

// CSSAll waits for the elements matching a CSS selector.
func (l lookup) CSSAll(selector string, opts ...LookupOption) (*Elements, error) {
	return l.WaitForAll(selenium.ByCSSSelector, selector, opts...)
}

// ByTag waits for an element with the given tag name.
func (l lookup) ByTag(name string, opts ...LookupOption) (*Element, error) {
	return l.WaitFor(selenium.ByTagName, name, opts...)
}

// ByTagAll waits for the elements with the given tag name.
func (l lookup) ByTagAll(name string, opts ...LookupOption) (*Elements, error) {
	return l.WaitForAll(selenium.ByTagName, name, opts...)
}

// ByClass waits for an element with the given class name.
func (l lookup) ByClass(name string, opts ...LookupOption) (*Element, error) {
	return l.WaitFor(selenium.ByClassName, name, opts...)
}

// ByClassAll waits for the elements with the given class name.
func (l lookup) ByClassAll(name string, opts ...LookupOption) (*Elements, error) {
	return l.WaitForAll(selenium.ByClassName, name, opts...)
}

// ByID waits for the element with the given id.
func (l lookup) ByID(id string, opts ...LookupOption) (*Element, error) {
	return l.WaitFor(selenium.ByID, id, opts...)
}

// ByName waits for an element with the given name attribute.
func (l lookup) ByName(name string, opts ...LookupOption) (*Element, error) {
	return l.WaitFor(selenium.ByName, name, opts...)
}

// ByNameAll waits for the elements with the given name attribute.
func (l lookup) ByNameAll(name string, opts ...LookupOption) (*Elements, error) {
	return l.WaitForAll(selenium.ByName, name, opts...)
}

func linkStrategy(o lookupOptions) string {
	if o.partial {
		return selenium.ByPartialLinkText
	}
	return selenium.ByLinkText
}

// ByLinkText waits for a link with the given text. With Partial, the link
// text only has to contain it.
func (l lookup) ByLinkText(text string, opts ...LookupOption) (*Element, error) {
	return l.WaitFor(linkStrategy(l.options(opts)), text, opts...)
}

// ByLinkTextAll waits for the links with the given text.
func (l lookup) ByLinkTextAll(text string, opts ...LookupOption) (*Elements, error) {
	return l.WaitForAll(linkStrategy(l.options(opts)), text, opts...)
}

// Href waits for a link whose href contains url.
func (l lookup) Href(url string, opts ...LookupOption) (*Element, error) {
	return l.XPath(hrefXPath(l.root(), url), opts...)
}

// HrefAll waits for the links whose href contains url.
func (l lookup) HrefAll(url string, opts ...LookupOption) (*Elements, error) {
	return l.XPathAll(hrefXPath(l.root(), url), opts...)
}

// Img waits for an image, filtered by the Alt and Ext options.
func (l lookup) Img(opts ...LookupOption) (*Element, error) {
	o := l.options(opts)
	return l.XPath(imgXPath(l.root(), o.alt, o.ext), opts...)
}

// ImgAll waits for the images matching the Alt and Ext options.
func (l lookup) ImgAll(opts ...LookupOption) (*Elements, error) {
	o := l.options(opts)
	return l.XPathAll(imgXPath(l.root(), o.alt, o.ext), opts...)
}

// ByText waits for an element whose text is text, or contains it with
// Partial. Tag restricts the element type.
func (l lookup) ByText(text string, opts ...LookupOption) (*Element, error) {
	o := l.options(opts)
	return l.XPath(textXPath(l.root(), o.tag, text, o.partial), opts...)
}

// ByTextAll waits for the elements matching ByText's conditions.
func (l lookup) ByTextAll(text string, opts ...LookupOption) (*Elements, error) {
	o := l.options(opts)
	return l.XPathAll(textXPath(l.root(), o.tag, text, o.partial), opts...)
}

// Button waits for a submit, button or reset input with the given value, or a
// <button> with the given text.
func (l lookup) Button(value string, opts ...LookupOption) (*Element, error) {
	o := l.options(opts)
	return l.XPath(buttonXPath(l.root(), value, o.partial), opts...)
}

// ButtonAll waits for the buttons matching Button's conditions.
func (l lookup) ButtonAll(value string, opts ...LookupOption) (*Elements, error) {
	o := l.options(opts)
	return l.XPathAll(buttonXPath(l.root(), value, o.partial), opts...)
}
