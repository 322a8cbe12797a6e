package seleniumwrapper

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/tebeka/selenium"
)

// Element wraps a selenium.WebElement. Every WebElement method is available
// on it; Click is replaced by a waiting variant, and the lookups of Driver
// are available scoped to the element.
type Element struct {
	selenium.WebElement
	lookup
}

// Wrap wraps an existing WebElement.
func Wrap(we selenium.WebElement, opts ...Option) (*Element, error) {
	if we == nil {
		return nil, ErrNilDriver
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return lookup{cfg: cfg}.wrap(we), nil
}

// Unwrap returns the wrapped WebElement.
func (e *Element) Unwrap() selenium.WebElement {
	return e.WebElement
}

// Parent returns the element's parent.
func (e *Element) Parent() (*Element, error) {
	return e.Find(selenium.ByXPATH, "..")
}

// hoverScript fires the events a pointer entering arguments[0] would.
const hoverScript = `var el = arguments[0];
["mouseover", "mouseenter", "mousemove"].forEach(function(type) {
	el.dispatchEvent(new MouseEvent(type, {bubbles: type !== "mouseenter", cancelable: true, view: window}));
});`

// Hover moves the mouse to the top-left corner of the element, scrolling it
// into view if needed. Servers that only speak the W3C protocol reject the
// legacy move command; for those the mouse events are dispatched on the
// element with a script instead. An element wrapped with Wrap has no session
// to run the script in, so the move error is returned.
func (e *Element) Hover() error {
	err := e.WebElement.MoveTo(0, 0)
	if err == nil || e.wd == nil {
		return err
	}
	glog.V(1).Infof("moving to the element failed, dispatching mouse events: %v", err)
	if _, serr := e.wd.ExecuteScript(hoverScript, []interface{}{e.WebElement}); serr != nil {
		return fmt.Errorf("hover: %v; dispatching mouse events: %w", err, serr)
	}
	return nil
}

// Click clicks the element once it is ready, waiting at most the configured
// timeout. See ClickWithin.
func (e *Element) Click() error {
	return e.ClickWithin(e.cfg.Timeout)
}

// ClickWithin waits until the element stops moving and is displayed, then
// clicks it, retrying while the WebDriver server rejects the click. The whole
// sequence is bounded by timeout.
func (e *Element) ClickWithin(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	remaining := func() time.Duration {
		if d := time.Until(deadline); d > 0 {
			return d
		}
		return 0
	}
	interval := e.cfg.PollInterval

	// The location is sampled once per interval and must match the previous
	// sample.
	var prev *selenium.Point
	err := poll(remaining(), interval, func() (bool, error) {
		cur, err := e.WebElement.Location()
		if err != nil {
			return false, err
		}
		if cur == nil {
			return false, fmt.Errorf("element reported no location")
		}
		if prev != nil && samePoint(prev, cur) {
			return true, nil
		}
		if prev != nil {
			glog.V(2).Infof("element moved from %v to %v", *prev, *cur)
		}
		prev = cur
		return false, nil
	})
	if err == errPollTimeout {
		return fmt.Errorf("%w after %v", ErrElementMoving, timeout)
	}
	if err != nil {
		return err
	}

	err = poll(remaining(), interval, func() (bool, error) {
		shown, err := e.WebElement.IsDisplayed()
		if err != nil && !retryable(err) {
			return false, err
		}
		return err == nil && shown, nil
	})
	if err == errPollTimeout {
		return fmt.Errorf("%w after %v", ErrNotVisible, timeout)
	}
	if err != nil {
		return err
	}

	var last error
	err = poll(remaining(), interval, func() (bool, error) {
		err := e.WebElement.Click()
		if err == nil {
			return true, nil
		}
		if !retryable(err) {
			return false, err
		}
		glog.V(2).Infof("click rejected: %v", err)
		last = err
		return false, nil
	})
	if err == errPollTimeout {
		return fmt.Errorf("click after %v: %w", timeout, last)
	}
	return err
}

func samePoint(a, b *selenium.Point) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
