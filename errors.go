package seleniumwrapper

import (
	"errors"

	"github.com/tebeka/selenium"
)

// Errors returned by the wrapper. Errors that originate in the WebDriver
// server are wrapped, so the underlying *selenium.Error stays reachable with
// errors.As.
var (
	// ErrNoSuchElement is returned when a lookup did not yield any element
	// before its timeout.
	ErrNoSuchElement = errors.New("no such element")
	// ErrNotVisible is returned by Click when the element never became
	// displayed.
	ErrNotVisible = errors.New("element not visible")
	// ErrElementMoving is returned by Click when the element's location did
	// not settle.
	ErrElementMoving = errors.New("element is still moving")
	// ErrUnknownBrowser is returned by Create and Connect for browser names
	// that have no desired capabilities.
	ErrUnknownBrowser = errors.New("unknown browser")
	// ErrNotLocal is returned by Create for browsers that cannot be started on
	// this machine, e.g. "iphone".
	ErrNotLocal = errors.New("browser cannot be launched locally")
	// ErrUnknownStrategy is returned for a lookup strategy that is not one of
	// the selenium.By* constants.
	ErrUnknownStrategy = errors.New("unknown lookup strategy")
	// ErrNilDriver is returned when wrapping a nil driver or element.
	ErrNilDriver = errors.New("nil driver or element")
	// ErrNotSelect is returned by Element.Select for non-<select> elements.
	ErrNotSelect = errors.New("element is not a select")
	// ErrNotMultiple is returned when deselecting options of a single select.
	ErrNotMultiple = errors.New("select does not support multiple selections")
)

// retryable reports whether a lookup or interaction that failed with err is
// worth trying again. Only failures reported by the WebDriver server and
// empty lookups qualify; anything else (transport errors, bad arguments) is
// final.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoSuchElement) {
		return true
	}
	var se *selenium.Error
	return errors.As(err, &se)
}
