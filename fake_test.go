package seleniumwrapper

import (
	"strings"
	"sync"

	"github.com/tebeka/selenium"
)

// fakeDriver embeds the WebDriver interface so that only the methods a test
// exercises need an implementation. Calling any other method panics.
type fakeDriver struct {
	selenium.WebDriver

	mu      sync.Mutex
	find    func(by, value string) (selenium.WebElement, error)
	findAll func(by, value string) ([]selenium.WebElement, error)
	active  selenium.WebElement
	caps    selenium.Capabilities
	quitErr error
	quits   int
	calls   []string
	title   string

	scriptErr error
	scripts   []string
	args      [][]interface{}
}

func (d *fakeDriver) record(by, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, by+"="+value)
}

func (d *fakeDriver) FindElement(by, value string) (selenium.WebElement, error) {
	d.record(by, value)
	if d.find == nil {
		return nil, noSuchElement()
	}
	return d.find(by, value)
}

func (d *fakeDriver) FindElements(by, value string) ([]selenium.WebElement, error) {
	d.record(by, value)
	if d.findAll == nil {
		return nil, nil
	}
	return d.findAll(by, value)
}

func (d *fakeDriver) ActiveElement() (selenium.WebElement, error) {
	return d.active, nil
}

func (d *fakeDriver) Capabilities() (selenium.Capabilities, error) {
	return d.caps, nil
}

func (d *fakeDriver) Title() (string, error) {
	return d.title, nil
}

func (d *fakeDriver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts = append(d.scripts, script)
	d.args = append(d.args, args)
	return nil, d.scriptErr
}

func (d *fakeDriver) Quit() error {
	d.quits++
	return d.quitErr
}

// fakeElement is the WebElement counterpart of fakeDriver.
type fakeElement struct {
	selenium.WebElement

	id       string
	tag      string
	text     string
	attrs    map[string]string
	selected bool

	find      func(by, value string) (selenium.WebElement, error)
	findAll   func(by, value string) ([]selenium.WebElement, error)
	location  func() (*selenium.Point, error)
	displayed func() (bool, error)
	click     func() error
	moveErr   error

	clicks int
	moves  int
	calls  []string
}

func (e *fakeElement) FindElement(by, value string) (selenium.WebElement, error) {
	e.calls = append(e.calls, by+"="+value)
	if e.find == nil {
		return nil, noSuchElement()
	}
	return e.find(by, value)
}

func (e *fakeElement) FindElements(by, value string) ([]selenium.WebElement, error) {
	e.calls = append(e.calls, by+"="+value)
	if e.findAll == nil {
		return nil, nil
	}
	return e.findAll(by, value)
}

func (e *fakeElement) Location() (*selenium.Point, error) {
	if e.location == nil {
		return &selenium.Point{X: 1, Y: 2}, nil
	}
	return e.location()
}

func (e *fakeElement) IsDisplayed() (bool, error) {
	if e.displayed == nil {
		return true, nil
	}
	return e.displayed()
}

func (e *fakeElement) Click() error {
	e.clicks++
	if e.click != nil {
		return e.click()
	}
	e.selected = !e.selected
	return nil
}

func (e *fakeElement) MoveTo(x, y int) error {
	e.moves++
	return e.moveErr
}

func (e *fakeElement) TagName() (string, error) {
	return e.tag, nil
}

func (e *fakeElement) Text() (string, error) {
	return e.text, nil
}

func (e *fakeElement) IsSelected() (bool, error) {
	return e.selected, nil
}

func (e *fakeElement) GetAttribute(name string) (string, error) {
	v, ok := e.attrs[name]
	if !ok {
		return "", &selenium.Error{Err: "no such attribute"}
	}
	return v, nil
}

func noSuchElement() error {
	return &selenium.Error{Err: "no such element", Message: "Unable to locate element"}
}

// newFakeSelect returns a <select> whose options answer the queries Select
// issues.
func newFakeSelect(multiple bool, options ...*fakeElement) *fakeElement {
	attrs := map[string]string{}
	if multiple {
		attrs["multiple"] = "true"
	}
	s := &fakeElement{id: "select", tag: "select", attrs: attrs}
	all := make([]selenium.WebElement, len(options))
	for i, o := range options {
		all[i] = o
	}
	s.findAll = func(by, value string) ([]selenium.WebElement, error) {
		if by == selenium.ByTagName && value == "option" {
			return all, nil
		}
		var out []selenium.WebElement
		for _, o := range options {
			switch {
			case strings.Contains(value, "@value"):
				if strings.Contains(value, xpathLiteral(o.attrs["value"])) {
					out = append(out, o)
				}
			case strings.Contains(value, "normalize-space"):
				if strings.Contains(value, xpathLiteral(strings.Join(strings.Fields(o.text), " "))) {
					out = append(out, o)
				}
			case strings.Contains(value, "contains(."):
				for _, w := range strings.Fields(o.text) {
					if strings.Contains(value, xpathLiteral(w)) {
						out = append(out, o)
						break
					}
				}
			}
		}
		return out, nil
	}
	return s
}

func newOption(index, value, text string) *fakeElement {
	return &fakeElement{
		id:    "option-" + value,
		tag:   "option",
		text:  text,
		attrs: map[string]string{"value": value, "index": index},
	}
}
