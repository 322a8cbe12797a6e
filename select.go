package seleniumwrapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tebeka/selenium"
)

// Select drives a <select> dropdown.
type Select struct {
	elem    *Element
	isMulti bool
}

// Select returns a Select for the element, which must be a <select>.
func (e *Element) Select() (*Select, error) {
	tagName, err := e.TagName()
	if err != nil {
		return nil, err
	}
	if strings.ToLower(tagName) != "select" {
		return nil, fmt.Errorf("%w: got <%s>", ErrNotSelect, tagName)
	}
	mult, err := e.GetAttribute("multiple")
	isMulti := err == nil && mult != "" && strings.ToLower(mult) != "false"
	return &Select{elem: e, isMulti: isMulti}, nil
}

// Element returns the <select> element.
func (s *Select) Element() *Element {
	return s.elem
}

// IsMultiple reports whether several options may be selected at the same time,
// going by the "multiple" attribute.
func (s *Select) IsMultiple() bool {
	return s.isMulti
}

// Options returns every option of the select.
func (s *Select) Options() (*Elements, error) {
	return s.elem.FindAll(selenium.ByTagName, "option")
}

// Selected returns the selected options.
func (s *Select) Selected() (*Elements, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	return opts.Filter(func(o *Element) (bool, error) {
		return o.IsSelected()
	})
}

// FirstSelected returns the first selected option.
func (s *Select) FirstSelected() (*Element, error) {
	opts, err := s.Selected()
	if err != nil {
		return nil, err
	}
	if opts.Len() == 0 {
		return nil, fmt.Errorf("%w: no selected option", ErrNoSuchElement)
	}
	return opts.At(0), nil
}

// SelectByText selects the options whose visible text is text, e.g. given
// "Bar" it selects <option value="foo">Bar</option>. Surrounding whitespace
// is ignored.
func (s *Select) SelectByText(text string) error {
	options, err := s.optionsByText(text)
	if err != nil {
		return err
	}
	return s.setAll(options, true)
}

// SelectByValue selects the options whose value attribute is value.
func (s *Select) SelectByValue(value string) error {
	options, err := s.optionsByValue(value)
	if err != nil {
		return err
	}
	return s.setAll(options, true)
}

// SelectByIndex selects the option whose index property is idx.
func (s *Select) SelectByIndex(idx int) error {
	return s.setByIndex(idx, true)
}

// DeselectAll clears every selected option of a multi-select.
func (s *Select) DeselectAll() error {
	if !s.isMulti {
		return ErrNotMultiple
	}
	opts, err := s.Options()
	if err != nil {
		return err
	}
	return s.setAll(opts.Unwrap(), false)
}

// DeselectByText deselects the options whose visible text is text.
func (s *Select) DeselectByText(text string) error {
	if !s.isMulti {
		return ErrNotMultiple
	}
	options, err := s.optionsByText(text)
	if err != nil {
		return err
	}
	return s.setAll(options, false)
}

// DeselectByValue deselects the options whose value attribute is value.
func (s *Select) DeselectByValue(value string) error {
	if !s.isMulti {
		return ErrNotMultiple
	}
	options, err := s.optionsByValue(value)
	if err != nil {
		return err
	}
	return s.setAll(options, false)
}

// DeselectByIndex deselects the option whose index property is idx.
func (s *Select) DeselectByIndex(idx int) error {
	if !s.isMulti {
		return ErrNotMultiple
	}
	return s.setByIndex(idx, false)
}

func (s *Select) optionsByText(text string) ([]selenium.WebElement, error) {
	options, err := s.elem.WebElement.FindElements(selenium.ByXPATH, ".//option[normalize-space(.) = "+xpathLiteral(strings.TrimSpace(text))+"]")
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		return options, nil
	}

	// normalize-space also collapses inner runs of spaces, so fall back to
	// comparing the trimmed text of candidates sharing the longest word.
	var candidates []selenium.WebElement
	if word := longestWord(text); word == "" {
		candidates, err = s.elem.WebElement.FindElements(selenium.ByTagName, "option")
	} else {
		candidates, err = s.elem.WebElement.FindElements(selenium.ByXPATH, ".//option[contains(., "+xpathLiteral(word)+")]")
	}
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(text)
	for _, option := range candidates {
		o, err := option.Text()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(o) == trimmed {
			options = append(options, option)
		}
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: option with text %q", ErrNoSuchElement, text)
	}
	return options, nil
}

func (s *Select) optionsByValue(value string) ([]selenium.WebElement, error) {
	opts, err := s.elem.WebElement.FindElements(selenium.ByXPATH, ".//option[@value = "+xpathLiteral(value)+"]")
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("%w: option with value %q", ErrNoSuchElement, value)
	}
	return opts, nil
}

func (s *Select) setByIndex(idx int, selected bool) error {
	want := strconv.Itoa(idx)
	opts, err := s.elem.WebElement.FindElements(selenium.ByTagName, "option")
	if err != nil {
		return err
	}
	for _, o := range opts {
		got, err := o.GetAttribute("index")
		if err != nil {
			return err
		}
		if got == want {
			return setSelected(o, selected)
		}
	}
	return fmt.Errorf("%w: option with index %d", ErrNoSuchElement, idx)
}

// setAll applies selected to every option. A single select only takes the
// first one.
func (s *Select) setAll(options []selenium.WebElement, selected bool) error {
	for _, o := range options {
		if err := setSelected(o, selected); err != nil {
			return err
		}
		if !s.isMulti {
			return nil
		}
	}
	return nil
}

func setSelected(option selenium.WebElement, selected bool) error {
	sel, err := option.IsSelected()
	if err != nil {
		return err
	}
	if sel != selected {
		return option.Click()
	}
	return nil
}

func longestWord(s string) string {
	var result string
	for _, w := range strings.Fields(s) {
		if len(w) > len(result) {
			result = w
		}
	}
	return result
}
