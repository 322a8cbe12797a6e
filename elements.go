package seleniumwrapper

import (
	"math/rand"

	"github.com/tebeka/selenium"
)

// Elements is the result of a lookup that matches many elements. Each
// element it hands out is wrapped as an *Element.
type Elements struct {
	elems []selenium.WebElement
	cfg   *Config
	wd    selenium.WebDriver
}

// Len returns the number of elements.
func (es *Elements) Len() int {
	return len(es.elems)
}

// At returns the i'th element. It panics if i is out of range.
func (es *Elements) At(i int) *Element {
	return es.wrap(es.elems[i])
}

// Slice returns every element, wrapped.
func (es *Elements) Slice() []*Element {
	out := make([]*Element, len(es.elems))
	for i, we := range es.elems {
		out[i] = es.wrap(we)
	}
	return out
}

// Unwrap returns the underlying WebElements.
func (es *Elements) Unwrap() []selenium.WebElement {
	return es.elems
}

// Contains reports whether we is one of the elements. A wrapped *Element is
// compared by the WebElement it wraps. Membership means the same handle, not
// the same DOM node: every lookup decodes a new WebElement, so an element
// found again by a later lookup is not contained.
func (es *Elements) Contains(we selenium.WebElement) bool {
	if e, ok := we.(*Element); ok {
		we = e.WebElement
	}
	for _, x := range es.elems {
		if x == we {
			return true
		}
	}
	return false
}

// Sample returns n distinct elements picked at random, in random order. It
// returns every element if n is larger than Len.
func (es *Elements) Sample(n int) []*Element {
	if n > len(es.elems) {
		n = len(es.elems)
	}
	if n < 0 {
		n = 0
	}
	out := make([]*Element, 0, n)
	for _, i := range rand.Perm(len(es.elems))[:n] {
		out = append(out, es.wrap(es.elems[i]))
	}
	return out
}

// Choice returns one element picked at random, or nil if there are none.
func (es *Elements) Choice() *Element {
	if len(es.elems) == 0 {
		return nil
	}
	return es.wrap(es.elems[rand.Intn(len(es.elems))])
}

// Filter returns the elements for which keep reports true. It stops at the
// first error.
func (es *Elements) Filter(keep func(*Element) (bool, error)) (*Elements, error) {
	var kept []selenium.WebElement
	for _, we := range es.elems {
		ok, err := keep(es.wrap(we))
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, we)
		}
	}
	return &Elements{elems: kept, cfg: es.cfg, wd: es.wd}, nil
}

func (es *Elements) wrap(we selenium.WebElement) *Element {
	return lookup{cfg: es.cfg, wd: es.wd}.wrap(we)
}
