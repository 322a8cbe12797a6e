package seleniumwrapper

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func selected(options ...*fakeElement) []string {
	var out []string
	for _, o := range options {
		if o.selected {
			out = append(out, o.attrs["value"])
		}
	}
	return out
}

func TestSelectRequiresSelectElement(t *testing.T) {
	e := wrapFake(t, &fakeElement{tag: "div"})
	if _, err := e.Select(); !errors.Is(err, ErrNotSelect) {
		t.Errorf("e.Select() on <div> returned error %v, want %v", err, ErrNotSelect)
	}
}

func TestSelectIsMultiple(t *testing.T) {
	tests := []struct {
		attrs map[string]string
		want  bool
	}{
		{nil, false},
		{map[string]string{"multiple": "true"}, true},
		{map[string]string{"multiple": "multiple"}, true},
		{map[string]string{"multiple": "false"}, false},
		{map[string]string{"multiple": ""}, false},
	}
	for _, test := range tests {
		s, err := wrapFake(t, &fakeElement{tag: "SELECT", attrs: test.attrs}).Select()
		if err != nil {
			t.Fatalf("e.Select() returned error: %v", err)
		}
		if got := s.IsMultiple(); got != test.want {
			t.Errorf("attrs %v: s.IsMultiple() = %t, want %t", test.attrs, got, test.want)
		}
	}
}

func TestSingleSelect(t *testing.T) {
	one := newOption("0", "one", "First Value")
	two := newOption("1", "two", "  Second Value ")
	three := newOption("2", "three", "Third")
	s, err := wrapFake(t, newFakeSelect(false, one, two, three)).Select()
	if err != nil {
		t.Fatalf("e.Select() returned error: %v", err)
	}

	if err := s.SelectByValue("three"); err != nil {
		t.Fatalf("s.SelectByValue('three') returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"three"}, selected(one, two, three)); diff != "" {
		t.Errorf("after SelectByValue, selected diff (-want/+got):\n%s", diff)
	}

	// Selecting an option that is already selected must not toggle it.
	if err := s.SelectByValue("three"); err != nil {
		t.Fatalf("s.SelectByValue('three') returned error: %v", err)
	}
	if !three.selected {
		t.Error("second SelectByValue('three') deselected the option")
	}

	if err := s.SelectByText("Second Value"); err != nil {
		t.Fatalf("s.SelectByText('Second Value') returned error: %v", err)
	}
	if !two.selected {
		t.Error("SelectByText('Second Value') did not select the option")
	}

	if err := s.SelectByIndex(0); err != nil {
		t.Fatalf("s.SelectByIndex(0) returned error: %v", err)
	}
	if !one.selected {
		t.Error("SelectByIndex(0) did not select the option")
	}

	first, err := s.FirstSelected()
	if err != nil {
		t.Fatalf("s.FirstSelected() returned error: %v", err)
	}
	if got := first.Unwrap(); got != one {
		t.Errorf("s.FirstSelected() = %v, want %v", got, one)
	}

	for desc, err := range map[string]error{
		"DeselectAll":     s.DeselectAll(),
		"DeselectByValue": s.DeselectByValue("one"),
		"DeselectByText":  s.DeselectByText("First Value"),
		"DeselectByIndex": s.DeselectByIndex(0),
	} {
		if !errors.Is(err, ErrNotMultiple) {
			t.Errorf("s.%s() returned error %v, want %v", desc, err, ErrNotMultiple)
		}
	}
}

func TestMultiSelect(t *testing.T) {
	a := newOption("0", "a", "Apple")
	b := newOption("1", "b", "Banana")
	c := newOption("2", "c", "Apple")
	s, err := wrapFake(t, newFakeSelect(true, a, b, c)).Select()
	if err != nil {
		t.Fatalf("e.Select() returned error: %v", err)
	}

	if err := s.SelectByText("Apple"); err != nil {
		t.Fatalf("s.SelectByText('Apple') returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, selected(a, b, c)); diff != "" {
		t.Errorf("after SelectByText, selected diff (-want/+got):\n%s", diff)
	}

	if err := s.SelectByIndex(1); err != nil {
		t.Fatalf("s.SelectByIndex(1) returned error: %v", err)
	}
	sel, err := s.Selected()
	if err != nil {
		t.Fatalf("s.Selected() returned error: %v", err)
	}
	if sel.Len() != 3 {
		t.Errorf("s.Selected().Len() = %d, want 3", sel.Len())
	}

	if err := s.DeselectByValue("c"); err != nil {
		t.Fatalf("s.DeselectByValue('c') returned error: %v", err)
	}
	if err := s.DeselectByIndex(0); err != nil {
		t.Fatalf("s.DeselectByIndex(0) returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, selected(a, b, c)); diff != "" {
		t.Errorf("after deselecting, selected diff (-want/+got):\n%s", diff)
	}

	if err := s.DeselectAll(); err != nil {
		t.Fatalf("s.DeselectAll() returned error: %v", err)
	}
	if got := selected(a, b, c); len(got) != 0 {
		t.Errorf("after DeselectAll, selected = %v, want none", got)
	}
	if _, err := s.FirstSelected(); !errors.Is(err, ErrNoSuchElement) {
		t.Errorf("s.FirstSelected() returned error %v, want %v", err, ErrNoSuchElement)
	}
}

func TestSelectMissingOption(t *testing.T) {
	s, err := wrapFake(t, newFakeSelect(true, newOption("0", "a", "Apple"))).Select()
	if err != nil {
		t.Fatalf("e.Select() returned error: %v", err)
	}
	for desc, err := range map[string]error{
		"SelectByValue": s.SelectByValue("missing"),
		"SelectByText":  s.SelectByText("Missing"),
		"SelectByIndex": s.SelectByIndex(7),
	} {
		if !errors.Is(err, ErrNoSuchElement) {
			t.Errorf("s.%s() returned error %v, want %v", desc, err, ErrNoSuchElement)
		}
	}
}

func TestLongestWord(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  ", ""},
		{"a bb ccc", "ccc"},
		{"same size", "same"},
	}
	for _, test := range tests {
		if got := longestWord(test.in); got != test.want {
			t.Errorf("longestWord(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}
