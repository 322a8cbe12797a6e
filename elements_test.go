package seleniumwrapper

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tebeka/selenium"
)

func newFakeElements(ids ...string) *Elements {
	elems := make([]selenium.WebElement, len(ids))
	for i, id := range ids {
		elems[i] = &fakeElement{id: id, text: id}
	}
	cfg := DefaultConfig()
	return &Elements{elems: elems, cfg: &cfg}
}

func ids(es []*Element) []string {
	var out []string
	for _, e := range es {
		out = append(out, e.Unwrap().(*fakeElement).id)
	}
	return out
}

func TestElementsAccessors(t *testing.T) {
	es := newFakeElements("a", "b", "c")

	if es.Len() != 3 {
		t.Fatalf("es.Len() = %d, want 3", es.Len())
	}
	if got := es.At(2).Unwrap().(*fakeElement).id; got != "c" {
		t.Errorf("es.At(2) = %q, want %q", got, "c")
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids(es.Slice())); diff != "" {
		t.Errorf("es.Slice() returned diff (-want/+got):\n%s", diff)
	}
	if !es.Contains(es.Unwrap()[1]) {
		t.Error("es.Contains(b) = false, want true")
	}
	if !es.Contains(es.At(1)) {
		t.Error("es.Contains(wrapped b) = false, want true")
	}
	if es.Contains(&fakeElement{id: "a"}) {
		t.Error("es.Contains(other) = true, want false")
	}
}

func TestElementsContainsComparesHandles(t *testing.T) {
	// Each lookup decodes fresh handles, even for the same nodes.
	fd := &fakeDriver{findAll: func(by, value string) ([]selenium.WebElement, error) {
		return []selenium.WebElement{&fakeElement{id: "li-1"}}, nil
	}}
	d := newTestDriver(t, fd)

	first, err := d.FindAll(selenium.ByCSSSelector, "li")
	if err != nil {
		t.Fatalf("d.FindAll(ByCSSSelector, 'li') returned error: %v", err)
	}
	again, err := d.FindAll(selenium.ByCSSSelector, "li")
	if err != nil {
		t.Fatalf("d.FindAll(ByCSSSelector, 'li') returned error: %v", err)
	}
	if !first.Contains(first.At(0)) {
		t.Error("first.Contains(first.At(0)) = false, want true")
	}
	if first.Contains(again.At(0)) {
		t.Error("first.Contains(again.At(0)) = true, want false for a new handle")
	}
}

func TestElementsSample(t *testing.T) {
	es := newFakeElements("a", "b", "c", "d")

	for _, n := range []int{-1, 0, 2, 4, 10} {
		got := es.Sample(n)
		want := n
		if want < 0 {
			want = 0
		}
		if want > 4 {
			want = 4
		}
		if len(got) != want {
			t.Errorf("es.Sample(%d) returned %d elements, want %d", n, len(got), want)
		}
		seen := map[string]bool{}
		for _, id := range ids(got) {
			if seen[id] {
				t.Errorf("es.Sample(%d) returned %q twice", n, id)
			}
			seen[id] = true
		}
	}
}

func TestElementsChoice(t *testing.T) {
	if e := newFakeElements().Choice(); e != nil {
		t.Errorf("Choice() on empty Elements = %v, want nil", e)
	}
	es := newFakeElements("a", "b")
	for i := 0; i < 10; i++ {
		if !es.Contains(es.Choice()) {
			t.Fatal("es.Choice() returned an element not in es")
		}
	}
}

func TestElementsFilter(t *testing.T) {
	es := newFakeElements("keep", "drop", "keep too")

	kept, err := es.Filter(func(e *Element) (bool, error) {
		text, err := e.Text()
		return text != "drop", err
	})
	if err != nil {
		t.Fatalf("es.Filter(_) returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"keep", "keep too"}, ids(kept.Slice())); diff != "" {
		t.Errorf("es.Filter(_) returned diff (-want/+got):\n%s", diff)
	}

	boom := errors.New("boom")
	if _, err := es.Filter(func(*Element) (bool, error) { return false, boom }); err != boom {
		t.Errorf("es.Filter(failing) returned error %v, want %v", err, boom)
	}
}
