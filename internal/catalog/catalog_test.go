package catalog

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 5 {
		t.Fatalf("expected 5 items, got %d", c.Len())
	}

	item, ok := c.Lookup("3")
	if !ok {
		t.Fatal("expected code 3 to resolve")
	}
	if item.Name != "Handcrafted Mug" || item.Price != 250 {
		t.Fatalf("unexpected item %+v", item)
	}

	if _, ok := c.Lookup("9"); ok {
		t.Fatal("unknown code must not resolve")
	}
	if _, ok := c.Lookup(""); ok {
		t.Fatal("empty code must not resolve")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]Item{
		{Code: "1", Name: "A", Price: 10},
		{Code: "1", Name: "B", Price: 20},
	})
	if err == nil {
		t.Fatal("expected duplicate code to error")
	}
}

func TestMenuTextListsEveryItem(t *testing.T) {
	menu := Default().MenuText()
	for _, want := range []string{"Wool Scarf - \u20b9450", "Cozy Beanie - \u20b9350", "Handcrafted Mug - \u20b9250", "Decorative Bowl - \u20b9500", "Embroidery Hoop - \u20b9650"} {
		if !strings.Contains(menu, want) {
			t.Fatalf("menu missing %q:\n%s", want, menu)
		}
	}
}
