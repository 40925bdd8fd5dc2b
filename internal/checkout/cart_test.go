package checkout

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCartSnapshot(t *testing.T) {
	snapshot, err := ParseCartSnapshot(`{"12": 2, "34": {"items_by_size": {"m": 1, "l": 3}}}`)
	if err != nil {
		t.Fatalf("ParseCartSnapshot: %v", err)
	}
	if len(snapshot) != 2 {
		t.Fatalf("entries = %d, want 2", len(snapshot))
	}
	plain := snapshot["12"]
	if plain.Quantity != 2 || plain.BySize != nil {
		t.Errorf("plain entry = %+v", plain)
	}
	sized := snapshot["34"]
	if sized.Quantity != 0 || sized.BySize["m"] != 1 || sized.BySize["l"] != 3 {
		t.Errorf("sized entry = %+v", sized)
	}
	if got := sized.Sizes(); !reflect.DeepEqual(got, []string{"l", "m"}) {
		t.Errorf("sizes = %v, want [l m]", got)
	}
	if got := snapshot.SKUs(); !reflect.DeepEqual(got, []string{"12", "34"}) {
		t.Errorf("skus = %v, want [12 34]", got)
	}
}

func TestParseCartSnapshotRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `bananas`,
		"not an object":     `[1, 2]`,
		"empty object":      `{}`,
		"string quantity":   `{"12": "2"}`,
		"float quantity":    `{"12": 2.5}`,
		"zero quantity":     `{"12": 0}`,
		"negative quantity": `{"12": -1}`,
		"empty size map":    `{"34": {"items_by_size": {}}}`,
		"zero size qty":     `{"34": {"items_by_size": {"m": 0}}}`,
		"wrong entry shape": `{"34": {"sizes": {"m": 1}}}`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCartSnapshot(text)
			var cartErr *CartFormatError
			if !errors.As(err, &cartErr) {
				t.Fatalf("expected CartFormatError, got %v", err)
			}
		})
	}
}
