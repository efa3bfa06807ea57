package search

import (
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	d, err := New(nil, nil, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.From() != 0 {
		t.Errorf("From() = %d", d.From())
	}
	if d.Size() != DefaultSize {
		t.Errorf("Size() = %d, want %d", d.Size(), DefaultSize)
	}
	if d.Query() != nil {
		t.Errorf("Query() = %v, want nil", d.Query())
	}
	if d.Sorting() != nil {
		t.Errorf("Sorting() = %v, want nil", d.Sorting())
	}
}

func TestNew_NegativeFrom(t *testing.T) {
	_, err := New(nil, nil, -1, 0)
	if err == nil {
		t.Fatal("expected error for negative from")
	}
}

func TestNew_NegativeSize(t *testing.T) {
	_, err := New(nil, nil, 0, -5)
	if err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestNew_SizeClamped(t *testing.T) {
	d, err := New(nil, nil, 0, MaxSize+1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Size() != MaxSize {
		t.Errorf("Size() = %d, want clamped to %d", d.Size(), MaxSize)
	}
}

func TestNew_ClonesQuery(t *testing.T) {
	q := map[string]any{"term": map[string]any{"status": "active"}}
	d, _ := New(q, nil, 0, 0)

	q["term"] = "mutated"

	if d.Query()["term"] == "mutated" {
		t.Error("query mutation leaked into descriptor")
	}
}

func TestNew_EmptyQueryNormalizedToNil(t *testing.T) {
	d, _ := New(map[string]any{}, []map[string]any{}, 0, 0)
	if d.Query() != nil {
		t.Errorf("Query() = %v, want nil", d.Query())
	}
	if d.Sorting() != nil {
		t.Errorf("Sorting() = %v, want nil", d.Sorting())
	}
}

func TestNew_RejectsClausesThatDoNotEncode(t *testing.T) {
	if _, err := New(map[string]any{"script": func() {}}, nil, 0, 0); err == nil {
		t.Error("expected error for a query json cannot encode")
	}
	if _, err := New(nil, []map[string]any{{"cmp": make(chan int)}}, 0, 0); err == nil {
		t.Error("expected error for a sort clause json cannot encode")
	}
}

func TestQuery_ReturnsCopy(t *testing.T) {
	d, err := New(map[string]any{"term": map[string]any{"status": "active"}}, nil, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fp := Fingerprint("item", &d)

	q := d.Query()
	delete(q, "term")
	q["match_all"] = map[string]any{}

	if _, ok := d.Query()["term"]; !ok {
		t.Error("mutating the returned clause leaked into the descriptor")
	}
	if Fingerprint("item", &d) != fp {
		t.Error("descriptor fingerprint changed after mutating an accessor copy")
	}
}

func TestSorting_ReturnsCopy(t *testing.T) {
	d, err := New(nil, []map[string]any{{"price": "asc"}}, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.Sorting()[0]["price"] = "desc"

	if d.Sorting()[0]["price"] != "asc" {
		t.Error("mutating the returned sort clause leaked into the descriptor")
	}
}

func TestFingerprint_EqualForEqualValues(t *testing.T) {
	q1 := map[string]any{"term": map[string]any{"status": "active"}, "boost": 2}
	q2 := map[string]any{"boost": 2, "term": map[string]any{"status": "active"}}
	s := []map[string]any{{"price": "asc"}}

	d1, _ := New(q1, s, 5, 20)
	d2, _ := New(q2, s, 5, 20)

	if Fingerprint("item", &d1) != Fingerprint("item", &d2) {
		t.Error("value-equal descriptors must fingerprint identically")
	}
}

func TestFingerprint_EmptyAndNilQueryEqual(t *testing.T) {
	d1, _ := New(nil, nil, 0, 0)
	d2, _ := New(map[string]any{}, []map[string]any{}, 0, 0)

	if Fingerprint("item", &d1) != Fingerprint("item", &d2) {
		t.Error("nil and empty clauses must fingerprint identically")
	}
}

func TestFingerprint_DistinguishesKind(t *testing.T) {
	d, _ := New(nil, nil, 0, 0)
	if Fingerprint("item", &d) == Fingerprint("user", &d) {
		t.Error("different kinds must fingerprint differently")
	}
}

func TestFingerprint_DistinguishesWindow(t *testing.T) {
	d1, _ := New(nil, nil, 0, 10)
	d2, _ := New(nil, nil, 10, 10)
	if Fingerprint("item", &d1) == Fingerprint("item", &d2) {
		t.Error("different windows must fingerprint differently")
	}
}

func TestFingerprint_DistinguishesSortOrder(t *testing.T) {
	s1 := []map[string]any{{"price": "asc"}, {"name": "desc"}}
	s2 := []map[string]any{{"name": "desc"}, {"price": "asc"}}
	d1, _ := New(nil, s1, 0, 0)
	d2, _ := New(nil, s2, 0, 0)
	if Fingerprint("item", &d1) == Fingerprint("item", &d2) {
		t.Error("sort clause order is significant")
	}
}
