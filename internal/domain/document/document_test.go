package document

import (
	"errors"
	"testing"

	"github.com/docdex-io/docdex/internal/domain"
)

func TestKeyOf(t *testing.T) {
	d := NewRaw("item", "i-1", nil)
	key := KeyOf(d)
	if key.Kind != "item" || key.ID != "i-1" {
		t.Errorf("KeyOf() = %+v", key)
	}
}

func TestRaw_StorableClones(t *testing.T) {
	d := NewRaw("item", "i-1", map[string]any{"name": "lamp"})

	s := d.Storable()
	s["name"] = "mutated"

	if got, _ := d.Field("name"); got != "lamp" {
		t.Errorf("Field(name) = %v after mutating Storable copy", got)
	}
}

func TestRaw_NewClonesInput(t *testing.T) {
	fields := map[string]any{"k": "v"}
	d := NewRaw("item", "i-1", fields)

	fields["k"] = "mutated"

	if got, _ := d.Field("k"); got != "v" {
		t.Errorf("Field(k) = %v, input mutation leaked in", got)
	}
}

func TestRaw_BuildFromSource(t *testing.T) {
	d := NewRaw("item", "i-1", map[string]any{"old": true})

	if err := d.BuildFromSource(map[string]any{"name": "lamp", "price": 9.5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := d.Field("old"); ok {
		t.Error("BuildFromSource should replace previous fields")
	}
	if got, _ := d.Field("price"); got != 9.5 {
		t.Errorf("Field(price) = %v", got)
	}
	if d.Kind() != "item" || d.ID() != "i-1" {
		t.Error("BuildFromSource must not touch identity")
	}
}

func TestRaw_SetField(t *testing.T) {
	d := NewRaw("item", "i-1", nil)
	d.SetField("name", "lamp")
	if got, _ := d.Field("name"); got != "lamp" {
		t.Errorf("Field(name) = %v", got)
	}
}

func TestFactory_New(t *testing.T) {
	f := NewFactory()
	f.Register("item", func(id string) Document { return NewRaw("item", id, nil) })

	d, err := f.New("item", "i-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind() != "item" || d.ID() != "i-1" {
		t.Errorf("New() built %s/%s", d.Kind(), d.ID())
	}
}

func TestFactory_UnknownKind(t *testing.T) {
	f := NewFactory()
	_, err := f.New("ghost", "g-1")
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Fatalf("error = %v, want ErrUnknownKind", err)
	}
}

func TestFactory_RegisterReplaces(t *testing.T) {
	f := NewFactory()
	f.Register("item", func(id string) Document { return NewRaw("old", id, nil) })
	f.Register("item", func(id string) Document { return NewRaw("new", id, nil) })

	d, err := f.New("item", "i-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind() != "new" {
		t.Errorf("Kind() = %q, want constructor replaced", d.Kind())
	}
}

func TestFactory_KindsSorted(t *testing.T) {
	f := NewFactory()
	for _, k := range []string{"zebra", "apple", "mango"} {
		f.Register(k, func(id string) Document { return NewRaw(k, id, nil) })
	}

	kinds := f.Kinds()
	want := []string{"apple", "mango", "zebra"}
	if len(kinds) != len(want) {
		t.Fatalf("Kinds() len = %d", len(kinds))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("Kinds()[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}
