package schema

import "testing"

func TestRegisterMapping_LastWriteWins(t *testing.T) {
	r := New()
	r.RegisterMapping("item", map[string]any{"v": 1})
	r.RegisterMapping("item", map[string]any{"v": 2})

	m, ok := r.Mapping("item")
	if !ok {
		t.Fatal("Mapping() reported absent")
	}
	if m["v"] != 2 {
		t.Errorf("Mapping() = %v, want the later registration", m)
	}
}

func TestMapping_Absent(t *testing.T) {
	r := New()
	if _, ok := r.Mapping("ghost"); ok {
		t.Error("Mapping() of unregistered kind should report false")
	}
}

func TestDefinitions_SortedAndComplete(t *testing.T) {
	r := New()
	r.RegisterMapping("zebra", map[string]any{"z": true})
	r.RegisterMapping("apple", map[string]any{"a": true})
	r.RegisterSettings("apple", map[string]any{"shards": 1})

	defs := r.Definitions()
	if len(defs) != 2 {
		t.Fatalf("Definitions() len = %d", len(defs))
	}
	if defs[0].Kind != "apple" || defs[1].Kind != "zebra" {
		t.Errorf("Definitions() order = %s, %s", defs[0].Kind, defs[1].Kind)
	}
	if defs[0].Settings == nil {
		t.Error("apple should carry its registered settings")
	}
	if defs[1].Settings != nil {
		t.Error("zebra has no settings registered")
	}
}

func TestDefinitions_SettingsWithoutMappingIgnored(t *testing.T) {
	r := New()
	r.RegisterSettings("orphan", map[string]any{"shards": 2})

	if defs := r.Definitions(); len(defs) != 0 {
		t.Errorf("Definitions() = %v, want none without a mapping", defs)
	}
}
