package redisearch

import (
	"errors"
	"testing"

	"github.com/docdex-io/docdex/internal/engine"
)

func TestTranslateQuery_Empty(t *testing.T) {
	q, extra, err := translateQuery("idx", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "*" || extra != nil {
		t.Errorf("query = %q extra = %v", q, extra)
	}
}

func TestTranslateQuery_MatchAll(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{"match_all": map[string]any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "*" {
		t.Errorf("query = %q", q)
	}
}

func TestTranslateQuery_TermString(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{
		"term": map[string]any{"status": "active"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "@status:{active}" {
		t.Errorf("query = %q", q)
	}
}

func TestTranslateQuery_TermValueForm(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{
		"term": map[string]any{"status": map[string]any{"value": "active"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "@status:{active}" {
		t.Errorf("query = %q", q)
	}
}

func TestTranslateQuery_TermNumeric(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{
		"term": map[string]any{"price": 9.5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "@price:[9.5 9.5]" {
		t.Errorf("query = %q", q)
	}
}

func TestTranslateQuery_TermEscapesTagValue(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{
		"term": map[string]any{"email": "a@b.c"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != `@email:{a\@b\.c}` {
		t.Errorf("query = %q", q)
	}
}

func TestTranslateQuery_Terms(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{
		"terms": map[string]any{"status": []any{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "(@status:{a} | @status:{b})" {
		t.Errorf("query = %q", q)
	}
}

func TestTranslateQuery_Match(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{
		"match": map[string]any{"name": "reading lamp"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "@name:(reading lamp)" {
		t.Errorf("query = %q", q)
	}
}

func TestTranslateQuery_Range(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{
		"range": map[string]any{"price": map[string]any{"gte": 10, "lt": 100}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "@price:[10 (100]" {
		t.Errorf("query = %q", q)
	}
}

func TestTranslateQuery_Bool(t *testing.T) {
	q, _, err := translateQuery("idx", map[string]any{
		"bool": map[string]any{
			"must":     []any{map[string]any{"term": map[string]any{"status": "active"}}},
			"should":   []any{map[string]any{"term": map[string]any{"color": "red"}}, map[string]any{"term": map[string]any{"color": "blue"}}},
			"must_not": []any{map[string]any{"term": map[string]any{"hidden": true}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "@status:{active} (@color:{red} | @color:{blue}) -@hidden:{true}"
	if q != want {
		t.Errorf("query = %q, want %q", q, want)
	}
}

func TestTranslateQuery_Ids(t *testing.T) {
	q, extra, err := translateQuery("catalog__item", map[string]any{
		"ids": map[string]any{"values": []any{"i-1", "i-2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "*" {
		t.Errorf("query = %q", q)
	}
	want := []string{"INKEYS", "2", "catalog__item:i-1", "catalog__item:i-2"}
	if len(extra) != len(want) {
		t.Fatalf("extra = %v", extra)
	}
	for i := range want {
		if extra[i] != want[i] {
			t.Errorf("extra[%d] = %q, want %q", i, extra[i], want[i])
		}
	}
}

func TestTranslateQuery_UnsupportedClause(t *testing.T) {
	_, _, err := translateQuery("idx", map[string]any{
		"fuzzy": map[string]any{"name": "lmap"},
	})
	if !errors.Is(err, engine.ErrUnsupportedQuery) {
		t.Fatalf("error = %v, want ErrUnsupportedQuery", err)
	}
}

func TestTranslateQuery_MultipleTopLevelClauses(t *testing.T) {
	_, _, err := translateQuery("idx", map[string]any{
		"term":  map[string]any{"a": "b"},
		"match": map[string]any{"c": "d"},
	})
	if !errors.Is(err, engine.ErrUnsupportedQuery) {
		t.Fatalf("error = %v, want ErrUnsupportedQuery", err)
	}
}

func TestTranslateSort_Shorthand(t *testing.T) {
	args, err := translateSort([]map[string]any{{"price": "desc"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(args) != 3 || args[0] != "SORTBY" || args[1] != "price" || args[2] != "DESC" {
		t.Errorf("args = %v", args)
	}
}

func TestTranslateSort_OrderForm(t *testing.T) {
	args, err := translateSort([]map[string]any{{"price": map[string]any{"order": "asc"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(args) != 3 || args[2] != "ASC" {
		t.Errorf("args = %v", args)
	}
}

func TestTranslateSort_MultipleClausesUnsupported(t *testing.T) {
	_, err := translateSort([]map[string]any{{"a": "asc"}, {"b": "desc"}})
	if !errors.Is(err, engine.ErrUnsupportedQuery) {
		t.Fatalf("error = %v, want ErrUnsupportedQuery", err)
	}
}

func TestBuildSchemaArgs(t *testing.T) {
	def := &engine.IndexDefinition{Mappings: map[string]any{
		"properties": map[string]any{
			"name":   map[string]any{"type": "text"},
			"status": map[string]any{"type": "keyword"},
			"price":  map[string]any{"type": "double"},
		},
	}}

	args, err := buildSchemaArgs(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"$.name", "AS", "name", "TEXT",
		"$.price", "AS", "price", "NUMERIC",
		"$.status", "AS", "status", "TAG",
	}
	if len(args) != len(want) {
		t.Fatalf("args = %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestBuildSchemaArgs_UnsupportedType(t *testing.T) {
	def := &engine.IndexDefinition{Mappings: map[string]any{
		"properties": map[string]any{
			"location": map[string]any{"type": "geo_point"},
		},
	}}

	_, err := buildSchemaArgs(def)
	if !errors.Is(err, engine.ErrUnsupportedMapping) {
		t.Fatalf("error = %v, want ErrUnsupportedMapping", err)
	}
}

func TestBuildSchemaArgs_NoProperties(t *testing.T) {
	_, err := buildSchemaArgs(&engine.IndexDefinition{Mappings: map[string]any{}})
	if !errors.Is(err, engine.ErrUnsupportedMapping) {
		t.Fatalf("error = %v, want ErrUnsupportedMapping", err)
	}
}

func TestEscapeQuery(t *testing.T) {
	input := `hello "world" @user {tag}`
	escaped := escapeQuery(input)
	expected := `hello \"world\" \@user \{tag\}`
	if escaped != expected {
		t.Errorf("expected %q, got %q", expected, escaped)
	}
}
