package redisearch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/docdex-io/docdex/internal/engine"
)

// translateQuery renders the supported query DSL subset into an FT.SEARCH
// query string plus extra command args (INKEYS for ids queries). Supported
// clauses: match_all, term, terms, match, range, ids, bool{must, should,
// must_not}. An empty query is match-all.
func translateQuery(index string, q map[string]any) (string, []string, error) {
	if len(q) == 0 {
		return "*", nil, nil
	}
	if len(q) > 1 {
		return "", nil, fmt.Errorf("%w: a query takes exactly one top-level clause", engine.ErrUnsupportedQuery)
	}

	for name, raw := range q {
		if name == "ids" {
			keys, err := idsKeys(index, raw)
			if err != nil {
				return "", nil, err
			}
			extra := append([]string{"INKEYS", strconv.Itoa(len(keys))}, keys...)
			return "*", extra, nil
		}
		s, err := translateClause(name, raw)
		return s, nil, err
	}
	return "*", nil, nil
}

func translateClause(name string, raw any) (string, error) {
	switch name {
	case "match_all":
		return "*", nil
	case "term":
		return translateTerm(raw)
	case "terms":
		return translateTerms(raw)
	case "match":
		return translateMatch(raw)
	case "range":
		return translateRange(raw)
	case "bool":
		return translateBool(raw)
	default:
		return "", fmt.Errorf("%w: clause %q", engine.ErrUnsupportedQuery, name)
	}
}

func translateTerm(raw any) (string, error) {
	field, val, err := singleField(raw, "term")
	if err != nil {
		return "", err
	}
	if spec, ok := val.(map[string]any); ok {
		if v, ok := spec["value"]; ok {
			val = v
		}
	}
	return fieldPredicate(field, val)
}

func translateTerms(raw any) (string, error) {
	field, val, err := singleField(raw, "terms")
	if err != nil {
		return "", err
	}
	vals, err := anyList(val)
	if err != nil || len(vals) == 0 {
		return "", fmt.Errorf("%w: terms takes a non-empty value list", engine.ErrUnsupportedQuery)
	}

	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		p, err := fieldPredicate(field, v)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " | ") + ")", nil
}

func translateMatch(raw any) (string, error) {
	field, val, err := singleField(raw, "match")
	if err != nil {
		return "", err
	}
	if spec, ok := val.(map[string]any); ok {
		if v, ok := spec["query"]; ok {
			val = v
		}
	}
	text, ok := val.(string)
	if !ok || text == "" {
		return "", fmt.Errorf("%w: match takes a non-empty text query", engine.ErrUnsupportedQuery)
	}
	return "@" + field + ":(" + escapeQuery(text) + ")", nil
}

func translateRange(raw any) (string, error) {
	field, val, err := singleField(raw, "range")
	if err != nil {
		return "", err
	}
	spec, ok := val.(map[string]any)
	if !ok || len(spec) == 0 {
		return "", fmt.Errorf("%w: range takes bound operators", engine.ErrUnsupportedQuery)
	}

	minBound, maxBound := "-inf", "+inf"
	for op, bound := range spec {
		n, err := toFloat(bound)
		if err != nil {
			return "", err
		}
		switch op {
		case "gte":
			minBound = fmt.Sprintf("%g", n)
		case "gt":
			minBound = fmt.Sprintf("(%g", n)
		case "lte":
			maxBound = fmt.Sprintf("%g", n)
		case "lt":
			maxBound = fmt.Sprintf("(%g", n)
		default:
			return "", fmt.Errorf("%w: range operator %q", engine.ErrUnsupportedQuery, op)
		}
	}
	return fmt.Sprintf("@%s:[%s %s]", field, minBound, maxBound), nil
}

func translateBool(raw any) (string, error) {
	spec, ok := raw.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: bool takes clause lists", engine.ErrUnsupportedQuery)
	}
	for k := range spec {
		if k != "must" && k != "should" && k != "must_not" {
			return "", fmt.Errorf("%w: bool key %q", engine.ErrUnsupportedQuery, k)
		}
	}

	var parts []string

	must, err := clauseList(spec["must"])
	if err != nil {
		return "", err
	}
	for _, m := range must {
		s, err := translateSub(m)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	should, err := clauseList(spec["should"])
	if err != nil {
		return "", err
	}
	if len(should) > 0 {
		group := make([]string, 0, len(should))
		for _, m := range should {
			s, err := translateSub(m)
			if err != nil {
				return "", err
			}
			group = append(group, s)
		}
		parts = append(parts, "("+strings.Join(group, " | ")+")")
	}

	mustNot, err := clauseList(spec["must_not"])
	if err != nil {
		return "", err
	}
	for _, m := range mustNot {
		s, err := translateSub(m)
		if err != nil {
			return "", err
		}
		parts = append(parts, "-"+s)
	}

	if len(parts) == 0 {
		return "*", nil
	}
	return strings.Join(parts, " "), nil
}

func translateSub(m map[string]any) (string, error) {
	if len(m) != 1 {
		return "", fmt.Errorf("%w: a clause takes exactly one key", engine.ErrUnsupportedQuery)
	}
	for name, raw := range m {
		if name == "ids" {
			return "", fmt.Errorf("%w: ids inside bool", engine.ErrUnsupportedQuery)
		}
		return translateClause(name, raw)
	}
	return "", nil
}

// translateSort renders sort clauses into SORTBY args. FT.SEARCH supports a
// single sort key; more than one clause is unsupported.
func translateSort(sorting []map[string]any) ([]string, error) {
	if len(sorting) == 0 {
		return nil, nil
	}
	if len(sorting) > 1 {
		return nil, fmt.Errorf("%w: at most one sort clause", engine.ErrUnsupportedQuery)
	}
	clause := sorting[0]
	if len(clause) != 1 {
		return nil, fmt.Errorf("%w: a sort clause takes exactly one field", engine.ErrUnsupportedQuery)
	}

	for field, raw := range clause {
		order := "asc"
		switch v := raw.(type) {
		case string:
			order = v
		case map[string]any:
			if o, ok := v["order"].(string); ok {
				order = o
			}
		default:
			return nil, fmt.Errorf("%w: sort order %T", engine.ErrUnsupportedQuery, raw)
		}
		switch strings.ToLower(order) {
		case "asc":
			return []string{"SORTBY", field, "ASC"}, nil
		case "desc":
			return []string{"SORTBY", field, "DESC"}, nil
		default:
			return nil, fmt.Errorf("%w: sort order %q", engine.ErrUnsupportedQuery, order)
		}
	}
	return nil, nil
}

// fieldPredicate renders an exact-value predicate, picking TAG or NUMERIC
// syntax by value type.
func fieldPredicate(field string, val any) (string, error) {
	switch v := val.(type) {
	case string:
		return "@" + field + ":{" + escapeTag(v) + "}", nil
	case bool:
		return fmt.Sprintf("@%s:{%t}", field, v), nil
	case float64:
		return fmt.Sprintf("@%s:[%g %g]", field, v, v), nil
	case int:
		return fmt.Sprintf("@%s:[%d %d]", field, v, v), nil
	case int64:
		return fmt.Sprintf("@%s:[%d %d]", field, v, v), nil
	case json.Number:
		return fmt.Sprintf("@%s:[%s %s]", field, v, v), nil
	default:
		return "", fmt.Errorf("%w: term value %T", engine.ErrUnsupportedQuery, val)
	}
}

func idsKeys(index string, raw any) ([]string, error) {
	spec, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: ids takes a values list", engine.ErrUnsupportedQuery)
	}
	vals, err := anyList(spec["values"])
	if err != nil || len(vals) == 0 {
		return nil, fmt.Errorf("%w: ids takes a non-empty values list", engine.ErrUnsupportedQuery)
	}

	keys := make([]string, 0, len(vals))
	for _, v := range vals {
		id, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: ids values must be strings", engine.ErrUnsupportedQuery)
		}
		keys = append(keys, docKey(index, id))
	}
	return keys, nil
}

func singleField(raw any, clause string) (string, any, error) {
	m, ok := raw.(map[string]any)
	if !ok || len(m) != 1 {
		return "", nil, fmt.Errorf("%w: %s takes exactly one field", engine.ErrUnsupportedQuery, clause)
	}
	for field, val := range m {
		return field, val, nil
	}
	return "", nil, nil
}

func clauseList(raw any) ([]map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, e := range v {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: bool clause entries must be objects", engine.ErrUnsupportedQuery)
			}
			out = append(out, m)
		}
		return out, nil
	case []map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: bool clause list %T", engine.ErrUnsupportedQuery, raw)
	}
}

func anyList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list", engine.ErrUnsupportedQuery)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("%w: numeric bound %T", engine.ErrUnsupportedQuery, v)
	}
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}
