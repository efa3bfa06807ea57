package domain

import "strings"

// IndexSeparator joins the base index name and the document kind.
const IndexSeparator = "__"

// IndexName builds the engine index name for a kind: "<base>__<kind>",
// kind lowercased. One engine index per kind.
func IndexName(base, kind string) string {
	return base + IndexSeparator + strings.ToLower(kind)
}
