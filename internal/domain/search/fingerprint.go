package search

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a stable hash identifying (kind, descriptor), used as
// the result-cache key. encoding/json sorts map keys, so two value-equal
// descriptors hash identically regardless of construction order. New rejects
// clauses that do not encode, so marshaling cannot fail here.
func Fingerprint(kind string, d *Descriptor) string {
	payload, _ := json.Marshal(struct {
		Kind  string           `json:"kind"`
		Query map[string]any   `json:"query"`
		Sort  []map[string]any `json:"sort"`
		From  int              `json:"from"`
		Size  int              `json:"size"`
	}{kind, d.query, d.sort, d.from, d.size})
	return strconv.FormatUint(xxhash.Sum64(payload), 16)
}
