package document

// Document is the unit of persistence: a typed object identified by
// (kind, id) whose fields map onto one engine document source.
//
// Kind and ID must stay stable for the lifetime of an instance; the manager
// uses them as the identity key. BuildFromSource hydrates the instance from
// an engine hit, Storable produces the source sent on save. Implementations
// must be pointer types so that instance identity comparison works.
type Document interface {
	Kind() string
	ID() string
	BuildFromSource(source map[string]any) error
	Storable() map[string]any
}

// Key is the identity tuple of a document instance.
type Key struct {
	Kind string
	ID   string
}

// KeyOf extracts the identity key of a document.
func KeyOf(d Document) Key { return Key{Kind: d.Kind(), ID: d.ID()} }
