package document

// Raw is a schemaless Document backed by a plain field map. It is the
// default implementation for callers without a typed struct and the one the
// HTTP transport materializes.
type Raw struct {
	kind   string
	id     string
	fields map[string]any
}

// NewRaw creates a Raw document for kind/id with the given fields.
func NewRaw(kind, id string, fields map[string]any) *Raw {
	return &Raw{kind: kind, id: id, fields: cloneFields(fields)}
}

// Kind returns the document kind.
func (r *Raw) Kind() string { return r.kind }

// ID returns the document identifier.
func (r *Raw) ID() string { return r.id }

// BuildFromSource replaces the field map with the engine source.
func (r *Raw) BuildFromSource(source map[string]any) error {
	r.fields = cloneFields(source)
	return nil
}

// Storable returns a copy of the field map.
func (r *Raw) Storable() map[string]any { return cloneFields(r.fields) }

// Field returns a single field value.
func (r *Raw) Field(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// SetField sets a single field value.
func (r *Raw) SetField(name string, value any) {
	r.fields[name] = value
}

func cloneFields(m map[string]any) map[string]any {
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
