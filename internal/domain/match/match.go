// Package match holds a raw nearest-neighbour hit as the vector store returns it.
package match

// Metadata keys stored alongside each contact embedding.
const (
	KeyFirstName   = "first_name"
	KeyLastName    = "last_name"
	KeyCompany     = "company"
	KeyPosition    = "position"
	KeyEmail       = "email"
	KeyLinkedInURL = "linkedin_url"
)

// MetadataKeys lists every metadata field requested from the store.
var MetadataKeys = []string{
	KeyFirstName, KeyLastName, KeyCompany, KeyPosition, KeyEmail, KeyLinkedInURL,
}

// RequiredKeys must be present on a match; the rest default to "".
var RequiredKeys = []string{KeyFirstName, KeyLastName, KeyCompany, KeyPosition}

// RawMatch is one retrieved contact before normalization.
type RawMatch struct {
	key      string
	document string
	metadata map[string]string
	distance float64
}

// New creates a raw match. distance is the store's cosine distance.
func New(key, document string, metadata map[string]string, distance float64) RawMatch {
	return RawMatch{key: key, document: document, metadata: metadata, distance: distance}
}

// Key returns the document key within the collection.
func (m RawMatch) Key() string { return m.key }

// Document returns the text the embedding was computed from.
func (m RawMatch) Document() string { return m.document }

// Metadata returns the raw metadata fields.
func (m RawMatch) Metadata() map[string]string { return m.metadata }

// Distance returns the raw distance.
func (m RawMatch) Distance() float64 { return m.distance }

// Field returns a metadata field and whether it was present.
func (m RawMatch) Field(key string) (string, bool) {
	v, ok := m.metadata[key]
	return v, ok
}

// MissingKeys returns the required keys absent from the metadata.
func (m RawMatch) MissingKeys() []string {
	var missing []string
	for _, k := range RequiredKeys {
		if _, ok := m.metadata[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
