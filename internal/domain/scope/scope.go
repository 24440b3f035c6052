// Package scope names the per-company contact collection a query runs against.
package scope

import (
	"regexp"
	"strings"
)

// CollectionSuffix is appended to every normalized company name.
const CollectionSuffix = "_linkedin_connections"

var whitespaceRun = regexp.MustCompile(`\s+`)

// CollectionName maps a company name to its collection: lowercase,
// whitespace runs collapsed to "_", suffixed with CollectionSuffix.
func CollectionName(companyName string) string {
	return normalize(companyName) + CollectionSuffix
}

func normalize(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "_")
}

// Scope is a resolved company collection.
type Scope struct {
	companyID   string
	companyName string
	collection  string
}

// New creates a resolved scope.
func New(companyID, companyName, collection string) Scope {
	return Scope{companyID: companyID, companyName: companyName, collection: collection}
}

// CompanyID returns the company identifier recorded with audit events.
func (s Scope) CompanyID() string { return s.companyID }

// CompanyName returns the company name as supplied by the caller.
func (s Scope) CompanyName() string { return s.companyName }

// Collection returns the collection name.
func (s Scope) Collection() string { return s.collection }

// IsZero reports whether the scope is unresolved.
func (s Scope) IsZero() bool { return s.collection == "" }
