package domain

// KeyPrefix namespaces every key netquery reads from the vector store.
const KeyPrefix = "netquery:"

// IndexName returns the FT index name for a contact collection.
func IndexName(collection string) string {
	return KeyPrefix + collection + ":idx"
}

// DocumentPrefix returns the key prefix of contact documents in a collection.
func DocumentPrefix(collection string) string {
	return KeyPrefix + collection + ":"
}

// CompanyMetaKey returns the hash key holding company metadata for a collection.
func CompanyMetaKey(collection string) string {
	return KeyPrefix + "company:" + collection
}
