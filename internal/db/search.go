package db

// ScoreField is the pseudo-field FT.SEARCH uses to report KNN distance.
const ScoreField = "__vector_score"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Distance is reported as-is by the server;
// conversion to a relevance score is left to the caller.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
