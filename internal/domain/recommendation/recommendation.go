// Package recommendation defines typed sales recommendations derived from ranked connections.
package recommendation

// Type identifies the rule that produced a recommendation.
type Type string

// Recommendation types, in evaluation order.
const (
	NoConnections    Type = "no_connections"
	WarmIntroduction Type = "warm_introduction"
	CompanyCluster   Type = "company_cluster"
	DecisionMakers   Type = "decision_makers"
)

// Priority ranks recommendations for the caller.
type Priority string

// Priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DecisionMaker is a connection whose position matched a seniority keyword.
type DecisionMaker struct {
	Name     string
	Position string
	Company  string
}

// Recommendation is one advisory record. Only the payload fields of its Type are set.
type Recommendation struct {
	Type     Type
	Message  string
	Priority Priority

	// WarmIntroduction
	Connections []string
	// CompanyCluster
	Company         string
	ConnectionCount int
	// DecisionMakers
	DecisionMakers []DecisionMaker

	// TotalCount is the number of qualifying connections for WarmIntroduction and DecisionMakers.
	TotalCount int
}
