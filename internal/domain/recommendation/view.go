package recommendation

// View is the wire shape of a recommendation. Payload fields of other types are omitted.
type View struct {
	Type            Type                `json:"type"`
	Message         string              `json:"message"`
	Priority        Priority            `json:"priority"`
	Connections     []string            `json:"connections,omitempty"`
	Company         string              `json:"company,omitempty"`
	ConnectionCount int                 `json:"connectionCount,omitempty"`
	DecisionMakers  []DecisionMakerView `json:"decisionMakers,omitempty"`
	TotalCount      int                 `json:"totalCount,omitempty"`
}

// DecisionMakerView is the wire shape of a DecisionMaker.
type DecisionMakerView struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Company  string `json:"company"`
}

// Views converts recommendations to their wire shape, preserving order.
func Views(recs []Recommendation) []View {
	out := make([]View, 0, len(recs))
	for _, r := range recs {
		v := View{
			Type:            r.Type,
			Message:         r.Message,
			Priority:        r.Priority,
			Connections:     r.Connections,
			Company:         r.Company,
			ConnectionCount: r.ConnectionCount,
			TotalCount:      r.TotalCount,
		}
		for _, dm := range r.DecisionMakers {
			v.DecisionMakers = append(v.DecisionMakers, DecisionMakerView(dm))
		}
		out = append(out, v)
	}
	return out
}
