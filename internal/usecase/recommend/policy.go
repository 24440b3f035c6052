package recommend

// Policy holds the tunable constants of the recommendation rules.
type Policy struct {
	// WarmIntroThreshold is the exclusive score above which a connection is high relevance.
	WarmIntroThreshold float64
	// MaxListed caps names and decision makers carried in a payload.
	MaxListed int
	// DecisionMakerKeywords are matched as lowercase substrings of the position.
	DecisionMakerKeywords []string
}

// DefaultPolicy returns the standard rule constants.
func DefaultPolicy() Policy {
	return Policy{
		WarmIntroThreshold:    0.7,
		MaxListed:             3,
		DecisionMakerKeywords: []string{"ceo", "cto", "vp", "director", "head of"},
	}
}
