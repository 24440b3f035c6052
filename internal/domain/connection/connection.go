// Package connection holds ranked contacts returned to callers.
package connection

// Connection is one ranked contact. RelevanceScore lies in [0,1].
type Connection struct {
	Name           string
	Company        string
	Position       string
	Email          string
	LinkedInURL    string
	RelevanceScore float64
	Summary        string
}

// IntroTier grades how promising an introduction through a connection is.
type IntroTier string

// Intro tiers.
const (
	IntroHigh   IntroTier = "High"
	IntroMedium IntroTier = "Medium"
	IntroLow    IntroTier = "Low"
)

// Tier returns the intro tier for score: High above high, Medium above medium, else Low.
func Tier(score, high, medium float64) IntroTier {
	switch {
	case score > high:
		return IntroHigh
	case score > medium:
		return IntroMedium
	default:
		return IntroLow
	}
}
