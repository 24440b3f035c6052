package integration

import (
	"github.com/kailas-cloud/netquery/internal/domain/connection"
	"github.com/kailas-cloud/netquery/internal/domain/recommendation"
)

// Request is a CRM-originated question.
type Request struct {
	Query            string
	CompanyName      string
	ExternalUserID   string
	ExternalOrgID    string
	ExternalRecordID string
}

// Envelope is the CRM-shaped answer. It is also the audited response text.
type Envelope struct {
	Query            string          `json:"query"`
	Timestamp        string          `json:"timestamp"`
	ExternalUserID   string          `json:"externalUserId"`
	ExternalOrgID    string          `json:"externalOrgId,omitempty"`
	ExternalRecordID string          `json:"externalRecordId,omitempty"`
	NetworkInsights  NetworkInsights `json:"networkInsights"`
}

// NetworkInsights summarizes the network answer.
type NetworkInsights struct {
	TotalConnectionsFound int                   `json:"totalConnectionsFound"`
	TopConnections        []TopConnection       `json:"topConnections"`
	Summary               string                `json:"summary"`
	Recommendations       []recommendation.View `json:"recommendations"`
}

// TopConnection is one of the leading connections with its intro tier.
type TopConnection struct {
	Name            string               `json:"name"`
	Company         string               `json:"company"`
	Position        string               `json:"position"`
	Email           string               `json:"email"`
	LinkedInProfile string               `json:"linkedinProfile"`
	RelevanceScore  float64              `json:"relevanceScore"`
	PotentialIntro  connection.IntroTier `json:"potentialIntro"`
}
