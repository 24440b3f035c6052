// Package audit describes the record written for every answered query.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is one audit row.
type Event struct {
	ID           string
	CompanyID    string
	QueryText    string
	ResponseText string
	RequesterID  string
	CreatedAt    time.Time
}

// NewEvent stamps a fresh id and the current UTC time.
func NewEvent(companyID, queryText, responseText, requesterID string) Event {
	return Event{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		QueryText:    queryText,
		ResponseText: responseText,
		RequesterID:  requesterID,
		CreatedAt:    time.Now().UTC(),
	}
}
