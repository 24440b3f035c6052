package query

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/netquery/internal/domain"
	"github.com/kailas-cloud/netquery/internal/domain/connection"
)

func TestNew_Trims(t *testing.T) {
	q, err := New("  who knows acme  ", " Acme Corp ", "u-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text() != "who knows acme" {
		t.Errorf("Text() = %q", q.Text())
	}
	if q.CompanyName() != "Acme Corp" {
		t.Errorf("CompanyName() = %q", q.CompanyName())
	}
	if q.RequesterID() != "u-1" {
		t.Errorf("RequesterID() = %q", q.RequesterID())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name, text, company string
	}{
		{"empty text", "", "Acme"},
		{"blank text", "   ", "Acme"},
		{"empty company", "q", ""},
		{"blank company", "q", "\t"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.text, tc.company, "")
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestResult_TotalResults(t *testing.T) {
	r := Result{Connections: make([]connection.Connection, 3)}
	if r.TotalResults() != 3 {
		t.Errorf("TotalResults() = %d", r.TotalResults())
	}
}
