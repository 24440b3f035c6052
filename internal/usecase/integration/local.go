package integration

import (
	"context"

	domquery "github.com/kailas-cloud/netquery/internal/domain/query"
)

// LocalUpstream answers upstream requests with the in-process orchestrator.
type LocalUpstream struct {
	handler QueryHandler
}

// NewLocalUpstream creates an in-process upstream.
func NewLocalUpstream(h QueryHandler) *LocalUpstream {
	return &LocalUpstream{handler: h}
}

// Query validates and runs the request. Orchestrator errors keep their kind.
func (l *LocalUpstream) Query(ctx context.Context, req UpstreamRequest) (Answer, error) {
	q, err := domquery.New(req.Query, req.CompanyName, req.RequesterID)
	if err != nil {
		return Answer{}, err
	}
	res, err := l.handler.Handle(ctx, q)
	if err != nil {
		return Answer{}, err
	}
	return Answer{
		CompanyID:    res.Scope.CompanyID(),
		Summary:      res.Summary,
		Connections:  res.Connections,
		TotalResults: res.TotalResults(),
	}, nil
}
