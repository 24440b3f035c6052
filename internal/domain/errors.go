package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals an empty query or company name.
	ErrInvalidInput = errors.New("invalid input")
	// ErrScopeNotFound signals that no contact collection exists for the company.
	ErrScopeNotFound = errors.New("scope not found")
	// ErrRetrievalUnavailable signals an unreachable vector store or a malformed reply.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrMalformedMatch signals a retrieved match without its required metadata.
	ErrMalformedMatch = errors.New("malformed match")
	// ErrDownstreamCallFailed signals a failed call to the upstream query service.
	ErrDownstreamCallFailed = errors.New("downstream call failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// ErrorKind classifies a failed query for transport mapping.
type ErrorKind string

const (
	// KindInvalidInput maps to ErrInvalidInput.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindScopeNotFound maps to ErrScopeNotFound.
	KindScopeNotFound ErrorKind = "scope_not_found"
	// KindRetrievalUnavailable maps to ErrRetrievalUnavailable.
	KindRetrievalUnavailable ErrorKind = "retrieval_unavailable"
	// KindMalformedMatch maps to ErrMalformedMatch.
	KindMalformedMatch ErrorKind = "malformed_match"
	// KindDownstreamCallFailed maps to ErrDownstreamCallFailed.
	KindDownstreamCallFailed ErrorKind = "downstream_call_failed"
	// KindInternal covers everything unclassified.
	KindInternal ErrorKind = "internal"
)

// kindSentinels is ordered: the first matching sentinel wins.
var kindSentinels = []struct {
	kind     ErrorKind
	sentinel error
}{
	{KindInvalidInput, ErrInvalidInput},
	{KindScopeNotFound, ErrScopeNotFound},
	{KindMalformedMatch, ErrMalformedMatch},
	{KindDownstreamCallFailed, ErrDownstreamCallFailed},
	{KindRetrievalUnavailable, ErrRetrievalUnavailable},
}

// KindOf classifies err. A *QueryError keeps its own kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.sentinel) {
			return ks.kind
		}
	}
	return KindInternal
}

// QueryError tags a failure with its kind and the pipeline stage that raised it.
type QueryError struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err.Error())
}

func (e *QueryError) Unwrap() error { return e.Err }

// NewQueryError wraps err with its classified kind.
func NewQueryError(stage string, err error) *QueryError {
	return &QueryError{Kind: KindOf(err), Stage: stage, Err: err}
}
