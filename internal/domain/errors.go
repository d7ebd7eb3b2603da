package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrEmptyQuery indicates a blank chat query
	ErrEmptyQuery = errors.New("query is empty")
	// ErrNotInitialized indicates the RAG system could not be loaded
	ErrNotInitialized = errors.New("rag system is not initialized")
	// ErrEmptyCollection indicates the vector collection holds no segments
	ErrEmptyCollection = errors.New("vector collection is empty")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited indicates rate limit exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Pipeline stages
const (
	StageEmbed    = "embed"
	StageRetrieve = "retrieve"
	StageGenerate = "generate"
)

// ErrorKind classifies a collaborator failure
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindCanceled    ErrorKind = "canceled"
	KindAuth        ErrorKind = "auth"
	KindUnavailable ErrorKind = "unavailable"
	KindUnknown     ErrorKind = "unknown"
)

// StageError wraps a collaborator failure with the stage it happened in.
type StageError struct {
	Stage string
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// KindError lets collaborators report their own classification.
type KindError interface {
	error
	Kind() ErrorKind
}

// NewStageError wraps err for stage, classifying it by context state or by a
// KindError found in its chain.
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Kind: Classify(err), Err: err}
}

// Classify derives an ErrorKind from err.
func Classify(err error) ErrorKind {
	var ke KindError
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &ke):
		return ke.Kind()
	}
	return KindUnknown
}
