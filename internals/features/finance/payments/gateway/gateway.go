// Package gateway wraps the hosted-checkout provider behind a narrow
// interface: create a session, read a session back. The verification
// workflow only ever sees these two calls.
package gateway

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("checkout session not found")

type Status string

const (
	StatusPaid    Status = "paid"
	StatusUnpaid  Status = "unpaid"
	StatusOpen    Status = "open"
	StatusUnknown Status = "unknown"
)

// Session is the provider's view of one payment attempt. GrossAmount is
// in whole currency units; conversion to the provider's own unit happens
// inside the implementation.
type Session struct {
	ID          string
	Status      Status
	GrossAmount int
	Currency    string

	// Metadata echoed back by the provider, when it supports that.
	// Empty means "provider did not say", not "no student".
	StudentID string
	FeeType   string

	// Set on creation only.
	ClientSecret string
	RedirectURL  string
}

type CreateSessionInput struct {
	Amount    int // whole currency units, > 0
	Currency  string
	StudentID string
	FeeType   string
	ReturnURL string

	CustomerName  string
	CustomerEmail string
}

type Gateway interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}
