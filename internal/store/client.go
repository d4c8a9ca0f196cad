package store

import (
	"context"
	"errors"
)

// Client is the minimal contract the repository needs from the underlying
// document store. Write statements execute in their own auto-commit
// transaction, so a single ExecuteWrite call is atomic with respect to
// concurrent writers.
type Client interface {
	ExecuteWrite(ctx context.Context, statement string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, statement string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups the key-value pairs of one returned row.
type Record map[string]any

// Options configures a store client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the store URI is not provided.
var ErrMissingURI = errors.New("store URI is required")
