package domain

import (
	"context"
	"errors"
)

// Service resolves the set of co-installed devices billed under one contract.
type Service interface {
	// Resolve returns the group for deviceID: the master device first, then
	// its sub-devices ordered by device id. A standalone device resolves to
	// a single-member group.
	Resolve(ctx context.Context, deviceID string) ([]string, error)
}

var (
	ErrNotFound      = errors.New("not_found")
	ErrInvalidDevice = errors.New("invalid_device")
)
