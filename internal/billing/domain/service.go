package domain

import (
	"context"
	"errors"

	ratingdomain "github.com/smallbiznis/printbill/internal/rating/domain"
	summarydomain "github.com/smallbiznis/printbill/internal/summary/domain"
)

// Request is one billing cycle: the originating device, the target period and
// the current meter counts for every member of the resolved device group. A
// resolved member without a counts entry rejects the whole cycle — the legacy
// behavior of falling back to the primary device's aggregate fields silently
// misattributed counts in group scenarios and is not reproduced.
type Request struct {
	DeviceID     string                         `json:"device_id"`
	Year         int                            `json:"year"`
	Month        int                            `json:"month"`
	MemberCounts map[string]ratingdomain.Counts `json:"member_counts"`
}

type Service interface {
	// RunBillingCycle resolves the device group, aggregates current and prior
	// counts across members, rates the aggregate under the master's contract,
	// records each member's own readings and persists the summary under the
	// originating device id. Readings and summary are written in one
	// transaction; any earlier failure writes nothing.
	RunBillingCycle(ctx context.Context, req Request) (*ratingdomain.ChargeResult, error)

	// LoadSummaries returns the device's twelve-month invoice history.
	LoadSummaries(ctx context.Context, deviceID string, year int) (map[int]*summarydomain.BillingSummary, error)
}

var (
	ErrNotFound     = errors.New("not_found")
	ErrInvalidInput = errors.New("invalid_input")
)
