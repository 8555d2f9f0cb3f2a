package service

import "context"

// ApprovalPort is the single decision surface shared by the admin HTTP API
// and the Telegram callback handler.
type ApprovalPort interface {
	ApproveTransaction(ctx context.Context, id string) error
	DeclineTransaction(ctx context.Context, id string) error
	ApproveRedemption(ctx context.Context, id string) error
	DeclineRedemption(ctx context.Context, id string) error
}

var _ ApprovalPort = (*Service)(nil)
