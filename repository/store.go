package repository

import (
	"context"
)

// Store persists whole-record snapshots. Load fills v from the named record
// and returns errs.ErrRecordNotFound when it does not exist. Save replaces the
// record entirely.
type Store interface {
	Load(ctx context.Context, record string, v any) error
	Save(ctx context.Context, record string, v any) error
}
