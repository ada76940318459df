package http

import (
	"context"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
)

type ctxKey int

const (
	ctxKeySnapshot ctxKey = iota
	ctxKeySessionToken
)

// snapshotFromContext returns the session snapshot resolved by WithSession or
// WithAPIToken. An absent snapshot reads as an anonymous session.
func snapshotFromContext(ctx context.Context) domain.Snapshot {
	if snap, ok := ctx.Value(ctxKeySnapshot).(domain.Snapshot); ok {
		return snap
	}
	return domain.Snapshot{}
}

// sessionTokenFromContext returns the raw cookie token, if the request
// carried one. Handlers need it to drive session state transitions.
func sessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKeySessionToken).(string)
	return token, ok && token != ""
}
