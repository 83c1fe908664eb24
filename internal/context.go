package internal

import (
	"context"
	"time"
)

// Principal is the authenticated identity derived from a verified token:
// the user plus the single company the token was minted for. A user holding
// access to several companies carries one token per active company.
type Principal struct {
	UserID    string
	Email     string
	CompanyID string
	Role      string
}

type ctxKey string

const (
	contextPrincipalKey     ctxKey = "principal"
	contextPrincipalNoteKey ctxKey = "principal_note"
)

// PrincipalNote lets middleware mounted outside the auth layer observe the
// principal resolved deeper in the chain. Context values only flow inward,
// so the note travels as a pointer that ContextWithPrincipal fills in later.
type PrincipalNote struct {
	Principal *Principal
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(contextPrincipalKey).(*Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	if note, ok := ctx.Value(contextPrincipalNoteKey).(*PrincipalNote); ok {
		note.Principal = p
	}
	return context.WithValue(ctx, contextPrincipalKey, p)
}

// ContextWithPrincipalNote plants an empty note that outer middleware can
// read back after the inner handlers have run.
func ContextWithPrincipalNote(ctx context.Context) (context.Context, *PrincipalNote) {
	note := &PrincipalNote{}
	return context.WithValue(ctx, contextPrincipalNoteKey, note), note
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
