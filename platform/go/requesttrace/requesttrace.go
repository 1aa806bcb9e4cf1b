package requesttrace

import (
	"context"
	"errors"

	platformauth "github.com/clearstaff/hr-backoffice/platform/go/auth"
)

type contextKey string

const ctxAuditInfo contextKey = "CLEARSTAFF_REQUEST_TRACE"

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindUser      ActorKind = "user"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// AuditInfo captures request-scoped metadata needed for traceability.
// Superadmin is stamped from the principal so bypassed membership checks stay
// visible in audit trails.
type AuditInfo struct {
	ActorKind  ActorKind
	UserID     *string
	Superadmin bool
	RequestID  string
}

// IntoContext stores the AuditInfo in the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, ctxAuditInfo, audit)
}

// FromContext extracts the AuditInfo from context, returning false when not present.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	v := ctx.Value(ctxAuditInfo)
	if v == nil {
		return AuditInfo{}, false
	}

	audit, ok := v.(AuditInfo)
	return audit, ok
}

// FromContextOrAnonymous returns the AuditInfo stored on the context, or an
// anonymous record when absent.
func FromContextOrAnonymous(ctx context.Context) AuditInfo {
	if audit, ok := FromContext(ctx); ok {
		return audit
	}
	return Anonymous("")
}

// FromPrincipal builds an AuditInfo from the verified principal and a request ID.
func FromPrincipal(principal *platformauth.Principal, requestID string) (AuditInfo, error) {
	if principal == nil {
		return AuditInfo{}, errors.New("principal is required to build audit info")
	}
	if principal.UID == "" {
		return AuditInfo{}, errors.New("user id is required to build audit info")
	}

	uid := principal.UID
	return AuditInfo{
		ActorKind:  ActorKindUser,
		UserID:     &uid,
		Superadmin: principal.Superadmin,
		RequestID:  requestID,
	}, nil
}

// Anonymous builds an AuditInfo for unauthenticated requests.
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindAnonymous, RequestID: requestID}
}

// System builds an AuditInfo for background/system operations.
func System(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindSystem, RequestID: requestID}
}
