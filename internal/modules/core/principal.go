package core

import (
	"context"
	"fmt"
	"net/http"
)

// PrincipalHeader carries the caller identity established by whatever
// sits in front of the service.
const PrincipalHeader = "Principal-Id"

const PrincipalContextKey contextKey = "principal"

func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, principal)
}

func Principal(ctx context.Context) string {
	principal, ok := ctx.Value(PrincipalContextKey).(string)
	if !ok {
		return ""
	}
	return principal
}

func PrincipalHTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := r.Header.Get(PrincipalHeader)
		if principal == "" {
			WriteUnauthorized(w, r, NewCommandError(
				http.StatusUnauthorized,
				fmt.Errorf("missing '%s' header", PrincipalHeader),
			))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}
