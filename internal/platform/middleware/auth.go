package middleware

import (
	"log/slog"
	"net/http"

	"passreg/internal/identity"
	dErrors "passreg/pkg/domain-errors"
	"passreg/pkg/platform/httputil"
	"passreg/pkg/requestcontext"
)

// RequireAuth resolves the request to an admin identity and injects it into
// the context. Unresolvable requests get 401; authenticated but deactivated
// accounts get 403. The resolver is an injected capability, never a global.
func RequireAuth(resolver identity.Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ident, err := resolver.Resolve(ctx, r)
			if err != nil {
				logger.WarnContext(ctx, "unauthenticated request",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}
			if !ident.IsActive {
				logger.WarnContext(ctx, "request from deactivated admin",
					"request_id", requestcontext.RequestID(ctx),
					"admin_id", ident.AdminID.String(),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin account is deactivated"))
				return
			}

			ctx = requestcontext.WithAdminID(ctx, ident.AdminID)
			ctx = requestcontext.WithMainAdmin(ctx, ident.IsMainAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMainAdmin gates main-admin-only routes. Must run after RequireAuth.
func RequireMainAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !requestcontext.IsMainAdmin(ctx) {
				logger.WarnContext(ctx, "main-admin route denied",
					"request_id", requestcontext.RequestID(ctx),
					"admin_id", requestcontext.AdminID(ctx).String(),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "main admin privileges required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
