package middleware

import (
	"errors"
	"net/http"
	"servly/pkg/auth"
	apperrors "servly/pkg/errors"
	httputil "servly/pkg/http"
	"servly/pkg/logger"
)

// Authenticate resolves the bearer token into an auth.Actor. Requests
// without a valid token never reach the router.
func Authenticate(verifier *auth.Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return AuthenticateExcept(verifier, log, nil)
}

// AuthenticateExcept lets requests matched by public through without a
// token, with no actor in the context. A token that is present is still
// verified.
func AuthenticateExcept(verifier *auth.Verifier, log *logger.Logger, public func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r)
			if errors.Is(err, auth.ErrMissingToken) && public != nil && public(r) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
				return
			}

			actor, err := verifier.Verify(token)
			if err != nil {
				log.Warn("Token rejected",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				msg := "Invalid or expired token"
				if errors.Is(err, auth.ErrUnknownRole) {
					msg = "Token role is not recognised"
				}
				_ = httputil.WriteError(w, apperrors.Unauthorized(msg))
				return
			}

			ctx := auth.WithActor(r.Context(), actor)
			ctx = auth.WithToken(ctx, token)
			ctx = logger.IntoContext(ctx, logger.FromContext(ctx, log).With("actor_id", actor.ID, "actor_role", actor.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
