// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/pkg/constants"
	"github.com/numbersmith/number-inventory-service/pkg/log"
)

// BearerAuthMiddleware rejects requests without a valid bearer token and stores the
// authenticated principal in the request context.
func BearerAuthMiddleware(auth port.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				slog.WarnContext(ctx, "missing or malformed authorization header")
				unauthorized(w, "bearer token required")
				return
			}

			principal, err := auth.ParsePrincipal(ctx, strings.TrimSpace(token))
			if err != nil {
				slog.WarnContext(ctx, "token validation failed", "error", err)
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
			ctx = log.AppendCtx(ctx, slog.String("principal", principal))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Principal returns the authenticated principal stored in ctx
func Principal(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(constants.PrincipalContextID).(string)
	return principal, ok && principal != ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="numbers"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
