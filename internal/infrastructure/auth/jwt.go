// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	errs "github.com/numbersmith/number-inventory-service/pkg/errors"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

const (
	signatureAlgorithm = validator.RS256
	defaultIssuer      = "https://auth.numbersmith.local/"
	defaultAudience    = "number-inventory-service"
	defaultJWKSURL     = "https://auth.numbersmith.local/.well-known/jwks.json"
	purchaseScope      = "numbers:write"
)

// JWTAuthConfig holds the configuration parameters for JWT authentication.
type JWTAuthConfig struct {
	// JWKSURL is the URL to the JSON Web Key Set endpoint
	JWKSURL string
	// Issuer is the expected "iss" claim
	Issuer string
	// Audience is the intended audience for the JWT token
	Audience string
}

// NumbersClaims contains the custom claims parsed from the token.
type NumbersClaims struct {
	Principal string `json:"principal"`
	Scope     string `json:"scope,omitempty"`
}

// Validate checks the custom claims after the signature has been verified.
func (c *NumbersClaims) Validate(ctx context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// HasScope reports whether the space separated scope claim contains scope.
func (c *NumbersClaims) HasScope(scope string) bool {
	for _, s := range strings.Fields(c.Scope) {
		if s == scope {
			return true
		}
	}
	return false
}

// JWTAuth validates bearer tokens against a JWKS endpoint
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

// ParsePrincipal extracts the principal from the JWT claims.
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string) (string, error) {

	if j.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	parsedJWT, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to validate JWT token",
			"error", err,
		)
		return "", errs.NewValidation(sanitizeTokenError(err))
	}

	claims, ok := parsedJWT.(*validator.ValidatedClaims)
	if !ok {
		return "", errs.NewValidation("failed to get validated authorization claims")
	}

	custom, ok := claims.CustomClaims.(*NumbersClaims)
	if !ok {
		return "", errs.NewValidation("failed to get custom authorization claims")
	}

	slog.DebugContext(ctx, "parsed principal",
		"principal", custom.Principal,
		"can_purchase", custom.HasScope(purchaseScope),
	)

	return custom.Principal, nil
}

// sanitizeTokenError keeps the first two levels of a validation error so
// details from the underlying JOSE library are not echoed to callers.
func sanitizeTokenError(err error) string {
	errString := strings.Replace(err.Error(), ": go-jose/go-jose/jwt", "", 1)
	firstColon := strings.Index(errString, ":")
	if firstColon == -1 || firstColon+1 >= len(errString) {
		return errString
	}
	if secondColon := strings.Index(errString[firstColon+1:], ":"); secondColon != -1 {
		return errString[:firstColon+secondColon+1]
	}
	return errString
}

// NewJWTAuth creates a new JWT authentication service
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		slog.With("error", err).Error("invalid JWKS_URL")
		return nil, err
	}
	issuer, err := url.Parse(config.Issuer)
	if err != nil {
		slog.With("error", err).Error("invalid JWT issuer")
		return nil, err
	}
	provider := jwks.NewCachingProvider(issuer, 5*time.Minute, jwks.WithCustomJWKSURI(jwksURL))

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		signatureAlgorithm,
		issuer.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &NumbersClaims{}
		}),
		validator.WithAllowedClockSkew(5*time.Second),
	)
	if err != nil {
		slog.With("error", err).Error("failed to set up the JWT validator")
		return nil, err
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}
