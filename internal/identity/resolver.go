// Package identity resolves inbound requests to admin identities. The
// authentication provider itself is external: it hands the browser a signed
// token, and this package only verifies the signature, ensures a matching
// admin account exists, and enforces the active flag.
package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"passreg/internal/admin/models"
	id "passreg/pkg/domain"
	dErrors "passreg/pkg/domain-errors"
)

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	AdminID     id.AdminID
	Email       string
	Name        string
	IsMainAdmin bool
	IsActive    bool
}

// Resolver maps an inbound request to an admin identity.
// Implementations return CodeUnauthorized errors for unauthenticated
// requests; the active/main-admin gates are enforced by middleware.
type Resolver interface {
	Resolve(ctx context.Context, r *http.Request) (Identity, error)
}

// AccountDirectory is the admin service surface the resolver needs: account
// created on first authentication, profile refreshed on re-authentication.
type AccountDirectory interface {
	Ensure(ctx context.Context, email, name, photoURL string) (*models.Admin, error)
}

// Claims are the token fields the external provider supplies.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver verifies HMAC-signed bearer tokens.
type JWTResolver struct {
	signingKey []byte
	accounts   AccountDirectory
}

func NewJWTResolver(signingKey string, accounts AccountDirectory) *JWTResolver {
	return &JWTResolver{signingKey: []byte(signingKey), accounts: accounts}
}

func (j *JWTResolver) Resolve(ctx context.Context, r *http.Request) (Identity, error) {
	authHeader := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || raw == "" {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header")
	}

	claims, err := j.parse(raw)
	if err != nil {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}
	if claims.Email == "" {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "token carries no email claim")
	}

	admin, err := j.accounts.Ensure(ctx, claims.Email, claims.Name, claims.Picture)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		AdminID:     admin.ID,
		Email:       admin.Email,
		Name:        admin.Name,
		IsMainAdmin: admin.IsMainAdmin,
		IsActive:    admin.IsActive,
	}, nil
}

func (j *JWTResolver) parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	return &claims, nil
}
