package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/provisioning-service/internal/domain"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func validClaims(role domain.Role) Claims {
	return Claims{
		SubjectID: "user-1",
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret")
	token := signToken(t, "secret", validClaims(domain.RoleManager))

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SubjectID != "user-1" || claims.Role != domain.RoleManager {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret")
	token := signToken(t, "other-secret", validClaims(domain.RoleAdmin))
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("token signed with wrong secret accepted")
	}
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret")
	claims := validClaims(domain.RoleCustomer)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := signToken(t, "secret", claims)
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseTokenUnknownRole(t *testing.T) {
	tm := NewTokenManager("secret")
	claims := validClaims(domain.Role("SUPERUSER"))
	token := signToken(t, "secret", claims)
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("token with unknown role accepted")
	}
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	tm := NewTokenManager("secret")
	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(domain.RoleAdmin))
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.ParseToken(signed); err == nil {
		t.Fatal("unsigned token accepted")
	}
}
