// ABOUTME: Unit tests for JWT token verification and generation
// ABOUTME: Tests valid tokens, invalid tokens, expired tokens, and claim checks

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-key-for-jwt-signing!")

func newTestVerifier(t *testing.T) *JWTVerifier {
	t.Helper()
	verifier, err := NewJWTVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewJWTVerifier() error = %v", err)
	}
	return verifier
}

func TestNewJWTVerifier_RejectsShortSecret(t *testing.T) {
	_, err := NewJWTVerifier([]byte("short"))
	if !errors.Is(err, ErrWeakSecret) {
		t.Errorf("NewJWTVerifier() error = %v, want ErrWeakSecret", err)
	}
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}
	b, _ := GenerateSecret()

	if len(a) != MinSecretLength {
		t.Errorf("len = %d, want %d", len(a), MinSecretLength)
	}
	if string(a) == string(b) {
		t.Error("GenerateSecret() returned the same secret twice")
	}
	if _, err := NewJWTVerifier(a); err != nil {
		t.Errorf("generated secret rejected: %v", err)
	}
}

func TestJWTVerifier_AdminToken(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.GenerateAdmin(time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdmin() error = %v", err)
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Subject != AdminSubject {
		t.Errorf("Subject = %q, want %q", claims.Subject, AdminSubject)
	}
	if !claims.Admin {
		t.Error("Admin claim should be true")
	}
	if until := time.Until(claims.ExpiresAt); until < 59*time.Minute || until > time.Hour+time.Minute {
		t.Errorf("ExpiresAt %v not about an hour away", claims.ExpiresAt)
	}
}

func TestJWTVerifier_GenerateAdminDefaultTTL(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.GenerateAdmin(0)
	if err != nil {
		t.Fatalf("GenerateAdmin() error = %v", err)
	}
	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if time.Until(claims.ExpiresAt) < 23*time.Hour {
		t.Errorf("ExpiresAt %v, want about 24h from now", claims.ExpiresAt)
	}
}

func TestJWTVerifier_NonAdminToken(t *testing.T) {
	verifier := newTestVerifier(t)

	token, _ := verifier.Generate("viewer", false, time.Hour)
	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Admin {
		t.Error("Admin claim should be false")
	}
}

func TestJWTVerifier_InvalidToken(t *testing.T) {
	verifier := newTestVerifier(t)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				other, _ := NewJWTVerifier([]byte("a-completely-different-secret-32"))
				token, _ := other.GenerateAdmin(time.Hour)
				return token
			}(),
		},
		{
			name: "none algorithm",
			token: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
					"sub":   AdminSubject,
					"admin": true,
					"exp":   time.Now().Add(time.Hour).Unix(),
				})
				s, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	verifier := newTestVerifier(t)

	// Generate a token that expired 1 hour ago
	token, err := verifier.Generate(AdminSubject, true, -time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTVerifier_MissingClaims(t *testing.T) {
	verifier := newTestVerifier(t)

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		if err != nil {
			t.Fatalf("SignedString() error = %v", err)
		}
		return s
	}

	noSub := sign(jwt.MapClaims{"admin": true, "exp": time.Now().Add(time.Hour).Unix()})
	if _, err := verifier.Verify(noSub); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("missing sub: error = %v, want ErrMissingClaim", err)
	}

	noExp := sign(jwt.MapClaims{"sub": AdminSubject, "admin": true})
	if _, err := verifier.Verify(noExp); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("missing exp: error = %v, want ErrMissingClaim", err)
	}
}
