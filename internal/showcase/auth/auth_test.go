package auth

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret" {
		t.Error("hash must not equal the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}

	if err := hasher.VerifyPassword("s3cret", hash); err != nil {
		t.Errorf("VerifyPassword rejected the correct password: %v", err)
	}
	if err := hasher.VerifyPassword("wrong", hash); err == nil {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestPasswordHasher_DistinctHashes(t *testing.T) {
	hasher := NewPasswordHasher()

	h1, err := hasher.HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := hasher.HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password must differ (salted)")
	}
}

func TestPasswordHasher_EmptyPassword(t *testing.T) {
	hasher := NewPasswordHasher()

	if _, err := hasher.HashPassword(""); err == nil {
		t.Error("expected error hashing empty password")
	}
}

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager, err := NewJWTManager("test-secret", "HS256", time.Hour, "pm-helper")
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := manager.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %q", claims.Username)
	}
	if claims.Issuer != "pm-helper" {
		t.Errorf("expected issuer pm-helper, got %q", claims.Issuer)
	}
}

func TestJWTManager_ValidateToken_WrongSecret(t *testing.T) {
	m1, err := NewJWTManager("secret-one", "HS256", time.Hour, "pm-helper")
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	m2, err := NewJWTManager("secret-two", "HS256", time.Hour, "pm-helper")
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := m1.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m2.ValidateToken(token); err == nil {
		t.Error("expected validation failure with a different secret")
	}
}

func TestJWTManager_ValidateToken_Expired(t *testing.T) {
	manager, err := NewJWTManager("test-secret", "HS256", -time.Minute, "pm-helper")
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := manager.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("expected validation failure for an expired token")
	}
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	if _, err := NewJWTManager("", "HS256", time.Hour, "pm-helper"); err == nil {
		t.Error("expected error for empty secret")
	}
}
