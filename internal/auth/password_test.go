package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "validpassword123"},
		{name: "password too short", password: "short", wantErr: ErrPasswordTooShort},
		{name: "password at minimum length", password: "12345678"},
		{name: "password too long", password: strings.Repeat("a", 73), wantErr: ErrPasswordTooLong},
		{name: "password at maximum length", password: strings.Repeat("a", 72)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, 4)
			if err != tt.wantErr {
				t.Errorf("HashPassword() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr == nil && hash == "" {
				t.Error("HashPassword() returned empty hash for valid password")
			}
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("samepassword", 4)
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("samepassword", 4)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password must differ")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if err := CheckPassword(password, hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrongpassword", hash); err != ErrInvalidPassword {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
	if err := CheckPassword(password, "not-a-hash"); err == nil || err == ErrInvalidPassword {
		t.Errorf("expected a malformed hash error, got %v", err)
	}
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateSecret()

	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("secrets should be random")
	}
}
