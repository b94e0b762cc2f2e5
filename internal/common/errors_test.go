package common

import (
	"errors"
	"testing"
)

func TestTokenErrors_WrapInvalidToken(t *testing.T) {
	for _, err := range []error{ErrTokenMalformed, ErrTokenBadSignature, ErrTokenExpired} {
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%v must match ErrInvalidToken", err)
		}
	}
}

func TestTokenErrors_AreDistinct(t *testing.T) {
	if errors.Is(ErrTokenExpired, ErrTokenMalformed) {
		t.Fatal("expired must not match malformed")
	}
	if errors.Is(ErrTokenBadSignature, ErrTokenExpired) {
		t.Fatal("bad signature must not match expired")
	}
}
