package main

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAdminKey(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := hashAdminKey(strings.NewReader("operator-key\n"), &out, &errOut); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut.String())
	}

	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("operator-key")); err != nil {
		t.Fatalf("printed hash does not match key: %v", err)
	}
}

func TestHashAdminKeyRejectsEmptyInput(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := hashAdminKey(strings.NewReader("  \n"), &out, &errOut); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if out.Len() != 0 || !strings.Contains(errOut.String(), "must not be empty") {
		t.Fatalf("unexpected output %q / %q", out.String(), errOut.String())
	}
}
