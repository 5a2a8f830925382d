package validator

import (
	"testing"

	"presupuestos_backend/platform/validator"
)

func TestIsStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Secreto#2026": true,
		"Aa1!aaaa":     true,
		"Aa1!aaa":      false,
		"secreto#2026": false,
		"SECRETO#2026": false,
		"Secreto#abcd": false,
		"Secreto2026":  false,
	}
	for pw, want := range cases {
		if got := IsStrongPassword(pw); got != want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestRegisterAddsTag(t *testing.T) {
	val := validator.New()
	if err := Register(val); err != nil {
		t.Fatal(err)
	}

	type body struct {
		Password string `json:"password" validate:"strongpassword"`
	}
	if err := val.Struct(body{Password: "weak"}); err == nil {
		t.Fatal("expected weak password to fail")
	}
	if err := val.Struct(body{Password: "Secreto#2026"}); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}
