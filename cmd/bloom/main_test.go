package main

import (
	"testing"
	"time"
)

func TestResolveSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY is empty")
	}

	t.Setenv("SECRET_KEY", "change_me_in_production")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY uses insecure placeholder")
	}

	t.Setenv("SECRET_KEY", "replace_with_at_least_32_random_characters")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY uses example placeholder")
	}

	t.Setenv("SECRET_KEY", "too-short-secret")
	if _, err := resolveSecretKey(); err == nil {
		t.Fatal("expected error when SECRET_KEY is too short")
	}

	valid := "0123456789abcdef0123456789abcdef"
	t.Setenv("SECRET_KEY", "  "+valid+" ")
	secret, err := resolveSecretKey()
	if err != nil {
		t.Fatalf("expected valid secret, got error: %v", err)
	}
	if secret != valid {
		t.Fatalf("expected %q, got %q", valid, secret)
	}
}

func TestResolvePort(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: "8080"},
		{raw: "9090", want: "9090"},
		{raw: "0", wantErr: true},
		{raw: "70000", wantErr: true},
		{raw: "not-a-number", wantErr: true},
	}

	for _, tt := range tests {
		t.Setenv("PORT", tt.raw)
		port, err := resolvePort()
		if tt.wantErr {
			if err == nil {
				t.Fatalf("PORT=%q: expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("PORT=%q: unexpected error: %v", tt.raw, err)
		}
		if port != tt.want {
			t.Fatalf("PORT=%q: expected %q, got %q", tt.raw, tt.want, port)
		}
	}
}

func TestResolveBool(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, " 1 ": true, "false": false, "": false, "yes": false} {
		if got := resolveBool(raw); got != want {
			t.Fatalf("resolveBool(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestMustLoadLocationFallsBackToUTC(t *testing.T) {
	if location := mustLoadLocation("Not/AZone"); location != time.UTC {
		t.Fatalf("expected UTC fallback, got %s", location)
	}
}
