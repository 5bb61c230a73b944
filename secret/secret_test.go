package secret

import (
	"context"
	"strings"
	"testing"
)

func TestExpandEnvStrict_MissingVarErrors(t *testing.T) {
	t.Setenv("PRESENT", "ok")

	_, err := ExpandEnvStrict("a=${PRESENT} b=${MISSING}")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "MISSING") {
		t.Fatalf("expected missing var name in error, got: %v", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("X", "y")

	out, err := ExpandEnvStrict("$$${X}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if out != "$y" {
		t.Fatalf("ExpandEnvStrict() = %q, want %q", out, "$y")
	}
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		in           string
		provider, ref string
		ok            bool
	}{
		{"secretref:env:OPENAI_API_KEY", "env", "OPENAI_API_KEY", true},
		{"secretref:vault:kv/data/gateway#api_key", "vault", "kv/data/gateway#api_key", true},
		{"plainvalue", "", "", false},
		{"secretref::ref", "", "", false},
		{"secretref:env:", "", "", false},
	}
	for _, tt := range tests {
		provider, ref, ok := ParseSecretRef(tt.in)
		if provider != tt.provider || ref != tt.ref || ok != tt.ok {
			t.Errorf("ParseSecretRef(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, provider, ref, ok, tt.provider, tt.ref, tt.ok)
		}
	}
}

func TestResolver_EnvProvider(t *testing.T) {
	t.Setenv("GATEWAY_API_KEY", "sk-test")

	r := NewResolver(true, EnvProvider{})

	got, err := r.ResolveValue(context.Background(), "secretref:env:GATEWAY_API_KEY")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "sk-test" {
		t.Errorf("ResolveValue() = %q, want %q", got, "sk-test")
	}
}

func TestResolver_UnknownProvider(t *testing.T) {
	r := NewResolver(true)
	if _, err := r.ResolveValue(context.Background(), "secretref:vault:some/ref"); err == nil {
		t.Fatal("expected error for unregistered provider")
	}
}

func TestResolver_PlainValuePassthrough(t *testing.T) {
	r := NewResolver(true, EnvProvider{})
	got, err := r.ResolveValue(context.Background(), "redis://localhost:6379")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "redis://localhost:6379" {
		t.Errorf("ResolveValue() = %q", got)
	}
}
