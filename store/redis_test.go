package store

import "testing"

func TestNewRedis_DefaultPrefix(t *testing.T) {
	r := NewRedis(nil, "")
	if r.prefix != "aigw:" {
		t.Errorf("prefix = %q, want aigw:", r.prefix)
	}
	if got := r.key("adm:g:123"); got != "aigw:adm:g:123" {
		t.Errorf("key() = %q", got)
	}
}

func TestNewRedis_CustomPrefix(t *testing.T) {
	r := NewRedis(nil, "test:")
	if got := r.key("x"); got != "test:x" {
		t.Errorf("key() = %q", got)
	}
}

func TestDial_BadURL(t *testing.T) {
	if _, err := Dial(t.Context(), "not-a-url", ""); err == nil {
		t.Fatal("expected error for malformed URL")
	}
}
