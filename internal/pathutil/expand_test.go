package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpand_HomeShortcut(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("user home dir: %v", err)
	}

	got, err := Expand("~/.pitwall/circuit_maps")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}

	want := filepath.Join(home, ".pitwall", "circuit_maps")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExpand_EnvVar(t *testing.T) {
	t.Setenv("PITWALL_TEST_DIR", "/tmp/pitwall-maps")

	got, err := Expand("$PITWALL_TEST_DIR/2025")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}

	if got != "/tmp/pitwall-maps/2025" {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

func TestExpand_Empty(t *testing.T) {
	got, err := Expand("   ")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
