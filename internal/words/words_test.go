package words

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	l, err := Load("")
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if l.Len() < 100 {
		t.Fatalf("expected a real word list, got %d words", l.Len())
	}
	for _, w := range []string{"crane", "eagle", "tiger"} {
		if ok, _ := l.Validate(context.Background(), w); !ok {
			t.Errorf("expected %q in embedded list", w)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	body := "# comment\nApple\n\n  banana \nnot-a-word\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 words, got %d", l.Len())
	}
	ctx := context.Background()
	if ok, _ := l.Validate(ctx, "APPLE"); !ok {
		t.Fatal("expected case-insensitive match")
	}
	if ok, _ := l.Validate(ctx, "not-a-word"); ok {
		t.Fatal("non-letter entries must be dropped")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty list")
	}
}
