package words

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/robalobadob/wordchain/assets"
)

// openTestDB creates a file database with the embedded migrations applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	migrations, err := assets.Migrations()
	if err != nil {
		t.Fatalf("migrations: %v", err)
	}
	names, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := fs.ReadFile(migrations, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if _, err := db.Exec(string(body)); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}
	return db
}

type countingValidator struct {
	calls int
	valid map[string]bool
	err   error
}

func (c *countingValidator) Validate(_ context.Context, w string) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.valid[w], nil
}

func TestCacheStoresAnswers(t *testing.T) {
	db := openTestDB(t)
	next := &countingValidator{valid: map[string]bool{"crane": true}}
	c := NewCache(db, next)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if ok, err := c.Validate(ctx, "crane"); err != nil || !ok {
			t.Fatalf("crane: %v %v", ok, err)
		}
		if ok, err := c.Validate(ctx, "qqqq"); err != nil || ok {
			t.Fatalf("qqqq: %v %v", ok, err)
		}
	}
	if next.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", next.calls)
	}
	if n, err := c.Count(ctx); err != nil || n != 2 {
		t.Fatalf("expected 2 cached rows, got %d %v", n, err)
	}
}

func TestCacheSkipsErrors(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")
	next := &countingValidator{err: boom}
	c := NewCache(db, next)
	ctx := context.Background()

	if _, err := c.Validate(ctx, "crane"); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if n, _ := c.Count(ctx); n != 0 {
		t.Fatalf("errors must not be cached, got %d rows", n)
	}
	next.err = nil
	next.valid = map[string]bool{"crane": true}
	if ok, err := c.Validate(ctx, "crane"); err != nil || !ok {
		t.Fatalf("expected retry to reach upstream: %v %v", ok, err)
	}
	if next.calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", next.calls)
	}
}
