package tokens

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})

	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.AutoMigrate(&Token{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewRepository(db)
}

func TestSaveAndLookup(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.Save("hub.example.com", "dev", "t0k3n"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	username, token, err := repo.TokenFor("hub.example.com")

	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	if username != "dev" || token != "t0k3n" {
		t.Errorf("unexpected record: %s / %s", username, token)
	}
}

func TestSaveReplacesExistingToken(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.Save("hub.example.com", "dev", "old"); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Save("hub.example.com", "dev", "new"); err != nil {
		t.Fatal(err)
	}

	_, token, err := repo.TokenFor("hub.example.com")

	if err != nil {
		t.Fatal(err)
	}

	if token != "new" {
		t.Errorf("expected replacement, got %s", token)
	}
}

func TestMissingTokenIsNotAnError(t *testing.T) {
	repo := newTestRepository(t)

	username, token, err := repo.TokenFor("unknown.example.com")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if username != "" || token != "" {
		t.Errorf("expected empty result, got %s / %s", username, token)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.Save("hub.example.com", "dev", "t"); err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete("hub.example.com"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, token, err := repo.TokenFor("hub.example.com")

	if err != nil {
		t.Fatal(err)
	}

	if token != "" {
		t.Errorf("expected token removed, got %s", token)
	}
}
