//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/course-navigator/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	// Clean up test data before each test
	_, _ = db.pool.Exec(ctx, "DELETE FROM parse_records WHERE location LIKE 'test://%'")

	return db
}

func TestIntegration_ParseRecord_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pkg := "lesson.html?studentId=12345"
	links := []types.NavigationLink{
		{Title: "Lesson", Identifier: "i1", ParentIndex: types.NoParent, Href: "lesson.html", ScormVersion: "1.2", PackageRelative: &pkg},
	}

	t.Run("save and get", func(t *testing.T) {
		id, err := db.SaveParseRecord(ctx, "test://course/imsmanifest.xml", "1.2", links)
		if err != nil {
			t.Fatalf("SaveParseRecord failed: %v", err)
		}
		if id == uuid.Nil {
			t.Fatal("record ID should not be nil")
		}

		rec, err := db.GetParseRecord(ctx, id)
		if err != nil {
			t.Fatalf("GetParseRecord failed: %v", err)
		}
		if rec == nil {
			t.Fatal("expected record, got nil")
		}
		if rec.LinkCount != 1 || len(rec.Links) != 1 {
			t.Errorf("LinkCount = %d, links = %d, want 1", rec.LinkCount, len(rec.Links))
		}
		if rec.Links[0].PackageRelative == nil || *rec.Links[0].PackageRelative != pkg {
			t.Errorf("PackageRelative not preserved: %v", rec.Links[0].PackageRelative)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		rec, err := db.GetParseRecord(ctx, uuid.New())
		if err != nil {
			t.Fatalf("GetParseRecord failed: %v", err)
		}
		if rec != nil {
			t.Errorf("expected nil record, got %+v", rec)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		first, _ := db.SaveParseRecord(ctx, "test://a/imsmanifest.xml", "2004", nil)
		second, _ := db.SaveParseRecord(ctx, "test://b/imsmanifest.xml", "2004", nil)

		records, err := db.ListParseRecords(ctx, 2)
		if err != nil {
			t.Fatalf("ListParseRecords failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("len(records) = %d, want 2", len(records))
		}
		if records[0].ID != second || records[1].ID != first {
			t.Errorf("unexpected order: %v, %v", records[0].ID, records[1].ID)
		}
	})
}
