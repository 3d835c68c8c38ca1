package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"venue/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func insertEvent(ctx context.Context, db SQLDB, id, title string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO event (id, type, title, event_date, created_at) VALUES (?, 'course', ?, '2025-10-01', ?)`,
		id, title, time.Now().UTC().Format(time.RFC3339))
	return err
}

// TestTimedDB_RecordsWrites verifies ExecContext records one entry per statement.
func TestTimedDB_RecordsWrites(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	if err := insertEvent(context.Background(), tdb, "e1", "Wheel Throwing"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_RecordsReads verifies QueryContext records timing and returns rows.
func TestTimedDB_RecordsReads(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)
	ctx := context.Background()

	insertEvent(ctx, tdb, "e1", "Wheel Throwing")
	insertEvent(ctx, tdb, "e2", "Glazing")

	rows, err := tdb.QueryContext(ctx, `SELECT id, title FROM event ORDER BY id`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	count := 0
	for rows.Next() {
		count++
		var id, title string
		rows.Scan(&id, &title)
	}
	if count != 2 {
		t.Errorf("rows = %d, want 2", count)
	}
	// 2 inserts + 1 query
	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
}

// TestTimedDB_QueryRowContext verifies single-row lookups go through the wrapper.
func TestTimedDB_QueryRowContext(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)
	ctx := context.Background()

	insertEvent(ctx, tdb, "e1", "Wheel Throwing")

	var title string
	err := tdb.QueryRowContext(ctx, `SELECT title FROM event WHERE id = ?`, "e1").Scan(&title)
	if err != nil {
		t.Fatalf("query row: %v", err)
	}
	if title != "Wheel Throwing" {
		t.Errorf("title = %q", title)
	}
}

// TestTimedDB_BeginTx verifies transactions are timed and commit normally.
func TestTimedDB_BeginTx(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	tx, err := tdb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO event (id, type, title, event_date, created_at) VALUES ('e1', 'course', 'Raku Firing', '2025-10-01', '2025-09-01T00:00:00Z')`,
	); err != nil {
		t.Fatalf("tx exec: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if collector.TotalRecorded() < 1 {
		t.Errorf("TotalRecorded = %d, want >= 1", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector verifies the wrapper is usable with collection disabled.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)

	if err := insertEvent(context.Background(), tdb, "e1", "Wheel Throwing"); err != nil {
		t.Fatalf("insert with nil collector: %v", err)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors reach the caller unchanged
// and the timing entry is still recorded.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)
	ctx := context.Background()

	// Constraint violation: registration requires an existing event.
	_, err := tdb.ExecContext(ctx,
		`INSERT INTO registration (id, event_id, member_id, status, created_at) VALUES ('r1', 'ghost', 'ghost', 'interested', '2025-09-01T00:00:00Z')`)
	if err == nil {
		t.Fatal("expected foreign key error, got nil")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1 (must record even on error)", collector.TotalRecorded())
	}

	if _, err := tdb.QueryContext(ctx, `SELECT * FROM no_such_table`); err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}

	var title string
	err = tdb.QueryRowContext(ctx, `SELECT title FROM event WHERE id = ?`, "missing").Scan(&title)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

// TestTimedDB_CancelledContext verifies a cancelled context surfaces an error
// and is still counted.
func TestTimedDB_CancelledContext(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := insertEvent(ctx, tdb, "e1", "Wheel Throwing"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_ResultPassthrough verifies sql.Result values survive the wrapper.
func TestTimedDB_ResultPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, perf.NewCollector(100))
	ctx := context.Background()

	insertEvent(ctx, tdb, "e1", "Wheel Throwing")
	result, err := tdb.ExecContext(ctx, `UPDATE event SET is_active = 0 WHERE id = ?`, "e1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		t.Fatalf("rows affected: %v", err)
	}
	if affected != 1 {
		t.Errorf("RowsAffected = %d, want 1", affected)
	}
}

// TestTimedDB_RawDB verifies the raw connection is reachable for pool tuning.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)

	if tdb.RawDB() != db {
		t.Error("RawDB() should return the original *sql.DB")
	}
}

// TestTimedDB_ConcurrentMixedOps verifies no races or panics under concurrent
// writes and reads against the event table.
func TestTimedDB_ConcurrentMixedOps(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(1000)
	tdb := NewTimedDB(db, collector)
	ctx := context.Background()

	insertEvent(ctx, tdb, "seed", "Open Studio")

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				tdb.ExecContext(ctx, `UPDATE event SET title = 'Open Studio' WHERE id = 'seed'`)
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				rows, err := tdb.QueryContext(ctx, `SELECT id FROM event LIMIT 1`)
				if err == nil {
					rows.Close()
				}
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				var title string
				tdb.QueryRowContext(ctx, `SELECT title FROM event WHERE id = ?`, "seed").Scan(&title)
			}
		}
	}()

	time.Sleep(100 * time.Millisecond)
	close(done)
	wg.Wait()

	if collector.TotalRecorded() < 3 {
		t.Errorf("TotalRecorded = %d, want >= 3", collector.TotalRecorded())
	}
}

// BenchmarkTimedDB_Overhead compares a raw connection against the wrapper for
// the same single-row lookup.
func BenchmarkTimedDB_Overhead(b *testing.B) {
	db, _ := sql.Open("sqlite", ":memory:")
	defer db.Close()
	db.SetMaxOpenConns(1)
	if err := MigrateDB(db, ":memory:"); err != nil {
		b.Fatalf("migrate: %v", err)
	}
	db.Exec(`INSERT INTO event (id, type, title, event_date, created_at) VALUES ('e1', 'course', 'Wheel Throwing', '2025-10-01', '2025-09-01T00:00:00Z')`)
	collector := perf.NewCollector(perf.DefaultRingSize)
	ctx := context.Background()

	b.Run("RawDB", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			db.QueryRowContext(ctx, `SELECT title FROM event WHERE id = 'e1'`)
		}
	})

	tdb := NewTimedDB(db, collector)
	b.Run("TimedDB", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			tdb.QueryRowContext(ctx, `SELECT title FROM event WHERE id = 'e1'`)
		}
	})
}
