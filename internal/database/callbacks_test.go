package database

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID    int64
	Title string
}

type recordedQuery struct {
	operation string
	table     string
	err       error
}

type recordingRecorder struct {
	mu      sync.Mutex
	queries []recordedQuery
	stats   chan sql.DBStats
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{stats: make(chan sql.DBStats, 16)}
}

func (r *recordingRecorder) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, recordedQuery{operation: operation, table: table, err: err})
}

func (r *recordingRecorder) UpdateDBStats(stats sql.DBStats) {
	select {
	case r.stats <- stats:
	default:
	}
}

func (r *recordingRecorder) find(operation, table string) (recordedQuery, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.queries {
		if q.operation == operation && q.table == table {
			return q, true
		}
	}
	return recordedQuery{}, false
}

func openCallbackDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT)`).Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return db
}

func TestRegisterMetricsCallbacks_TimesEveryOperation(t *testing.T) {
	db := openCallbackDB(t)
	rec := newRecordingRecorder()
	RegisterMetricsCallbacks(db, rec)

	n := note{Title: "standup"}
	if err := db.Create(&n).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	var out []note
	if err := db.Find(&out).Error; err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if err := db.Model(&note{}).Where("id = ?", n.ID).Update("title", "retro").Error; err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := db.Delete(&note{}, n.ID).Error; err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	for _, operation := range []string{"insert", "select", "update", "delete"} {
		q, ok := rec.find(operation, "notes")
		if !ok {
			t.Fatalf("no %s query recorded for notes", operation)
		}
		if q.err != nil {
			t.Errorf("%s query recorded error: %v", operation, q.err)
		}
	}
}

func TestRegisterMetricsCallbacks_RecordsQueryError(t *testing.T) {
	db := openCallbackDB(t)
	rec := newRecordingRecorder()
	RegisterMetricsCallbacks(db, rec)

	var out []note
	_ = db.Table("missing").Find(&out).Error

	q, ok := rec.find("select", "missing")
	if !ok {
		t.Fatal("no select query recorded for missing table")
	}
	if q.err == nil {
		t.Error("expected query error to be recorded")
	}
}

func TestStartDBStatsCollector_ReportsPoolSnapshots(t *testing.T) {
	db := openCallbackDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(3)

	rec := newRecordingRecorder()
	stop := StartDBStatsCollector(db, rec, 5*time.Millisecond)
	defer stop()

	select {
	case stats := <-rec.stats:
		if stats.MaxOpenConnections != 3 {
			t.Errorf("expected MaxOpenConnections 3, got %d", stats.MaxOpenConnections)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no pool snapshot reported")
	}
}
