package database

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats sql.DBStats)
}

// RegisterMetricsCallbacks registers GORM callbacks that time every query,
// create, update and delete and report them to the recorder.
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	type registrar interface {
		Register(string, func(*gorm.DB)) error
	}
	register := func(before, after registrar, operation string) {
		before.Register("metrics:"+operation+"_before", func(db *gorm.DB) {
			db.InstanceSet("query_start_time", time.Now())
		})
		after.Register("metrics:"+operation+"_after", func(db *gorm.DB) {
			start, ok := db.InstanceGet("query_start_time")
			if !ok {
				return
			}
			table := db.Statement.Table
			if table == "" {
				table = "unknown"
			}
			recorder.RecordDBQuery(operation, table, time.Since(start.(time.Time)), db.Error)
		})
	}

	register(db.Callback().Query().Before("gorm:query"), db.Callback().Query().After("gorm:query"), "select")
	register(db.Callback().Create().Before("gorm:create"), db.Callback().Create().After("gorm:create"), "insert")
	register(db.Callback().Update().Before("gorm:update"), db.Callback().Update().After("gorm:update"), "update")
	register(db.Callback().Delete().Before("gorm:delete"), db.Callback().Delete().After("gorm:delete"), "delete")
}

// StartDBStatsCollector samples the connection pool at the given interval
// and reports each snapshot to the recorder. The returned function stops
// the collector.
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) func() {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}
