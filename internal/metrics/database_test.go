package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestUpdateDBStats_SetsPoolGauges(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), nil)

	m.UpdateDBStats(sql.DBStats{
		OpenConnections:    5,
		InUse:              2,
		Idle:               3,
		MaxOpenConnections: 10,
	})

	if got := getGaugeValue(t, m.DBConnectionsOpen); got != 5 {
		t.Errorf("DBConnectionsOpen = %f, want 5", got)
	}
	if got := getGaugeValue(t, m.DBConnectionsInUse); got != 2 {
		t.Errorf("DBConnectionsInUse = %f, want 2", got)
	}
	if got := getGaugeValue(t, m.DBConnectionsIdle); got != 3 {
		t.Errorf("DBConnectionsIdle = %f, want 3", got)
	}
	if got := getGaugeValue(t, m.DBConnectionsMax); got != 10 {
		t.Errorf("DBConnectionsMax = %f, want 10", got)
	}
}

func TestUpdateDBStats_WaitCountersUseDeltas(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), nil)

	m.UpdateDBStats(sql.DBStats{WaitCount: 4, WaitDuration: 2 * time.Second})
	m.UpdateDBStats(sql.DBStats{WaitCount: 7, WaitDuration: 3 * time.Second})

	if got := getCounterValue(t, m.DBConnectionWaitTotal); got != 7 {
		t.Errorf("DBConnectionWaitTotal = %f, want 7", got)
	}
	if got := getCounterValue(t, m.DBConnectionWaitDuration); got != 3 {
		t.Errorf("DBConnectionWaitDuration = %f, want 3", got)
	}
}

func TestRecordDBQuery_LowercasesOperation(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), nil)

	m.RecordDBQuery("SELECT", "boards", 5*time.Millisecond, errors.New("boom"))

	if got := getCounterValue(t, m.DBQueryErrors.WithLabelValues("select", "boards")); got != 1 {
		t.Errorf("DBQueryErrors{select,boards} = %f, want 1", got)
	}
}
