package metrics

// IncrementWSConnections increments the open websocket connection gauge
func (m *Metrics) IncrementWSConnections() {
	m.safeExecute("IncrementWSConnections", func() {
		m.WSConnections.Inc()
	})
}

// DecrementWSConnections decrements the open websocket connection gauge
func (m *Metrics) DecrementWSConnections() {
	m.safeExecute("DecrementWSConnections", func() {
		m.WSConnections.Dec()
	})
}

// RecordEventPublished records one published board event
func (m *Metrics) RecordEventPublished(kind string) {
	m.safeExecute("RecordEventPublished", func() {
		m.EventsPublishedTotal.WithLabelValues(kind).Inc()
	})
}

// RecordSlowConsumerDropped records a websocket client dropped for falling behind
func (m *Metrics) RecordSlowConsumerDropped() {
	m.safeExecute("RecordSlowConsumerDropped", func() {
		m.SlowConsumersDropped.Inc()
	})
}

// RecordActivityAppendFailed records a failed activity ledger append
func (m *Metrics) RecordActivityAppendFailed() {
	m.safeExecute("RecordActivityAppendFailed", func() {
		m.ActivityAppendsFailed.Inc()
	})
}
