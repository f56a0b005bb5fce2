package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/ticket/:ticketId", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/ticket/:ticketId", "GET", 200, time.Millisecond)
	m.RecordError("/api/submit-ticket", "POST", "VALIDATION_FAILED")
	m.RecordDelivery("new_ticket", "sent")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/ticket/:ticketId|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/submit-ticket|POST|VALIDATION_FAILED"])
	assert.Equal(t, int64(1), snap.Deliveries["new_ticket|sent"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordDelivery("k", "sent")
	assert.Empty(t, m.Snapshot().Requests)
}
