package observability

import (
	"testing"
	"time"

	logs "github.com/danmuck/smplog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("imgpair-admin", "GET", "/health", 200, 12*time.Millisecond)
	RecordFrame("sender", "sent", 4096)
	RecordFrame("receiver", "received", 4096)
	RecordSessionOutcome("sender", "ok", 50*time.Millisecond)

	logs.Logf("observability/metrics: registration idempotent and recording paths executed")
}
