package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	screeningStartedTotal   atomic.Uint64
	screeningCompletedTotal atomic.Uint64
	screeningFailedTotal    atomic.Uint64
	documentsScoredTotal    atomic.Uint64
	extractionFailedTotal   atomic.Uint64
	persistenceFailedTotal  atomic.Uint64

	screeningDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
)

// IncScreeningStarted increments the runs-started counter.
func IncScreeningStarted() {
	screeningStartedTotal.Add(1)
}

// IncScreeningCompleted increments the runs-completed counter.
func IncScreeningCompleted() {
	screeningCompletedTotal.Add(1)
}

// IncScreeningFailed increments the runs-failed counter.
func IncScreeningFailed() {
	screeningFailedTotal.Add(1)
}

// AddDocumentsScored adds n to the scored documents counter.
func AddDocumentsScored(n int) {
	if n > 0 {
		documentsScoredTotal.Add(uint64(n))
	}
}

// IncExtractionFailed counts a document whose text could not be extracted.
func IncExtractionFailed() {
	extractionFailedTotal.Add(1)
}

// IncPersistenceFailed counts a screening outcome that could not be stored.
func IncPersistenceFailed() {
	persistenceFailedTotal.Add(1)
}

// ObserveScreeningDurationMs records a run duration in milliseconds.
func ObserveScreeningDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	screeningDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "screening_runs_started_total", "Total screening runs started", screeningStartedTotal.Load())
	writeCounter(&buf, "screening_runs_completed_total", "Total screening runs completed", screeningCompletedTotal.Load())
	writeCounter(&buf, "screening_runs_failed_total", "Total screening runs failed", screeningFailedTotal.Load())
	writeCounter(&buf, "screening_documents_scored_total", "Total documents scored", documentsScoredTotal.Load())
	writeCounter(&buf, "screening_extraction_failures_total", "Total documents whose text extraction failed", extractionFailedTotal.Load())
	writeCounter(&buf, "screening_persistence_failures_total", "Total screening outcomes that failed to persist", persistenceFailedTotal.Load())
	writeHistogram(&buf, "screening_run_duration_ms", "Screening run duration in milliseconds", screeningDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
