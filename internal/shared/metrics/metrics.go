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
	ingestRunsTotal       atomic.Uint64
	ingestRunsFailedTotal atomic.Uint64
	leadsIngestedTotal    atomic.Uint64

	personasGeneratedTotal atomic.Uint64
	personasFailedTotal    atomic.Uint64

	emailsGeneratedTotal atomic.Uint64
	emailsFailedTotal    atomic.Uint64

	chatSendsTotal       atomic.Uint64
	chatSendsFailedTotal atomic.Uint64

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncIngestRun increments the ingestion run counter.
func IncIngestRun() { ingestRunsTotal.Add(1) }

// IncIngestRunFailed increments the failed ingestion run counter.
func IncIngestRunFailed() { ingestRunsFailedTotal.Add(1) }

// AddLeadsIngested adds to the ingested lead counter.
func AddLeadsIngested(n int) {
	if n > 0 {
		leadsIngestedTotal.Add(uint64(n))
	}
}

// IncPersonaGenerated increments the persona counter.
func IncPersonaGenerated() { personasGeneratedTotal.Add(1) }

// IncPersonaFailed increments the failed persona counter.
func IncPersonaFailed() { personasFailedTotal.Add(1) }

// IncEmailGenerated increments the cold email counter.
func IncEmailGenerated() { emailsGeneratedTotal.Add(1) }

// IncEmailFailed increments the failed cold email counter.
func IncEmailFailed() { emailsFailedTotal.Add(1) }

// IncChatSend increments the chat send counter.
func IncChatSend() { chatSendsTotal.Add(1) }

// IncChatSendFailed increments the failed chat send counter.
func IncChatSendFailed() { chatSendsFailedTotal.Add(1) }

// ObserveLLMDurationMs records an LLM round trip in milliseconds.
func ObserveLLMDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.Observe(value)
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
	writeCounter(&buf, "ingest_runs_total", "Total ingestion runs started", ingestRunsTotal.Load())
	writeCounter(&buf, "ingest_runs_failed_total", "Total ingestion runs failed", ingestRunsFailedTotal.Load())
	writeCounter(&buf, "leads_ingested_total", "Total leads persisted", leadsIngestedTotal.Load())
	writeCounter(&buf, "personas_generated_total", "Total personas generated", personasGeneratedTotal.Load())
	writeCounter(&buf, "personas_failed_total", "Total persona generations failed", personasFailedTotal.Load())
	writeCounter(&buf, "emails_generated_total", "Total cold emails generated", emailsGeneratedTotal.Load())
	writeCounter(&buf, "emails_failed_total", "Total cold email generations failed", emailsFailedTotal.Load())
	writeCounter(&buf, "chat_sends_total", "Total chat turns sent", chatSendsTotal.Load())
	writeCounter(&buf, "chat_sends_failed_total", "Total chat turns failed", chatSendsFailedTotal.Load())
	writeHistogram(&buf, "llm_request_duration_ms", "LLM request duration in milliseconds", llmDuration.Snapshot())
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
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
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
