// Package observability provides lightweight tracing and Prometheus
// metrics for the review engine: trace spans for the queue-build,
// select, and preview/commit lifecycle, plus counters and histograms
// over review throughput and queue composition.
package observability

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ═══════════════════════════════════════════════════════════════════════════
// Trace Spans - Lightweight span tracking without external OTel SDK dependency
// ═══════════════════════════════════════════════════════════════════════════

// SpanKind classifies a span.
type SpanKind int

const (
	SpanInternal SpanKind = iota
	SpanServer
	SpanClient
)

// Span represents a unit of work within a distributed trace.
type Span struct {
	TraceID   string            `json:"trace_id"`
	SpanID    string            `json:"span_id"`
	ParentID  string            `json:"parent_id,omitempty"`
	Operation string            `json:"operation"`
	Kind      SpanKind          `json:"kind"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
	Duration  time.Duration     `json:"duration,omitempty"`
	Status    SpanStatus        `json:"status"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// SpanStatus indicates success/failure.
type SpanStatus int

const (
	SpanOK SpanStatus = iota
	SpanError
)

// ─── Tracer ─────────────────────────────────────────────────────────────────

// Tracer provides lightweight distributed tracing.
// In production, this would wrap OpenTelemetry SDK.
// This implementation stores spans in-memory for inspection and export.
type Tracer struct {
	mu       sync.Mutex
	spans    []Span
	maxSpans int
	enabled  bool
}

// TracerConfig configures the tracer.
type TracerConfig struct {
	Enabled  bool
	MaxSpans int // ring buffer size (default 10_000)
}

// DefaultTracerConfig returns production defaults.
func DefaultTracerConfig() TracerConfig {
	return TracerConfig{
		Enabled:  true,
		MaxSpans: 10_000,
	}
}

// NewTracer creates a new tracer.
func NewTracer(cfg TracerConfig) *Tracer {
	return &Tracer{
		spans:    make([]Span, 0, cfg.MaxSpans),
		maxSpans: cfg.MaxSpans,
		enabled:  cfg.Enabled,
	}
}

// StartSpan begins a new span with the given operation name.
// Returns the span (caller must call EndSpan when done).
func (t *Tracer) StartSpan(ctx context.Context, operation string, attrs map[string]string) *Span {
	if !t.enabled {
		return &Span{Operation: operation}
	}

	span := &Span{
		TraceID:   traceIDFromContext(ctx),
		SpanID:    generateID(),
		ParentID:  spanIDFromContext(ctx),
		Operation: operation,
		Kind:      SpanInternal,
		StartTime: time.Now(),
		Status:    SpanOK,
		Attrs:     attrs,
	}

	return span
}

// EndSpan completes a span and records it.
func (t *Tracer) EndSpan(span *Span, err error) {
	if !t.enabled || span == nil {
		return
	}

	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	if err != nil {
		span.Status = SpanError
		if span.Attrs == nil {
			span.Attrs = make(map[string]string)
		}
		span.Attrs["error"] = err.Error()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Ring buffer: overwrite oldest if at capacity
	if len(t.spans) >= t.maxSpans {
		t.spans = t.spans[1:]
	}
	t.spans = append(t.spans, *span)
}

// Spans returns a copy of the recent spans.
func (t *Tracer) Spans(limit int) []Span {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limit <= 0 || limit > len(t.spans) {
		limit = len(t.spans)
	}

	// Return most recent spans
	start := len(t.spans) - limit
	out := make([]Span, limit)
	copy(out, t.spans[start:])
	return out
}

// SpanCount returns the number of recorded spans.
func (t *Tracer) SpanCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}

// Reset clears all recorded spans.
func (t *Tracer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = t.spans[:0]
}

// ─── Context Helpers ────────────────────────────────────────────────────────

type contextKey string

const (
	traceIDKey contextKey = "engramd-trace-id"
	spanIDKey  contextKey = "engramd-span-id"
)

// WithTraceID returns a context with the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// WithSpanID returns a context with the given span ID.
func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey, spanID)
}

func traceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return generateID()
}

func spanIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(spanIDKey).(string); ok {
		return v
	}
	return ""
}

// generateID creates a short unique ID, not cryptographically secure, fine for tracing.
var spanCounter atomic.Int64

func generateID() string {
	n := spanCounter.Add(1)
	return fmt.Sprintf("%s-%d", time.Now().Format("20060102150405"), n)
}

// ═══════════════════════════════════════════════════════════════════════════
// Prometheus Metrics
// ═══════════════════════════════════════════════════════════════════════════

// ─── Queue Metrics ──────────────────────────────────────────────────────────

// QueueDepth tracks the current size of the built review queue.
var QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "engramd",
	Subsystem: "queue",
	Name:      "depth",
	Help:      "Current number of eligible items in the built review queue.",
})

// QueueBuildDuration tracks how long queue.Build takes to run.
var QueueBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "engramd",
	Subsystem: "queue",
	Name:      "build_duration_ms",
	Help:      "Duration of a queue build pass in milliseconds.",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
})

// QueueItemsSelected tracks items drawn from the selector, by kind.
var QueueItemsSelected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "engramd",
	Subsystem: "queue",
	Name:      "items_selected_total",
	Help:      "Total items drawn from the queue selector, by item kind.",
}, []string{"kind"})

// ─── Review Metrics ─────────────────────────────────────────────────────────

// ReviewsCommitted tracks committed reviews by entity kind and rating.
var ReviewsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "engramd",
	Subsystem: "review",
	Name:      "commits_total",
	Help:      "Total review commits, by entity kind and rating.",
}, []string{"kind", "rating"})

// ReviewCommitDuration tracks how long a review commit transaction
// takes end to end.
var ReviewCommitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "engramd",
	Subsystem: "review",
	Name:      "commit_duration_ms",
	Help:      "Duration of a review commit transaction in milliseconds, by entity kind.",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
}, []string{"kind"})

// ReviewLapses tracks total lapses recorded (rating = again on a
// reviewed item).
var ReviewLapses = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "engramd",
	Subsystem: "review",
	Name:      "lapses_total",
	Help:      "Total lapses recorded across all learning items.",
})

// ─── Store Metrics ──────────────────────────────────────────────────────────

// StorePersistenceErrors tracks persistence-layer errors by operation.
var StorePersistenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "engramd",
	Subsystem: "store",
	Name:      "persistence_errors_total",
	Help:      "Total persistence errors, by operation.",
}, []string{"operation"})

// ─── Trace Metrics ──────────────────────────────────────────────────────────

// TracesRecorded tracks total spans recorded.
var TracesRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "engramd",
	Subsystem: "traces",
	Name:      "spans_recorded_total",
	Help:      "Total trace spans recorded.",
})

// TraceErrors tracks error spans.
var TraceErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "engramd",
	Subsystem: "traces",
	Name:      "error_spans_total",
	Help:      "Total trace spans with error status.",
})
