package core

import (
	"context"
	"time"
)

// AuditStatus marks the outcome of an audited service operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry captures audit trail metadata for a service operation.
type AuditEntry struct {
	Operation  string      `json:"operation"`
	Subject    string      `json:"subject,omitempty"` // programme and/or day the operation touched
	Status     AuditStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// AuditRecorder records service audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// MetricsRecorder observes service operation outcomes.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// TraceSpan ends a single traced operation.
type TraceSpan interface {
	End(err error)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// instrument opens a span for op and returns a closure that records the
// span, audit entry and metrics observation for the terminal error.
func (s *Service) instrument(ctx context.Context, op, subject string) (context.Context, func(err error)) {
	started := s.nowFn()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, op)
	}
	return ctx, func(err error) {
		if span != nil {
			span.End(err)
		}
		if s.metrics != nil {
			s.metrics.Observe(ctx, op, err == nil, s.nowFn().Sub(started))
		}
		if s.audit != nil {
			entry := AuditEntry{Operation: op, Subject: subject, Status: AuditStatusSuccess, OccurredAt: s.nowFn().UTC()}
			if err != nil {
				entry.Status = AuditStatusError
				entry.Error = err.Error()
			}
			s.audit.Record(ctx, entry)
		}
	}
}
