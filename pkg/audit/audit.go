// Package audit writes candidate lifecycle and request-abuse events as
// structured zap records, separate from the application log stream.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"candidate-tracking-backend/internal/domain"
)

type EventType string

const (
	EventCandidateCreated   EventType = "candidate_created"
	EventCandidateUpdated   EventType = "candidate_updated"
	EventCandidateDeleted   EventType = "candidate_deleted"
	EventDuplicateEmail     EventType = "duplicate_email_rejected"
	EventConcurrentUpdate   EventType = "concurrent_update_rejected"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
)

// Event is one audit record. SubjectValue is masked before it is written.
type Event struct {
	Timestamp    time.Time
	Event        EventType
	CandidateID  string
	Actor        string
	SubjectType  string // "email", "ip"
	SubjectValue string
	RequestID    string
	Details      map[string]any
}

type Logger struct {
	zap         *zap.Logger
	serviceName string
	environment string
}

// New builds a production zap logger writing JSON to stdout.
func New(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	z, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		z, _ = zap.NewProduction()
	}
	return NewWithZap(z, serviceName, environment)
}

func NewWithZap(z *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{zap: z, serviceName: serviceName, environment: environment}
}

// Log writes e. A nil Logger discards events.
func (l *Logger) Log(ctx context.Context, e Event) {
	if l == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.RequestID == "" {
		e.RequestID, _ = ctx.Value(domain.KeyRequestID).(string)
	}
	if e.Actor == "" {
		if actor := domain.ActorFrom(ctx); actor != nil {
			e.Actor = *actor
		}
	}

	level := zapcore.InfoLevel
	switch e.Event {
	case EventDuplicateEmail, EventConcurrentUpdate, EventRateLimitTriggered:
		level = zapcore.WarnLevel
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(e.Event)),
		zap.Time("event_time", e.Timestamp),
	}
	if e.CandidateID != "" {
		fields = append(fields, zap.String("candidate_id", e.CandidateID))
	}
	if e.Actor != "" {
		fields = append(fields, zap.String("actor", e.Actor))
	}
	if e.SubjectType != "" {
		fields = append(fields,
			zap.String("subject_type", e.SubjectType),
			zap.String("subject_value", maskValue(e.SubjectType, e.SubjectValue)),
		)
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("request_id", e.RequestID))
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("details", e.Details))
	}

	l.zap.Log(level, string(e.Event), fields...)
}

func (l *Logger) CandidateCreated(ctx context.Context, c *domain.Candidate) {
	l.Log(ctx, Event{
		Event:        EventCandidateCreated,
		CandidateID:  c.ID,
		SubjectType:  "email",
		SubjectValue: c.Email,
		Details:      map[string]any{"partition_key": c.PartitionKey, "status": string(c.Status)},
	})
}

func (l *Logger) CandidateUpdated(ctx context.Context, c *domain.Candidate) {
	l.Log(ctx, Event{
		Event:       EventCandidateUpdated,
		CandidateID: c.ID,
		Details:     map[string]any{"status": string(c.Status), "interview_stage": string(c.InterviewStage)},
	})
}

func (l *Logger) CandidateDeleted(ctx context.Context, id string) {
	l.Log(ctx, Event{Event: EventCandidateDeleted, CandidateID: id})
}

func (l *Logger) DuplicateEmail(ctx context.Context, email string) {
	l.Log(ctx, Event{Event: EventDuplicateEmail, SubjectType: "email", SubjectValue: email})
}

func (l *Logger) ConcurrentUpdate(ctx context.Context, id string) {
	l.Log(ctx, Event{Event: EventConcurrentUpdate, CandidateID: id})
}

func (l *Logger) RateLimitTriggered(ctx context.Context, ip, endpoint string) {
	l.Log(ctx, Event{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zap.Sync()
}

// MaskEmail keeps the first character and the domain: "j***@example.com".
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case len(email) < 3:
		return "***"
	case at <= 1:
		return "***" + email[1:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns a short SHA-256 fingerprint of value.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip":
		return value
	default:
		return HashValue(value)
	}
}
