package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType classifies auth and payment events on the audit trail.
type EventType string

const (
	EventSignUp             EventType = "sign_up"
	EventSignInSuccess      EventType = "sign_in_success"
	EventSignInFailed       EventType = "sign_in_failed"
	EventSignOut            EventType = "sign_out"
	EventOTPRequested       EventType = "otp_requested"
	EventPaymentSubmitted   EventType = "payment_submitted"
	EventPaymentVerified    EventType = "payment_verified"
	EventPaymentRejected    EventType = "payment_rejected"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
)

// Event is a single audit record. Subject values holding PII are masked
// or hashed before logging.
type Event struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"` // "email", "ip", "user_id"
	SubjectValue string                 `json:"subject_value,omitempty"`
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// Logger writes structured audit events through Zap.
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var defaultLogger *Logger

// Init builds the audit logger. Output goes to stdout for container platforms.
func Init(serviceName string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	l := &Logger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment(),
	}
	defaultLogger = l
	return l
}

// Default returns the process-wide audit logger, initializing a basic one
// when Init was never called (tests, scripts).
func Default() *Logger {
	if defaultLogger == nil {
		return Init("workwise-backend")
	}
	return defaultLogger
}

// Log writes one audit event.
func (l *Logger) Log(_ context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment

	level := zapcore.InfoLevel
	switch event.Event {
	case EventSignInFailed, EventRateLimitTriggered, EventPaymentRejected:
		level = zapcore.WarnLevel
	case EventUnauthorizedAccess:
		level = zapcore.ErrorLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)
}

// LogSignInFailed records a failed credential sign-in.
func (l *Logger) LogSignInFailed(ctx context.Context, email, ip, userAgent, requestID, reason string) {
	l.Log(ctx, Event{
		Event:        EventSignInFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

// LogSignInSuccess records a successful sign-in.
func (l *Logger) LogSignInSuccess(ctx context.Context, userID, ip, requestID string) {
	l.Log(ctx, Event{
		Event:       EventSignInSuccess,
		SubjectType: "user_id",
		// User IDs are opaque gateway UUIDs, not PII
		SubjectValue: userID,
		IP:           ip,
		RequestID:    requestID,
	})
}

// LogPaymentEvent records a payment verification transition.
func (l *Logger) LogPaymentEvent(ctx context.Context, event EventType, userID string, details map[string]interface{}) {
	l.Log(ctx, Event{
		Event:        event,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details:      details,
	})
}

// LogRateLimitTriggered records a rate-limit rejection.
func (l *Logger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	l.Log(ctx, Event{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// Sync flushes any buffered entries.
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com").
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue hashes a value so it can be correlated without logging PII.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
