package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/campus_fare_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_fare_ledger/internal/middleware"
)

const defaultNotifyTimeout = 5 * time.Second

// ServiceOption configures the shared BaseService of any service in this package.
type ServiceOption func(*BaseService)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(b *BaseService) {
		b.now = now
	}
}

// WithNotifier sets the receipt and change-event sink.
func WithNotifier(n portssvc.Notifier) ServiceOption {
	return func(b *BaseService) {
		b.notifier = n
	}
}

// WithNotifyTimeout bounds each background notification.
func WithNotifyTimeout(d time.Duration) ServiceOption {
	return func(b *BaseService) {
		if d > 0 {
			b.notifyTimeout = d
		}
	}
}

// BaseService provides common functionality for all services
type BaseService struct {
	now           func() time.Time
	notifier      portssvc.Notifier
	notifyTimeout time.Duration
}

func newBaseService(opts ...ServiceOption) BaseService {
	b := BaseService{
		now:           time.Now,
		notifyTimeout: defaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	return s.now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs an expected business failure together with its cause.
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// dispatch runs fn in the background on a context detached from the request. Failures are
// logged and never reach the caller.
func (s *BaseService) dispatch(ctx context.Context, kind string, fn func(ctx context.Context, n portssvc.Notifier) error) {
	if s.notifier == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		nctx, cancel := context.WithTimeout(detached, s.notifyTimeout)
		defer cancel()
		if err := fn(nctx, s.notifier); err != nil {
			s.LogError(nctx, err, "Notification failed", slog.String("kind", kind))
		}
	}()
}
