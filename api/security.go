package api

import (
	"log/slog"
	"net/http"
)

// securityEvent identifies the type of security-relevant action being logged.
type securityEvent string

const (
	eventRegister         securityEvent = "register"
	eventRegisterConflict securityEvent = "register_conflict"
	eventLoginSuccess     securityEvent = "login_success"
	eventLoginFailure     securityEvent = "login_failure"
	eventTokenRejected    securityEvent = "token_rejected"
	eventSessionCreated   securityEvent = "session_created"
)

// securityLogger wraps slog.Logger for structured security event logging.
type securityLogger struct {
	logger *slog.Logger
}

func newSecurityLogger(logger *slog.Logger) *securityLogger {
	return &securityLogger{
		logger: logger.With("component", "security"),
	}
}

func (sl *securityLogger) log(event securityEvent, r *http.Request, attrs ...slog.Attr) {
	baseAttrs := []slog.Attr{
		slog.String("event", string(event)),
		slog.String("remote_addr", r.RemoteAddr),
	}
	baseAttrs = append(baseAttrs, attrs...)
	sl.logger.LogAttrs(r.Context(), slog.LevelInfo, "security", baseAttrs...)
}

// logEvent records an event attributed to a username.
func (sl *securityLogger) logEvent(event securityEvent, r *http.Request, username string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("username", username),
	}
	attrs = append(attrs, extra...)
	sl.log(event, r, attrs...)
}

// logFailure records a failed attempt with its reason.
func (sl *securityLogger) logFailure(event securityEvent, r *http.Request, reason string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("reason", reason),
	}
	attrs = append(attrs, extra...)
	sl.log(event, r, attrs...)
}
