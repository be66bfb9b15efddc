package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the subsystem emitting the record under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Guard records the authentication guard name under the key "guard".
func Guard(name string) slog.Attr {
	return slog.String("guard", name)
}

// Event records a domain event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// IP records a remote address under the key "ip".
// If addr is empty, it returns an empty Attr.
func IP(addr string) slog.Attr {
	if addr == "" {
		return slog.Attr{}
	}
	return slog.String("ip", addr)
}
