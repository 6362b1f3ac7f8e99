package internal

import (
	"context"
	"time"

	"golang.org/x/text/language"
)

type ctxKey string

const (
	ContextUserKey   ctxKey = "userID"
	ContextLocaleKey ctxKey = "locale"
)

func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if userID, ok := ctx.Value(ContextUserKey).(int64); ok {
		return userID
	}
	return 0
}

func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

// LocaleFromContext returns the request locale and whether one was negotiated.
func LocaleFromContext(ctx context.Context) (language.Tag, bool) {
	if ctx == nil {
		return language.Und, false
	}
	tag, ok := ctx.Value(ContextLocaleKey).(language.Tag)
	return tag, ok
}

func ContextWithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ContextLocaleKey, tag)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
