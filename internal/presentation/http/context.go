package http

import (
	"context"

	"jobboard/app/internal/domain/accounts"
	"jobboard/app/internal/domain/jobs"
)

type contextKey string

const (
	requestIDContextKey contextKey = "jobboard/request-id"
	userContextKey      contextKey = "jobboard/user"
	sessionContextKey   contextKey = "jobboard/session-token"
)

// RequestIDFromContext extracts the request identifier from the context when available.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDContextKey).(string); ok {
		return value
	}
	return ""
}

// UserFromContext returns the user resolved from the session cookie, or nil.
func UserFromContext(ctx context.Context) *accounts.User {
	if ctx == nil {
		return nil
	}
	user, _ := ctx.Value(userContextKey).(*accounts.User)
	return user
}

func sessionTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(sessionContextKey).(string)
	return token
}

func actorFromContext(ctx context.Context) jobs.Actor {
	user := UserFromContext(ctx)
	if user == nil {
		return jobs.Actor{}
	}
	return jobs.Actor{UserID: user.ID, Admin: user.IsAdmin}
}
