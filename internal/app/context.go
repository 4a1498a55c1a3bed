package app

import "net/http"

type contextKey string

const userIdContextKey = contextKey("userId")

func (app *Application) contextGetUserId(r *http.Request) int {
	userId, ok := r.Context().Value(userIdContextKey).(int)
	if !ok {
		panic("missing user id from context")
	}

	return userId
}
