package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requireUserContext resolves the caller's identity. Authentication itself is
// handled upstream; the identity proxy forwards the authenticated user id in
// the X-User-Id header.
func (app *Application) requireUserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userId, err := strconv.Atoi(r.Header.Get("X-User-Id"))
		if err != nil || userId < 1 {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIdContextKey, userId)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}
