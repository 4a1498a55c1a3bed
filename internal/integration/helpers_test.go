package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ozanyurtsever/quickshow/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func userHeader(userId int) map[string]string {
	return map[string]string{"X-User-Id": strconv.Itoa(userId)}
}

func jsonBody(t testing.TB, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func executeSQLFile(t testing.TB, db *pgxpool.Pool, path string) {
	t.Helper()

	script, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), string(script))
	require.NoError(t, err)
}

func resetState(t testing.TB, app *TestApp) {
	t.Helper()

	executeSQLFile(t, app.DB, "testdata/seed_down.sql")
	executeSQLFile(t, app.DB, "testdata/seed_up.sql")

	require.NoError(t, app.App.FlushScheduledTasks(context.Background()))
}

// createBooking drives the whole happy path over HTTP and returns the created
// booking's id.
func createBooking(t testing.TB, app *TestApp, userId, showId int, seats []string) api.CreateBookingResponse {
	t.Helper()

	req, err := prepareRequest(http.MethodPost, "/bookings",
		jsonBody(t, api.CreateBookingRequest{ShowId: showId, SelectedSeats: seats}),
		userHeader(userId))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, "create booking failed: %s", rec.Body.String())

	var resp api.CreateBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	return resp
}

func bookingStatus(t testing.TB, db *pgxpool.Pool, bookingId string) (string, bool) {
	t.Helper()

	id, err := uuid.Parse(bookingId)
	require.NoError(t, err)

	var status string
	err = db.QueryRow(context.Background(), "SELECT status FROM bookings WHERE id = $1", id).Scan(&status)
	if err != nil {
		return "", false
	}

	return status, true
}

func bookingSessionId(t testing.TB, db *pgxpool.Pool, bookingId string) string {
	t.Helper()

	id, err := uuid.Parse(bookingId)
	require.NoError(t, err)

	var sessionId string
	err = db.QueryRow(context.Background(),
		"SELECT checkout_session_id FROM bookings WHERE id = $1", id).Scan(&sessionId)
	require.NoError(t, err)

	return sessionId
}

func decimalFromString(t testing.TB, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	require.NoError(t, err)

	return d
}

func occupiedSeats(t testing.TB, db *pgxpool.Pool, showId int) map[string]int {
	t.Helper()

	var raw []byte
	err := db.QueryRow(context.Background(),
		"SELECT occupied_seats FROM shows WHERE id = $1", showId).Scan(&raw)
	require.NoError(t, err)

	seats := make(map[string]int)
	require.NoError(t, json.Unmarshal(raw, &seats))

	return seats
}
