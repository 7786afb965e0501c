package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orowoletimothy/vane/internal/config"
	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/logger"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/storage/sqlite"
	"github.com/orowoletimothy/vane/internal/tracker"
)

// Monday 2026-03-02, 09:00 UTC.
var testNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *APIError       `json:"error"`
}

func setupRouter(t *testing.T, mutate func(*config.Config)) *gin.Engine {
	t.Helper()
	logger.Discard()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "vane.db"))
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	svc := tracker.New(store, cfg, tracker.WithClock(func() time.Time { return testNow }))
	r := NewRouter(svc, cfg.Server)

	rec := do(t, r, http.MethodPut, "/users/u1/settings", map[string]any{"timezone": "UTC"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func createHabit(t *testing.T, r http.Handler, body map[string]any) models.Habit {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/users/habits/u1", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var h models.Habit
	decode(t, rec, &h)
	return h
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(constants.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(constants.RequestIDHeader))
	env := decode(t, rec, nil)
	assert.Equal(t, "req-123", env.Meta["request_id"])
}

func TestRequestIDGenerated(t *testing.T) {
	r := setupRouter(t, nil)
	rec := do(t, r, http.MethodGet, "/health", nil)
	assert.Len(t, rec.Header().Get(constants.RequestIDHeader), 36)
}

func TestCreateAndListHabits(t *testing.T) {
	r := setupRouter(t, nil)

	h := createHabit(t, r, map[string]any{
		"title":           "Read",
		"target_count":    2,
		"recurrence_days": []string{"Mon", "Wed"},
		"reminder_time":   "07:30",
	})
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, constants.StatusIncomplete, h.Status)

	createHabit(t, r, map[string]any{
		"title":           "Tuesday run",
		"target_count":    1,
		"recurrence_days": []string{"Tue"},
	})

	var today []models.Habit
	rec := do(t, r, http.MethodGet, "/users/habits/u1/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec, &today)
	require.Len(t, today, 1)
	assert.Equal(t, "Read", today[0].Title)
	assert.EqualValues(t, 1, env.Meta["count"])

	var all []models.Habit
	rec = do(t, r, http.MethodGet, "/users/habits/u1/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &all)
	assert.Len(t, all, 2)
}

func TestCreateHabitErrors(t *testing.T) {
	r := setupRouter(t, nil)

	rec := do(t, r, http.MethodPost, "/users/habits/u1", map[string]any{"title": "", "target_count": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "title", env.Error.Field)

	req := httptest.NewRequest(http.MethodPost, "/users/habits/u1", bytes.NewBufferString("{not json"))
	raw := httptest.NewRecorder()
	r.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestCreateHabitNotFeasible(t *testing.T) {
	r := setupRouter(t, func(cfg *config.Config) { cfg.Feasibility.MaxActiveHabits = 1 })
	createHabit(t, r, map[string]any{"title": "Read", "target_count": 1})

	rec := do(t, r, http.MethodPost, "/users/habits/u1", map[string]any{"title": "Walk", "target_count": 1})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var result models.FeasibilityResult
	env := decode(t, rec, &result)
	require.NotNil(t, env.Error)
	assert.False(t, result.Feasible)
	assert.Equal(t, constants.ConfidenceLow, result.Confidence)
	assert.NotEmpty(t, result.Warnings)

	createHabit(t, r, map[string]any{"title": "Walk", "target_count": 1, "skipFeasibilityCheck": true})
}

func TestCheckFeasibility(t *testing.T) {
	r := setupRouter(t, nil)
	createHabit(t, r, map[string]any{"title": "Read", "target_count": 1, "reminder_time": "23:50"})

	rec := do(t, r, http.MethodPost, "/users/habits/u1/feasibility", map[string]any{
		"title":         "Meditate",
		"target_count":  1,
		"reminder_time": "00:05",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result models.FeasibilityResult
	decode(t, rec, &result)
	assert.True(t, result.Feasible)
	assert.Equal(t, constants.ConfidenceMedium, result.Confidence)
	require.Len(t, result.Metrics.TimeConflicts, 1)
	assert.Equal(t, 15, result.Metrics.TimeConflicts[0].TimeDifference)
}

func TestProgressAndStatus(t *testing.T) {
	r := setupRouter(t, nil)
	h := createHabit(t, r, map[string]any{"title": "Water", "target_count": 3})
	base := "/users/habits/u1/" + h.ID

	var got models.Habit
	rec := do(t, r, http.MethodPost, base+"/progress", map[string]any{"delta": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &got)
	assert.Equal(t, 3, got.CompletedToday)
	assert.Equal(t, constants.StatusComplete, got.Status)
	assert.Equal(t, 1, got.Streak)

	rec = do(t, r, http.MethodPost, base+"/progress", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, base+"/status", map[string]any{"status": "paused"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &got)
	assert.Equal(t, constants.StatusPaused, got.Status)

	rec = do(t, r, http.MethodPut, base+"/status", map[string]any{"status": "done"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditAndDeleteHabit(t *testing.T) {
	r := setupRouter(t, nil)
	h := createHabit(t, r, map[string]any{"title": "Read", "target_count": 1})
	path := "/users/habits/u1/" + h.ID

	var got models.Habit
	rec := do(t, r, http.MethodPut, path, map[string]any{"title": "Read fiction", "target_count": 2, "category": "education"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &got)
	assert.Equal(t, "Read fiction", got.Title)
	assert.Equal(t, "education", got.Category)

	rec = do(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, path+"/progress", map[string]any{"delta": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOtherUsersHabitIsNotFound(t *testing.T) {
	r := setupRouter(t, nil)
	h := createHabit(t, r, map[string]any{"title": "Read", "target_count": 1})

	rec := do(t, r, http.MethodPost, "/users/habits/u2/"+h.ID+"/progress", map[string]any{"delta": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryAndAnalytics(t *testing.T) {
	r := setupRouter(t, nil)
	h := createHabit(t, r, map[string]any{"title": "Read", "target_count": 1})

	rec := do(t, r, http.MethodGet, "/users/habits/u1/"+h.ID+"/history?days=30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.HistoryStats
	decode(t, rec, &stats)
	assert.Equal(t, 30, stats.WindowDays)
	assert.False(t, stats.HasHistory())

	rec = do(t, r, http.MethodGet, "/users/habits/u1/"+h.ID+"/history?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, r, http.MethodGet, "/users/habits/u1/"+h.ID+"/history?days=9999", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/users/habits/u1/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var a models.Analytics
	decode(t, rec, &a)
	assert.Len(t, a.Weekdays, 7)
	assert.Len(t, a.TimesOfDay, 4)
}

func TestRollover(t *testing.T) {
	r := setupRouter(t, nil)
	createHabit(t, r, map[string]any{"title": "Read", "target_count": 1})

	rec := do(t, r, http.MethodPost, "/users/habits/u1/rollover", map[string]any{"date": "2026-03-02"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report tracker.RolloverReport
	decode(t, rec, &report)
	assert.Equal(t, 1, report.DaysClosed)

	rec = do(t, r, http.MethodPost, "/users/habits/u1/rollover", map[string]any{"date": "2026-04-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/users/habits/u1/rollover", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsersAndMood(t *testing.T) {
	r := setupRouter(t, nil)

	var u models.User
	rec := do(t, r, http.MethodGet, "/users/u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &u)
	assert.Equal(t, "UTC", u.Timezone)

	rec = do(t, r, http.MethodGet, "/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPut, "/users/u1/settings", map[string]any{"is_vacation": true})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &u)
	assert.True(t, u.VacationMode)
	assert.Equal(t, "UTC", u.Timezone)

	rec = do(t, r, http.MethodGet, "/users/u1/mood/today", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/users/u1/mood", map[string]any{"mood": "good", "motivation": 4})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var entry models.MoodEntry
	rec = do(t, r, http.MethodGet, "/users/u1/mood/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &entry)
	assert.Equal(t, "2026-03-02", entry.Day)

	var entries []models.MoodEntry
	rec = do(t, r, http.MethodGet, "/users/u1/mood/history?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &entries)
	assert.Len(t, entries, 1)

	rec = do(t, r, http.MethodPost, "/users/u1/mood", map[string]any{"mood": "good", "motivation": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS(t *testing.T) {
	r := setupRouter(t, func(cfg *config.Config) {
		cfg.Server.AllowOrigins = []string{"http://localhost:5173"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	logger.Discard()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, http.NotFoundHandler(), time.Second)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
