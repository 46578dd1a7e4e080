package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/config"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/tilt"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/voice"
	ws "github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/websocket"
)

type testServer struct {
	srv    *Server
	engine *tilt.Engine
	clock  *clockwork.FakeClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clock := clockwork.NewFakeClock()
	store := tilt.NewStore(clock, tilt.DefaultDecayRate)
	engine := tilt.NewEngine(store, tilt.NewAnalyzer(nil), nil, tilt.SensitivityMedium)

	voiceMgr := voice.NewManager(engine)
	t.Cleanup(voiceMgr.Shutdown)

	hub := ws.NewHub(engine, clock)
	t.Cleanup(hub.Stop)

	cfg := &config.Config{Port: "0"}
	srv := NewServer(cfg, engine, voiceMgr, hub)

	return &testServer{srv: srv, engine: engine, clock: clock}
}

func (ts *testServer) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	ts.srv.echo.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// --- Tilt Endpoints ---

func TestHandleGetTilt_NewUser(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/tilt/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tiltResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "alice", resp.UserID)
	assert.Equal(t, 50.0, resp.Score)
	assert.Equal(t, "Normal gaming state. Focused but composed.", resp.Level)
	assert.Empty(t, resp.Triggers)
}

func TestHandleRecordSignal(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPost, "/api/signals",
		`{"user_id": "alice", "text": "this is garbage"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp signalResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "alice", resp.UserID)
	assert.Equal(t, 6, resp.Magnitude)
	assert.True(t, resp.Recorded)
	assert.InDelta(t, 57.2, resp.Score, 1e-9)
	assert.False(t, resp.Alert)
}

func TestHandleRecordSignal_Validation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"text": "hello"}`},
		{"missing text", `{"user_id": "alice"}`},
		{"malformed json", `{"user_id": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.request(t, http.MethodPost, "/api/signals", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleRecordSignal_RateLimited(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := tilt.NewStore(clock, tilt.DefaultDecayRate)
	limiter := tilt.NewUserLimiter(1, 1)
	engine := tilt.NewEngine(store, tilt.NewAnalyzer(nil), limiter, tilt.SensitivityMedium)

	voiceMgr := voice.NewManager(engine)
	t.Cleanup(voiceMgr.Shutdown)
	hub := ws.NewHub(engine, clock)
	t.Cleanup(hub.Stop)

	srv := NewServer(&config.Config{Port: "0"}, engine, voiceMgr, hub)
	ts := &testServer{srv: srv, engine: engine, clock: clock}

	body := `{"user_id": "alice", "text": "this is garbage"}`
	first := ts.request(t, http.MethodPost, "/api/signals", body)
	require.Equal(t, http.StatusOK, first.Code)

	second := ts.request(t, http.MethodPost, "/api/signals", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestHandleLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	ts.engine.RecordMagnitude("hot", 20, "rage")
	ts.engine.RecordMagnitude("calm", -5, "nice")

	rec := ts.request(t, http.MethodGet, "/api/tilt", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Users []tiltResponse `json:"users"`
	}
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "hot", resp.Users[0].UserID)
	assert.Equal(t, "calm", resp.Users[1].UserID)
}

func TestHandleAnalyze(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPost, "/api/analyze", `{"text": "this is garbage"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 6, resp.Magnitude)
	assert.Equal(t, 6, resp.KeywordMagnitude)
	assert.False(t, resp.ClassifierAvailable)

	// Analysis must not touch any score.
	assert.Equal(t, 50.0, ts.engine.Score("alice"))
}

func TestHandleReset(t *testing.T) {
	ts := newTestServer(t)
	ts.engine.RecordMagnitude("alice", 20, "rage")
	require.Greater(t, ts.engine.Score("alice"), 50.0)

	rec := ts.request(t, http.MethodPost, "/api/reset/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50.0, ts.engine.Score("alice"))
}

func TestHandleResetAll(t *testing.T) {
	ts := newTestServer(t)
	ts.engine.RecordMagnitude("alice", 20, "x")
	ts.engine.RecordMagnitude("bob", 20, "y")

	rec := ts.request(t, http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50.0, ts.engine.Score("alice"))
	assert.Equal(t, 50.0, ts.engine.Score("bob"))
}

// --- Sensitivity Endpoints ---

func TestHandleSensitivity(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/sensitivity", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "medium", resp["level"])

	rec = ts.request(t, http.MethodPut, "/api/sensitivity", `{"level": "high"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tilt.SensitivityHigh, ts.engine.SensitivityLevel())
}

func TestHandleSetSensitivity_InvalidLevel(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPut, "/api/sensitivity", `{"level": "extreme"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, tilt.SensitivityMedium, ts.engine.SensitivityLevel())
}

// --- Session Endpoints ---

func TestHandleSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	decodeJSON(t, rec, &created)
	id, err := uuid.Parse(created["session_uuid"])
	require.NoError(t, err)

	rec = ts.request(t, http.MethodDelete, "/api/sessions/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.request(t, http.MethodDelete, "/api/sessions/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCloseSession_InvalidUUID(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.request(t, http.MethodDelete, "/api/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSubmitUtterance(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]string
	decodeJSON(t, rec, &created)

	path := fmt.Sprintf("/api/sessions/%s/utterances", created["session_uuid"])
	rec = ts.request(t, http.MethodPost, path, `{"user_id": "alice", "text": "this is garbage"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHandleSubmitUtterance_Validation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]string
	decodeJSON(t, rec, &created)
	path := fmt.Sprintf("/api/sessions/%s/utterances", created["session_uuid"])

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing user_id", `{"text": "hello"}`, http.StatusBadRequest},
		{"neither text nor features", `{"user_id": "alice"}`, http.StatusBadRequest},
		{"features only is valid", `{"user_id": "alice", "features": {"amplitude": 0.9}}`, http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.request(t, http.MethodPost, path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleSubmitUtterance_UnknownSession(t *testing.T) {
	ts := newTestServer(t)

	path := fmt.Sprintf("/api/sessions/%s/utterances", uuid.New())
	rec := ts.request(t, http.MethodPost, path, `{"user_id": "alice", "text": "hello"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Observability Endpoints ---

func TestHandleLiveness(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
}

func TestHandleVersion(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "dev", resp["version"])
	assert.NotEmpty(t, resp["go_version"])
}

func TestHandleMetrics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- Presentation Tests ---

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 56.3, roundScore(56.25))
	assert.Equal(t, 50.0, roundScore(50))
	assert.Equal(t, 99.9, roundScore(99.94))
}

func TestLevelDescription_Bands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{10, "Extremely calm and collected. Are they even playing?"},
		{45, "Very chill. Nothing seems to bother this player."},
		{55, "Normal gaming state. Focused but composed."},
		{65, "Slightly annoyed. Starting to get frustrated."},
		{75, "Definitely tilted. Patience wearing thin."},
		{85, "Major tilt detected! They're getting really heated."},
		{95, "CRITICAL TILT LEVELS! Keyboard/controller in danger!"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("score_%v", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, levelDescription(tt.score))
		})
	}
}
