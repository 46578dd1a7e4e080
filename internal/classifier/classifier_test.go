package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/tilt"
)

func fakeEndpoint(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestClassify_Success(t *testing.T) {
	server := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "this is garbage", req.Text)

		json.NewEncoder(w).Encode(classifyResponse{Label: "NEGATIVE", Confidence: 0.93})
	})

	c := New(server.URL, time.Second)
	sentiment, err := c.Classify(context.Background(), "this is garbage")
	require.NoError(t, err)
	assert.Equal(t, tilt.Sentiment{Label: "NEGATIVE", Confidence: 0.93}, sentiment)
}

func TestClassify_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(classifyResponse{Label: "POSITIVE", Confidence: 0.8})
	})

	c := New(server.URL, time.Second)
	sentiment, err := c.Classify(context.Background(), "good game everyone")
	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", sentiment.Label)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClassify_ErrorAfterExhaustedRetries(t *testing.T) {
	server := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := New(server.URL, time.Second)
	_, err := c.Classify(context.Background(), "whatever")
	assert.Error(t, err)
}

func TestClassify_RejectsOutOfRangeConfidence(t *testing.T) {
	server := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classifyResponse{Label: "NEGATIVE", Confidence: 3.5})
	})

	c := New(server.URL, time.Second)
	_, err := c.Classify(context.Background(), "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestClassify_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	server := fakeEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := New(server.URL, time.Second)

	// Each Classify makes up to 2 attempts; three calls push the breaker past
	// its 5-consecutive-failure trip point.
	for i := 0; i < 3; i++ {
		_, err := c.Classify(context.Background(), "whatever")
		require.Error(t, err)
	}

	tripped := calls.Load()
	_, err := c.Classify(context.Background(), "whatever")
	assert.Error(t, err)
	assert.Equal(t, tripped, calls.Load(), "an open breaker must not hit the endpoint")
}

func TestClassify_UnreachableEndpoint(t *testing.T) {
	c := New("http://127.0.0.1:1/classify", 100*time.Millisecond)
	_, err := c.Classify(context.Background(), "whatever")
	assert.Error(t, err)
}
