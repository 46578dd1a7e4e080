// Package classifier provides the optional external sentiment model client.
//
// The model is a black box reached over HTTP: it receives a text and returns
// a label plus a confidence. Failures are expected (the engine falls back to
// keyword extraction), so calls are wrapped in a circuit breaker to stop
// hammering a dead endpoint, with one retry for transient errors.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/metrics"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/platform/retry"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/tilt"
)

const (
	defaultTimeout = 2 * time.Second
	maxAttempts    = 2
	initialBackoff = 100 * time.Millisecond
)

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"score"`
}

// HTTPClassifier calls a sentiment inference endpoint. Implements
// tilt.Classifier.
type HTTPClassifier struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

var _ tilt.Classifier = (*HTTPClassifier)(nil)

// New creates an HTTPClassifier for the given endpoint URL. timeout <= 0
// falls back to a 2-second default.
func New(url string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "classifier",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Classifier circuit breaker state changed", "from", from.String(), "to", to.String())
			metrics.ClassifierBreakerState.Set(stateToFloat(to))
		},
	})

	return &HTTPClassifier{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

// Classify sends text to the inference endpoint and returns its verdict.
// Any failure (network, non-2xx, open breaker) is returned as an error; the
// caller treats that as "classifier unavailable" and falls back.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (tilt.Sentiment, error) {
	policy := retry.Policy{
		MaxAttempts:    maxAttempts,
		InitialBackoff: initialBackoff,
	}

	sentiment, err := retry.Do(ctx, policy, classifyErrorAction, func() (tilt.Sentiment, error) {
		start := time.Now()
		result, err := c.breaker.Execute(func() (any, error) {
			return c.classifyOnce(ctx, text)
		})
		metrics.ClassifierDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.ClassifierRequests.WithLabelValues(outcomeLabel(err)).Inc()
			return tilt.Sentiment{}, err
		}
		metrics.ClassifierRequests.WithLabelValues("ok").Inc()
		return result.(tilt.Sentiment), nil
	})
	if err != nil {
		return tilt.Sentiment{}, err
	}
	return sentiment, nil
}

func (c *HTTPClassifier) classifyOnce(ctx context.Context, text string) (tilt.Sentiment, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return tilt.Sentiment{}, fmt.Errorf("failed to encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return tilt.Sentiment{}, fmt.Errorf("failed to build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return tilt.Sentiment{}, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tilt.Sentiment{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return tilt.Sentiment{}, fmt.Errorf("failed to decode classify response: %w", err)
	}
	if parsed.Confidence < 0 || parsed.Confidence > 1 {
		return tilt.Sentiment{}, fmt.Errorf("classifier confidence %f out of range", parsed.Confidence)
	}

	return tilt.Sentiment{Label: parsed.Label, Confidence: parsed.Confidence}, nil
}

// classifyErrorAction retries transient failures but gives up immediately
// when the breaker is open, so the keyword fallback kicks in without delay.
func classifyErrorAction(err error) retry.Action {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return retry.Stop
	}
	return retry.Retry
}

func outcomeLabel(err error) string {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return "open"
	}
	return "error"
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
