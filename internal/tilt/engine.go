package tilt

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/metrics"
)

// Sensitivity controls how strongly extracted magnitudes move scores.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Multiplier returns the scaling factor applied to extracted magnitudes.
func (s Sensitivity) Multiplier() float64 {
	switch s {
	case SensitivityLow:
		return 0.5
	case SensitivityHigh:
		return 1.5
	default:
		return 1.0
	}
}

// ParseSensitivity validates a sensitivity level from config or API input.
func ParseSensitivity(value string) (Sensitivity, error) {
	switch Sensitivity(value) {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
		return Sensitivity(value), nil
	}
	return "", fmt.Errorf("invalid sensitivity %q: must be low, medium, or high", value)
}

// SignalResult reports the outcome of one signal.
type SignalResult struct {
	UserID    string  `json:"user_id"`
	Magnitude int     `json:"magnitude"`
	Applied   float64 `json:"applied"`
	Score     float64 `json:"score"`
	Recorded  bool    `json:"recorded"`
	Limited   bool    `json:"limited"`
	Alert     bool    `json:"alert"`
}

// UserScore is one leaderboard entry.
type UserScore struct {
	UserID   string   `json:"user_id"`
	Score    float64  `json:"score"`
	Triggers []string `json:"triggers,omitempty"`
}

// Engine runs the signal pipeline: analyze text, scale by sensitivity, rate
// limit, then apply to the score store. The analyzer (and any classifier
// behind it) is called before the store is touched, so no lock is held
// across classifier latency.
type Engine struct {
	store    *Store
	analyzer *Analyzer
	limiter  *UserLimiter // nil disables rate limiting

	mu          sync.RWMutex
	sensitivity Sensitivity
	onAlert     func(userID string, score float64)
}

// NewEngine creates an Engine with the given collaborators. A nil limiter
// disables per-user rate limiting.
func NewEngine(store *Store, analyzer *Analyzer, limiter *UserLimiter, sensitivity Sensitivity) *Engine {
	if sensitivity == "" {
		sensitivity = SensitivityMedium
	}
	return &Engine{
		store:       store,
		analyzer:    analyzer,
		limiter:     limiter,
		sensitivity: sensitivity,
	}
}

// RecordSignal analyzes text and applies the resulting magnitude to the
// user's score. Zero magnitudes record nothing. Returns the outcome
// including whether the update crossed the alert threshold.
func (e *Engine) RecordSignal(ctx context.Context, userID, text string) SignalResult {
	magnitude := e.analyzer.Analyze(ctx, text)
	if magnitude == 0 {
		return SignalResult{UserID: userID, Score: e.store.Get(userID)}
	}
	return e.apply(userID, magnitude, text)
}

// RecordMagnitude applies an already-extracted magnitude, bypassing text
// analysis. Used by the voice path for audio-derived signals.
func (e *Engine) RecordMagnitude(userID string, magnitude int, trigger string) SignalResult {
	if magnitude == 0 {
		return SignalResult{UserID: userID, Score: e.store.Get(userID)}
	}
	return e.apply(userID, magnitude, trigger)
}

func (e *Engine) apply(userID string, magnitude int, trigger string) SignalResult {
	if e.limiter != nil && !e.limiter.Allow(userID) {
		metrics.SignalsRateLimited.Inc()
		return SignalResult{
			UserID:    userID,
			Magnitude: magnitude,
			Score:     e.store.Get(userID),
			Limited:   true,
		}
	}

	applied := float64(magnitude) * e.SensitivityLevel().Multiplier()
	score := e.store.Update(userID, applied, trigger)

	// Any recorded update that leaves the score at or above the threshold
	// alerts, calming ones included: a user still critical after de-escalation
	// is still worth surfacing.
	result := SignalResult{
		UserID:    userID,
		Magnitude: magnitude,
		Applied:   applied,
		Score:     score,
		Recorded:  true,
		Alert:     score >= AlertThreshold,
	}

	if applied > 0 {
		metrics.SignalsProcessed.WithLabelValues("tilt").Inc()
	} else {
		metrics.SignalsProcessed.WithLabelValues("calming").Inc()
	}
	if result.Alert {
		metrics.AlertsTriggered.Inc()
		slog.Warn("Critical tilt level reached", "user_id", userID, "score", score)
		e.mu.RLock()
		onAlert := e.onAlert
		e.mu.RUnlock()
		if onAlert != nil {
			onAlert(userID, score)
		}
	}

	return result
}

// SetAlertFunc registers a callback invoked whenever an update crosses the
// alert threshold. Used to resolve the wiring order between the engine and
// the broadcast hub; call before signals start flowing.
func (e *Engine) SetAlertFunc(fn func(userID string, score float64)) {
	e.mu.Lock()
	e.onAlert = fn
	e.mu.Unlock()
}

// Score returns a user's current score, decay applied.
func (e *Engine) Score(userID string) float64 {
	return e.store.Get(userID)
}

// Snapshot returns a user's record, decay applied.
func (e *Engine) Snapshot(userID string) Record {
	return e.store.Snapshot(userID)
}

// Leaderboard returns all tracked users sorted by score descending, decay
// applied to every entry.
func (e *Engine) Leaderboard() []UserScore {
	all := e.store.All()

	board := make([]UserScore, 0, len(all))
	for id, rec := range all {
		board = append(board, UserScore{UserID: id, Score: rec.Score, Triggers: rec.Triggers})
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Score != board[j].Score {
			return board[i].Score > board[j].Score
		}
		return board[i].UserID < board[j].UserID
	})
	return board
}

// Reset reinitializes one user's record.
func (e *Engine) Reset(userID string) {
	e.store.Reset(userID)
	slog.Info("Tilt score reset", "user_id", userID)
}

// ResetAll reinitializes every record.
func (e *Engine) ResetAll() {
	e.store.ResetAll()
	slog.Info("All tilt scores reset")
}

// SetSensitivity changes the process-wide sensitivity level.
func (e *Engine) SetSensitivity(s Sensitivity) {
	e.mu.Lock()
	e.sensitivity = s
	e.mu.Unlock()
	slog.Info("Sensitivity changed", "level", s)
}

// SensitivityLevel returns the current sensitivity level.
func (e *Engine) SensitivityLevel() Sensitivity {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sensitivity
}

// Analyzer exposes the engine's analyzer for read-only analysis endpoints.
func (e *Engine) Analyzer() *Analyzer {
	return e.analyzer
}
