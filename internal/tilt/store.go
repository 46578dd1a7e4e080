package tilt

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// NeutralScore is the resting point every score decays toward.
	NeutralScore = 50.0
	// MinScore and MaxScore bound every score at all times.
	MinScore = 0.0
	MaxScore = 100.0

	// AlertThreshold is the score at or above which callers should raise a
	// user-facing alert.
	AlertThreshold = 90.0

	// DefaultDecayRate is the default decay speed in points per minute.
	DefaultDecayRate = 5.0

	maxTriggers      = 10
	maxTriggerLength = 50

	// maxSignalMagnitude caps a single incoming signal: the extractor bound
	// scaled by the highest sensitivity. Anything larger is a misbehaving
	// source and gets clamped rather than rejected.
	maxSignalMagnitude = 30.0
)

// Record is one user's tilt state. Copies returned by the store are
// detached; mutation happens only through store operations.
type Record struct {
	Score       float64
	LastUpdated time.Time
	Triggers    []string
}

// Store holds per-user tilt records. Decay-then-update for a user is applied
// under a single lock acquisition, so concurrent signals from the text and
// voice paths cannot corrupt the decay baseline or lose a trigger.
type Store struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	decayRate float64
	records   map[string]*Record
}

// NewStore creates a Store. decayRate is in points per minute; values <= 0
// fall back to DefaultDecayRate.
func NewStore(clock clockwork.Clock, decayRate float64) *Store {
	if decayRate <= 0 {
		decayRate = DefaultDecayRate
	}
	return &Store{
		clock:     clock,
		decayRate: decayRate,
		records:   make(map[string]*Record),
	}
}

// Update applies a signed magnitude to a user's score and returns the new
// score. Decay runs first. Positive magnitudes are scaled non-linearly by
// severity and amplified by the current score band; negative magnitudes are
// amplified the more tilted the user already is. A non-empty trigger is
// recorded for any non-zero magnitude.
func (s *Store) Update(userID string, magnitude float64, trigger string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(userID)
	s.applyDecay(rec)

	magnitude = clampMagnitude(magnitude)
	current := rec.Score

	switch {
	case magnitude > 0:
		final := severityScale(magnitude) * tiltMultiplier(current)
		rec.Score = min(MaxScore, current+final)
	case magnitude < 0:
		final := -magnitude * recoveryMultiplier(current)
		rec.Score = max(MinScore, current-final)
	}

	if magnitude != 0 && trigger != "" {
		rec.appendTrigger(trigger, magnitude < 0)
	}
	rec.LastUpdated = s.clock.Now()

	return rec.Score
}

// Decay applies time-based decay to a user's score and returns the current
// value. Unknown users are a no-op and report the neutral score.
func (s *Store) Decay(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return NeutralScore
	}
	s.applyDecay(rec)
	return rec.Score
}

// Get returns a user's current score, applying decay first. Reading an
// unknown user creates their record at the neutral score.
func (s *Store) Get(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(userID)
	s.applyDecay(rec)
	return rec.Score
}

// Snapshot returns a detached copy of a user's record, decay applied.
func (s *Store) Snapshot(userID string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(userID)
	s.applyDecay(rec)
	return rec.copy()
}

// All returns detached copies of every record, decay applied to each.
func (s *Store) All() map[string]Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Record, len(s.records))
	for id, rec := range s.records {
		s.applyDecay(rec)
		out[id] = rec.copy()
	}
	return out
}

// Reset reinitializes a user's record to the neutral defaults. Unknown users
// are a no-op.
func (s *Store) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; ok {
		s.records[userID] = s.newRecord()
	}
}

// ResetAll reinitializes every record to the neutral defaults.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.records {
		s.records[id] = s.newRecord()
	}
}

func (s *Store) newRecord() *Record {
	return &Record{Score: NeutralScore, LastUpdated: s.clock.Now()}
}

func (s *Store) getOrCreate(userID string) *Record {
	rec, ok := s.records[userID]
	if !ok {
		rec = s.newRecord()
		s.records[userID] = rec
	}
	return rec
}

// applyDecay drifts an elevated score toward neutral based on elapsed time.
// Scores at or below neutral never move. LastUpdated advances regardless so
// idle time is never counted twice. Caller must hold s.mu.
func (s *Store) applyDecay(rec *Record) {
	now := s.clock.Now()
	elapsedMinutes := now.Sub(rec.LastUpdated).Minutes()

	if rec.Score > NeutralScore {
		decay := min(elapsedMinutes*s.decayRate, rec.Score-NeutralScore)
		rec.Score = max(NeutralScore, rec.Score-decay)
	}
	rec.LastUpdated = now
}

func (r *Record) appendTrigger(text string, reducing bool) {
	runes := []rune(text)
	if len(runes) > maxTriggerLength {
		runes = runes[:maxTriggerLength]
	}
	entry := string(runes)
	if reducing {
		entry = "+" + entry
	}
	r.Triggers = append(r.Triggers, entry)
	if len(r.Triggers) > maxTriggers {
		r.Triggers = r.Triggers[len(r.Triggers)-maxTriggers:]
	}
}

func (r *Record) copy() Record {
	cp := Record{Score: r.Score, LastUpdated: r.LastUpdated}
	if len(r.Triggers) > 0 {
		cp.Triggers = make([]string, len(r.Triggers))
		copy(cp.Triggers, r.Triggers)
	}
	return cp
}

func clampMagnitude(m float64) float64 {
	if m > maxSignalMagnitude {
		return maxSignalMagnitude
	}
	if m < -maxSignalMagnitude {
		return -maxSignalMagnitude
	}
	return m
}

// severityScale dampens mild signals and amplifies severe ones, so noise
// barely registers while severe toxicity dominates quickly.
func severityScale(m float64) float64 {
	switch {
	case m <= 5:
		return m * 0.7
	case m <= 10:
		return m * 1.2
	case m <= 15:
		return m * 1.8
	default:
		return m * 2.5
	}
}

// tiltMultiplier escalates increases for already-tilted users.
func tiltMultiplier(score float64) float64 {
	switch {
	case score >= 80:
		return 1.5
	case score >= 70:
		return 1.3
	case score >= 60:
		return 1.15
	default:
		return 1.0
	}
}

// recoveryMultiplier makes calming signals more effective the more tilted
// the user currently is, to help de-escalation.
func recoveryMultiplier(score float64) float64 {
	switch {
	case score >= 80:
		return 1.8
	case score >= 70:
		return 1.5
	case score >= 60:
		return 1.2
	default:
		return 1.0
	}
}
