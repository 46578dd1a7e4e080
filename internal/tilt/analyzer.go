package tilt

import (
	"context"
	"log/slog"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/metrics"
)

// minClassifierLength is the shortest text worth sending to the classifier;
// shorter fragments go straight to keyword extraction.
const minClassifierLength = 5

// Sentiment is a classifier verdict: a label and a confidence in [0, 1].
type Sentiment struct {
	Label      string
	Confidence float64
}

// LabelNegative is the classifier label that maps to a tilt increase. Any
// other label is treated as calming.
const LabelNegative = "NEGATIVE"

// Classifier is an optional external sentiment model. Implementations may
// take arbitrarily long; the analyzer never holds a score lock across a call.
type Classifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// Analyzer turns raw text into a signed magnitude, preferring the classifier
// when one is configured and falling back to keyword extraction otherwise.
type Analyzer struct {
	classifier Classifier
}

// NewAnalyzer creates an Analyzer. A nil classifier means keyword extraction
// is the sole signal source.
func NewAnalyzer(classifier Classifier) *Analyzer {
	return &Analyzer{classifier: classifier}
}

// HasClassifier reports whether an external classifier is configured.
func (a *Analyzer) HasClassifier() bool {
	return a.classifier != nil
}

// Analyze returns the signed magnitude for text. Classifier errors are an
// expected condition and degrade silently to the keyword path.
func (a *Analyzer) Analyze(ctx context.Context, text string) int {
	if a.classifier == nil || len(text) < minClassifierLength {
		return Extract(text)
	}

	sentiment, err := a.classifier.Classify(ctx, text)
	if err != nil {
		slog.Debug("Classifier unavailable, using keyword extraction", "error", err)
		metrics.ClassifierFallbacks.Inc()
		return Extract(text)
	}

	return MagnitudeFromSentiment(sentiment)
}

// MagnitudeFromSentiment converts a classifier verdict into a magnitude:
// negative sentiment scales confidence into [0, 20], anything else into
// [-15, 0].
func MagnitudeFromSentiment(s Sentiment) int {
	if s.Label == LabelNegative {
		return int(s.Confidence * 20)
	}
	return -int(s.Confidence * 15)
}
