package voice

// Thresholds for acoustic tilt indicators. These mirror the heuristics the
// transcriber may report alongside an utterance; transcribers that do no
// audio analysis simply omit the features.
const (
	amplitudeThreshold    = 0.7
	speakingRateThreshold = 3.5
	interruptionThreshold = 2

	amplitudeScore    = 5
	speakingRateScore = 3
	interruptionScore = 4
)

// AudioFeatures are acoustic measurements for one utterance, as reported by
// the external audio pipeline.
type AudioFeatures struct {
	Amplitude     float64 `json:"amplitude"`
	SpeakingRate  float64 `json:"speaking_rate"`
	Interruptions int     `json:"interruptions"`
}

// Magnitude converts acoustic indicators into a tilt magnitude: loud volume,
// fast speech, and interrupting others each contribute a fixed score.
func (f AudioFeatures) Magnitude() int {
	magnitude := 0
	if f.Amplitude > amplitudeThreshold {
		magnitude += amplitudeScore
	}
	if f.SpeakingRate > speakingRateThreshold {
		magnitude += speakingRateScore
	}
	if f.Interruptions >= interruptionThreshold {
		magnitude += interruptionScore
	}
	return magnitude
}
