package server

// levelDescription maps a score to the human-readable tilt level shown in
// API responses. Bands mirror the score multipliers in the engine.
func levelDescription(score float64) string {
	switch {
	case score < 30:
		return "Extremely calm and collected. Are they even playing?"
	case score < 50:
		return "Very chill. Nothing seems to bother this player."
	case score < 60:
		return "Normal gaming state. Focused but composed."
	case score < 70:
		return "Slightly annoyed. Starting to get frustrated."
	case score < 80:
		return "Definitely tilted. Patience wearing thin."
	case score < 90:
		return "Major tilt detected! They're getting really heated."
	default:
		return "CRITICAL TILT LEVELS! Keyboard/controller in danger!"
	}
}
