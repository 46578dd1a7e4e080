package tilt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_SingleTiltKeyword(t *testing.T) {
	assert.Equal(t, 6, Extract("you are trash"))
}

func TestExtract_CalmingPhrases(t *testing.T) {
	assert.Equal(t, -7, Extract("good job, well played"))
}

func TestExtract_ShoutingAndPunctuation(t *testing.T) {
	// No keyword matches: all-caps +5, repeated punctuation +3.
	assert.Equal(t, 8, Extract("AAAAAAA!!!!"))
}

func TestExtract_EmptyString(t *testing.T) {
	assert.Equal(t, 0, Extract(""))
}

func TestExtract_NeutralText(t *testing.T) {
	assert.Equal(t, 0, Extract("heading mid after this wave"))
}

func TestExtract_CaseInsensitiveMatching(t *testing.T) {
	assert.Equal(t, Extract("this team is garbage"), Extract("THIS TEAM IS GARBAGE")-5,
		"uppercase variant should only differ by the shouting bonus")
	assert.Equal(t, 6, Extract("GaRbAgE in chat"))
}

func TestExtract_RepeatedMatchesAccumulate(t *testing.T) {
	// Each non-overlapping match contributes its weight.
	assert.Equal(t, 12, Extract("trash team, trash jungler"))
}

func TestExtract_MixedSignalsSum(t *testing.T) {
	// trash (+6) against well played (-4).
	assert.Equal(t, 2, Extract("trash game but well played"))
}

func TestExtract_HeuristicsGatedOnNegativeRaw(t *testing.T) {
	// Calming content stays calming even when shouted with emphasis.
	got := Extract("WELL PLAYED!!!")
	assert.Equal(t, -4, got, "shouting and punctuation bonuses must not apply when raw is negative")
}

func TestExtract_ShoutingRequiresMinimumLength(t *testing.T) {
	// Short all-caps fragments ("GG", "OK") are not shouting.
	assert.Equal(t, 0, Extract("OK"))
	assert.Equal(t, 3, Extract("WHY"), "length 3 gets keyword weight but no caps bonus")
}

func TestExtract_ShoutingRequiresLetters(t *testing.T) {
	assert.Equal(t, 0, Extract("12345678"))
	assert.Equal(t, 3, Extract("????????"), "punctuation bonus only, no caps bonus without letters")
}

func TestExtract_RepeatedPunctuationThreshold(t *testing.T) {
	assert.Equal(t, 0, Extract("is that so!!"), "two marks is below the threshold")
	assert.Equal(t, 3, Extract("is that so!!!"))
	assert.Equal(t, 3, Extract("is that so?!?"))
}

func TestExtract_ClampsToUpperBound(t *testing.T) {
	text := strings.Repeat("garbage trash idiot ", 5)
	assert.Equal(t, MaxMagnitude, Extract(text))
}

func TestExtract_ClampsToLowerBound(t *testing.T) {
	text := strings.Repeat("well played great call ", 5)
	assert.Equal(t, MinMagnitude, Extract(text))
}

func TestExtract_ProfanityVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"wtf", "wtf was that", 6},
		{"what the hell", "what the hell was that", 7},
		{"uninstall", "just uninstall", 8},
		{"role diff", "jungle diff again", 5},
		{"hacker", "he is a hacker", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestExtract_WordBoundariesRespected(t *testing.T) {
	// "trashcan" must not match the "trash" rule.
	assert.Equal(t, 0, Extract("put it in the trashcan"))
	// "opponent" must not match the "op" rule.
	assert.Equal(t, 0, Extract("the opponent rotated"))
}
