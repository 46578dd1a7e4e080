package server

import (
	"fmt"
	"math"

	"github.com/labstack/echo/v4"

	apperrors "github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/errors"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/tilt"
)

type tiltResponse struct {
	UserID   string   `json:"user_id"`
	Score    float64  `json:"score"`
	Level    string   `json:"level"`
	Triggers []string `json:"triggers"`
}

type signalRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type signalResponse struct {
	tilt.SignalResult
	Level string `json:"level"`
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Text                string `json:"text"`
	Magnitude           int    `json:"magnitude"`
	KeywordMagnitude    int    `json:"keyword_magnitude"`
	ClassifierAvailable bool   `json:"classifier_available"`
}

type sensitivityRequest struct {
	Level string `json:"level"`
}

func (s *Server) handleGetTilt(c echo.Context) error {
	userID := c.Param("user")
	if userID == "" {
		return apperrors.ValidationError("user is required")
	}

	rec := s.engine.Snapshot(userID)
	score := roundScore(rec.Score)

	return c.JSON(200, tiltResponse{
		UserID:   userID,
		Score:    score,
		Level:    levelDescription(score),
		Triggers: rec.Triggers,
	})
}

func (s *Server) handleLeaderboard(c echo.Context) error {
	board := s.engine.Leaderboard()

	out := make([]tiltResponse, 0, len(board))
	for _, entry := range board {
		score := roundScore(entry.Score)
		out = append(out, tiltResponse{
			UserID:   entry.UserID,
			Score:    score,
			Level:    levelDescription(score),
			Triggers: entry.Triggers,
		})
	}

	return c.JSON(200, map[string]any{"users": out})
}

func (s *Server) handleRecordSignal(c echo.Context) error {
	var req signalRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.UserID == "" {
		return apperrors.ValidationError("user_id is required")
	}
	if req.Text == "" {
		return apperrors.ValidationError("text is required")
	}

	result := s.engine.RecordSignal(c.Request().Context(), req.UserID, req.Text)
	if result.Limited {
		return apperrors.RateLimitedError("signal rate limit exceeded").
			WithField("user_id", req.UserID)
	}

	return c.JSON(200, signalResponse{
		SignalResult: result,
		Level:        levelDescription(result.Score),
	})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Text == "" {
		return apperrors.ValidationError("text is required")
	}

	analyzer := s.engine.Analyzer()
	return c.JSON(200, analyzeResponse{
		Text:                req.Text,
		Magnitude:           analyzer.Analyze(c.Request().Context(), req.Text),
		KeywordMagnitude:    tilt.Extract(req.Text),
		ClassifierAvailable: analyzer.HasClassifier(),
	})
}

func (s *Server) handleReset(c echo.Context) error {
	userID := c.Param("user")
	if userID == "" {
		return apperrors.ValidationError("user is required")
	}

	s.engine.Reset(userID)
	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleResetAll(c echo.Context) error {
	s.engine.ResetAll()
	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSetSensitivity(c echo.Context) error {
	var req sensitivityRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	level, err := tilt.ParseSensitivity(req.Level)
	if err != nil {
		return apperrors.ValidationError(err.Error())
	}

	s.engine.SetSensitivity(level)
	return c.JSON(200, map[string]string{"status": "ok", "level": string(level)})
}

func (s *Server) handleGetSensitivity(c echo.Context) error {
	return c.JSON(200, map[string]string{"level": string(s.engine.SensitivityLevel())})
}

// roundScore rounds to one decimal for presentation; internal arithmetic
// stays in full precision.
func roundScore(score float64) float64 {
	return math.Round(score*10) / 10
}
