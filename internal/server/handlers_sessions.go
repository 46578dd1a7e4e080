package server

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/errors"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/voice"
)

func (s *Server) handleOpenSession(c echo.Context) error {
	id := s.voice.Open()
	return c.JSON(201, map[string]string{"session_uuid": id.String()})
}

func (s *Server) handleCloseSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		return apperrors.ValidationError("invalid session UUID").WithField("uuid", c.Param("uuid"))
	}

	if !s.voice.Close(id) {
		return apperrors.NotFoundError("session not found").WithField("session_uuid", id.String())
	}
	return c.JSON(200, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmitUtterance(c echo.Context) error {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		return apperrors.ValidationError("invalid session UUID").WithField("uuid", c.Param("uuid"))
	}

	var utterance voice.Utterance
	if err := c.Bind(&utterance); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if utterance.UserID == "" {
		return apperrors.ValidationError("user_id is required")
	}
	if utterance.Text == "" && utterance.Features == nil {
		return apperrors.ValidationError("text or features is required")
	}

	switch err := s.voice.Submit(id, utterance); {
	case errors.Is(err, voice.ErrSessionNotFound):
		return apperrors.NotFoundError("session not found").WithField("session_uuid", id.String())
	case errors.Is(err, voice.ErrQueueFull):
		return apperrors.RateLimitedError("session queue full").WithField("session_uuid", id.String())
	case err != nil:
		return apperrors.InternalError("failed to queue utterance", err)
	}

	return c.JSON(202, map[string]string{"status": "queued"})
}
