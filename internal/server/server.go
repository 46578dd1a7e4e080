package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/config"
	apperrors "github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/errors"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/platform/correlation"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/tilt"
	"github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/voice"
	ws "github.com/MatthewLi-UW/voice-chat-emotion-detection/internal/websocket"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	engine    *tilt.Engine
	voice     *voice.Manager
	hub       *ws.Hub
	startTime time.Time
}

func NewServer(cfg *config.Config, engine *tilt.Engine, voiceMgr *voice.Manager, hub *ws.Hub) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(correlation.Middleware())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		engine:    engine,
		voice:     voiceMgr,
		hub:       hub,
		startTime: time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
