package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/version", s.handleVersion)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Tilt scores
	s.echo.GET("/api/tilt", s.handleLeaderboard)
	s.echo.GET("/api/tilt/:user", s.handleGetTilt)
	s.echo.POST("/api/signals", s.handleRecordSignal)
	s.echo.POST("/api/analyze", s.handleAnalyze)
	s.echo.POST("/api/reset", s.handleResetAll)
	s.echo.POST("/api/reset/:user", s.handleReset)
	s.echo.PUT("/api/sensitivity", s.handleSetSensitivity)
	s.echo.GET("/api/sensitivity", s.handleGetSensitivity)

	// Voice sessions
	s.echo.POST("/api/sessions", s.handleOpenSession)
	s.echo.DELETE("/api/sessions/:uuid", s.handleCloseSession)
	s.echo.POST("/api/sessions/:uuid/utterances", s.handleSubmitUtterance)

	// Live feed
	s.echo.GET("/ws/tilt", s.handleWebSocket)
}
