// Package api exposes the tracker over HTTP with gin.
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orowoletimothy/vane/internal/config"
	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/logger"
	"github.com/orowoletimothy/vane/internal/tracker"
)

// Handler serves the habit and user routes.
type Handler struct {
	svc *tracker.Service
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc *tracker.Service, cfg config.Server) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog())
	if len(cfg.AllowOrigins) > 0 {
		r.Use(CORS(cfg.AllowOrigins))
	}

	h := &Handler{svc: svc}
	r.GET("/health", h.Health)

	habits := r.Group("/users/habits/:userId")
	{
		habits.GET("/today", h.TodayHabits)
		habits.GET("/all", h.AllHabits)
		habits.GET("/analytics", h.Analytics)
		habits.POST("", h.CreateHabit)
		habits.POST("/feasibility", h.CheckFeasibility)
		habits.POST("/rollover", h.Rollover)
		habits.PUT("/:habitId", h.EditHabit)
		habits.DELETE("/:habitId", h.DeleteHabit)
		habits.PUT("/:habitId/status", h.SetStatus)
		habits.POST("/:habitId/progress", h.Progress)
		habits.GET("/:habitId/history", h.History)
	}

	users := r.Group("/users/:userId")
	{
		users.GET("", h.GetUser)
		users.PUT("/settings", h.UpdateSettings)
		users.POST("/mood", h.LogMood)
		users.GET("/mood/today", h.TodayMood)
		users.GET("/mood/history", h.MoodHistory)
	}
	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func Serve(ctx context.Context, svc *tracker.Service, cfg config.Server) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	return serve(ctx, ln, NewRouter(svc, cfg), cfg.ShutdownDuration())
}

func serve(ctx context.Context, ln net.Listener, handler http.Handler, grace time.Duration) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", ln.Addr().String(), "version", constants.Version)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server", "grace", grace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (h *Handler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if err := h.svc.Store().Ping(c.Request.Context()); err != nil {
		logger.Warn("Health check failed", "error", err)
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	respond(c, code, gin.H{"status": status, "version": constants.Version}, nil)
}
