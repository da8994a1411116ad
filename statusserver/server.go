// Package statusserver exposes the state of a running simulation over HTTP.
package statusserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/slon/library/library"
)

// Ключ для хранения logger в gin.Context
const loggerKey = "logger"

const shutdownTimeout = 5 * time.Second

// StateSource is implemented by library.Library.
type StateSource interface {
	Snapshot() library.Snapshot
	MaxReaders() int
}

type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// New builds a server listening on addr. Metrics are served from gatherer.
func New(addr string, state StateSource, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      NewHandler(state, gatherer, logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// NewHandler returns the router with all status endpoints.
func NewHandler(state StateSource, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	router := gin.New()
	// Recovery middleware должен быть первым
	router.Use(recoveryMiddleware(logger))
	router.Use(slogMiddleware(logger))

	router.GET("/pong", pongHandler)
	router.GET("/state", stateHandler(state))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return router
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting status server", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("status server failed", "error", err)
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down status server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("status server shutdown error", "error", err)
		return err
	}
	s.logger.Info("status server stopped")
	return <-errCh
}

func pongHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func stateHandler(state StateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		getLogger(c).Debug("state request")
		c.JSON(http.StatusOK, gin.H{
			"max_readers": state.MaxReaders(),
			"state":       state.Snapshot(),
		})
	}
}

// slogMiddleware логирует запросы через slog и кладёт logger в контекст
func slogMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(loggerKey, logger)

		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Debug("request processed",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// recoveryMiddleware обрабатывает паники и возвращает 500 ошибку
func recoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		getLogger(c, logger).Error("panic recovered",
			"error", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// getLogger извлекает logger из gin.Context
func getLogger(c *gin.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, exists := c.Get(loggerKey); exists {
		if l, ok := logger.(*slog.Logger); ok {
			return l
		}
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}
