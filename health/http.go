package health

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap/zapcore"

	"dailydsa/logger"
)

const component = "HEALTH"

// NewRouter serves the liveness probe used by the hosting platform.
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "bot running"})
	})
	return r
}

// HTTPServer runs the liveness endpoint until ctx is cancelled.
type HTTPServer struct {
	srv    *http.Server
	logger *logger.Logger
}

func NewHTTPServer(port string, log *logger.Logger) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: log,
	}
}

// Serve listens until ctx is done, then shuts down gracefully.
func (h *HTTPServer) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", h.srv.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Log(zapcore.InfoLevel, "", "Health endpoint listening", map[string]any{"addr": h.srv.Addr}, component, nil)
		errCh <- h.srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return h.srv.Shutdown(shutdownCtx)
	}
}
