package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/oliveiraenergia/oilsample/internal/domain"
	"github.com/oliveiraenergia/oilsample/internal/samples"
	"github.com/oliveiraenergia/oilsample/internal/shared/middleware"
)

//go:embed static/*
var staticFiles embed.FS

// SampleService is the workflow the form drives.
type SampleService interface {
	NewForm() domain.Form
	Lookup(ctx context.Context, number string) (*samples.LookupResult, error)
	Submit(ctx context.Context, form domain.Form) (*samples.SubmitResult, error)
	Report(ctx context.Context, number string) ([]byte, error)
}

type Server struct {
	router          *http.ServeMux
	handler         http.Handler
	port            int
	title           string
	shutdownTimeout time.Duration
	service         SampleService
	logger          *zap.Logger
}

const DefaultTitle = "Oliveira Energia - Registro de coleta de amostra de óleo"

func NewServer(port int, service SampleService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:          http.NewServeMux(),
		port:            port,
		title:           DefaultTitle,
		shutdownTimeout: 5 * time.Second,
		service:         service,
		logger:          logger,
	}
	s.setupRoutes()
	s.handler = middleware.Chain(s.router,
		middleware.RequestID,
		middleware.HTMX,
		middleware.Logger(logger),
		middleware.Recover(logger),
	)
	return s
}

// WithShutdownTimeout bounds how long Start waits for in-flight requests.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	if d > 0 {
		s.shutdownTimeout = d
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) setupRoutes() {
	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	s.router.HandleFunc("GET /{$}", s.handleIndex)

	// Samples
	s.router.HandleFunc("GET /samples/lookup", s.handleLookup)
	s.router.HandleFunc("POST /samples", s.handleSubmit)
	s.router.HandleFunc("GET /samples/{number}/report.pdf", s.handleReport)
}

// Start listens on the configured port and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled, then waits up to the
// shutdown timeout for in-flight requests to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", zap.String("url", "http://"+ln.Addr().String()))

	// Handle graceful shutdown
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
		case <-stop:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", zap.Error(err))
		}
	}()

	err := server.Serve(ln)
	if err == http.ErrServerClosed {
		<-done
		return nil // Graceful shutdown
	}
	close(stop)
	<-done
	return err
}
