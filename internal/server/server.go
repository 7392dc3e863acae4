package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/lumo-app/lumo/internal/itemstore"
)

// ItemStore is the storage the item procedures run against.
type ItemStore interface {
	List(ctx context.Context) ([]itemstore.Item, error)
	Get(ctx context.Context, id int64) (itemstore.Item, error)
	Create(ctx context.Context, in itemstore.CreateInput) (itemstore.Item, error)
	Update(ctx context.Context, in itemstore.UpdateInput) (itemstore.Item, error)
	Delete(ctx context.Context, id int64) error
}

var _ ItemStore = (*itemstore.Store)(nil)

// Server serves the sidecar API.
type Server struct {
	echo  *echo.Echo
	store ItemStore
	log   *slog.Logger
}

// New builds a Server over store. A nil logger means slog.Default().
func New(store ItemStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, store: store, log: logger}
	e.HTTPErrorHandler = s.handleError
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr and serves until Shutdown. It returns nil after a
// clean shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("server running", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	// The host webview calls the sidecar from its own origin.
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogMethod:  true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				s.log.Debug("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			s.log.Debug("request", attrs...)
			return nil
		},
	}))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.health)

	g := s.echo.Group("/rpc/item")
	g.POST("/list", s.listItems)
	g.POST("/get", s.getItem)
	g.POST("/create", s.createItem)
	g.POST("/update", s.updateItem)
	g.POST("/delete", s.deleteItem)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Message string `json:"message"`
}

// handleError maps store errors to status codes. Anything unexpected is
// logged and answered with 500.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, itemstore.ErrItemNotFound):
		code, msg = http.StatusNotFound, itemstore.ErrItemNotFound.Error()
	case errors.Is(err, itemstore.ErrInvalidItem):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		s.log.Error("RPC error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorBody{Message: msg})
	}
	if err != nil {
		s.log.Error("failed to write error response", "error", err)
	}
}
