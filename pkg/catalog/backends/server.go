// Package backends hosts the four demo backend services (recommendation,
// metadata, rating, user) as independently-started HTTP servers, each
// exposed to the lifecycle coordinator as a lifex.ServiceSpec.
package backends

import (
	"net"
	"sync"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/errx"
	"github.com/Abraxas-365/ensamble/pkg/logx"
	"github.com/Abraxas-365/ensamble/pkg/singlex"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// Server is one running backend: a fiber app bound to its listener. It
// implements lifex.ServiceHandle.
type Server struct {
	name      string
	addr      string
	app       *fiber.App
	term      *singlex.Single[singlex.Void]
	closeOnce sync.Once
	closeErr  error
}

// newApp builds a fiber app with the shared middleware and error handler.
func newApp(name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	return app
}

// StartServer binds addr, registers routes via register and serves in the
// background. Binding failures surface synchronously so the lifecycle
// coordinator can roll back; the returned Server's termination signal
// resolves once serving stops, however it stops.
func StartServer(name, addr string, register func(app *fiber.App)) (*Server, error) {
	app := newApp(name)
	register(app)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errx.Wrapf(err, errx.TypeInternal, "failed to bind %s for %s", addr, name)
	}

	srv := &Server{
		name: name,
		addr: ln.Addr().String(),
		app:  app,
		term: singlex.New[singlex.Void](),
	}
	go func() {
		if err := app.Listener(ln); err != nil {
			logx.WithField("service", name).WithError(err).Error("backend stopped with error")
		}
		srv.term.Complete(singlex.Void{})
	}()
	return srv, nil
}

// Name implements lifex.ServiceHandle.
func (s *Server) Name() string { return s.name }

// Addr is the address the server actually bound, useful when the
// configured address asked for port 0.
func (s *Server) Addr() string { return s.addr }

// Termination implements lifex.ServiceHandle. It resolves exactly once,
// when the server stops serving.
func (s *Server) Termination() *singlex.Single[singlex.Void] { return s.term }

// Close shuts the server down gracefully. Idempotent: repeat calls return
// the first result and trigger no second shutdown.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.app.ShutdownWithTimeout(shutdownTimeout)
	})
	return s.closeErr
}

// errorHandler renders errx errors as structured JSON, everything else as a
// plain 500.
func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error":      e.Message,
			"code":       "FIBER_ERROR",
			"request_id": requestID(c),
		})
	}

	var e *errx.Error
	if errx.As(err, &e) {
		response := fiber.Map{
			"error":      e.Message,
			"code":       e.Code,
			"type":       string(e.Type),
			"request_id": requestID(c),
		}
		if len(e.Details) > 0 {
			response["details"] = e.Details
		}
		return c.Status(e.HTTPStatus).JSON(response)
	}

	logx.WithError(err).Error("unhandled request error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      "Internal Server Error",
		"code":       "INTERNAL_ERROR",
		"request_id": requestID(c),
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}
