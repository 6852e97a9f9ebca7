// internal/web/server.go
package web

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"askdata/internal/assistant/interaction"
	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/logger"
)

const (
	SessionCookie = "askdata_session"
	localsSession = "session"
)

type Server struct {
	app        *fiber.App
	controller *interaction.Controller
	store      *interaction.SessionStore
	logger     logger.Logger
}

func New(controller *interaction.Controller, store *interaction.SessionStore, log logger.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "askdata",
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	s := &Server{
		app:        app,
		controller: controller,
		store:      store,
		logger:     log.WithFields(map[string]interface{}{"component": "web"}),
	}

	app.Use(recover.New())
	app.Get("/health", s.health)

	app.Use(s.sessionMiddleware)
	s.registerPageRoutes(app)
	s.registerAPIRoutes(app.Group("/api"))

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("web server listening", map[string]interface{}{"address": addr})
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "sessions": s.store.Count()})
}

// sessionMiddleware binds every request to exactly one browser session.
func (s *Server) sessionMiddleware(c *fiber.Ctx) error {
	sess, created := s.store.GetOrCreate(c.Cookies(SessionCookie))
	if created {
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals(localsSession, sess)
	return c.Next()
}

func sessionFrom(c *fiber.Ctx) *interaction.Session {
	return c.Locals(localsSession).(*interaction.Session)
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeInvalidRequest:
		return fiber.StatusBadRequest
	case apperrors.ErrCodeFeedbackNotAllowed:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

type errorBody struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
}

func writeError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(errorBody{
		Code:    apperrors.CodeOf(err),
		Message: apperrors.UserMessage(err),
	})
}

func errorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.WithError(err).Error("request failed", map[string]interface{}{
				"path":   c.Path(),
				"method": c.Method(),
			})
		}
		return c.Status(code).JSON(errorBody{Code: apperrors.ErrCodeInternal, Message: err.Error()})
	}
}
