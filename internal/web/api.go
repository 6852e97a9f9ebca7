// internal/web/api.go
package web

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/validation"
)

type askRequest struct {
	Question    string   `json:"question"`
	Temperature *float64 `json:"temperature"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

func (s *Server) registerAPIRoutes(api fiber.Router) {
	api.Post("/ask", s.apiAsk)
	api.Post("/feedback", s.apiFeedback)
	api.Post("/clear", s.apiClear)
	api.Get("/session", s.apiSession)
}

// decode validates body against schema before unmarshalling into dst.
func decode(body []byte, schema validation.JSONSchema, dst interface{}) error {
	if res := validation.ValidateJSON(body, schema); !res.Valid {
		return apperrors.NewInvalidRequestError(res.Error())
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return nil
}

func (s *Server) apiAsk(c *fiber.Ctx) error {
	var req askRequest
	if err := decode(c.Body(), validation.AskRequestSchema, &req); err != nil {
		return writeError(c, err)
	}

	sess := sessionFrom(c)
	temperature := sess.Snapshot().Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	view, err := s.controller.Submit(c.UserContext(), sess, req.Question, temperature)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

func (s *Server) apiFeedback(c *fiber.Ctx) error {
	var req feedbackRequest
	body := c.Body()
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := decode(body, validation.FeedbackRequestSchema, &req); err != nil {
		return writeError(c, err)
	}

	view, err := s.controller.SubmitFeedback(c.UserContext(), sessionFrom(c), req.Feedback)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

func (s *Server) apiClear(c *fiber.Ctx) error {
	return c.JSON(s.controller.Clear(c.UserContext(), sessionFrom(c)))
}

func (s *Server) apiSession(c *fiber.Ctx) error {
	return c.JSON(sessionFrom(c).Snapshot())
}
