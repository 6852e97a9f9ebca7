// internal/web/pages.go
package web

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"askdata/internal/assistant/interaction"
	translateprompt "askdata/internal/assistant/translate-prompt"
	apperrors "askdata/internal/common/errors"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"cell": interaction.FormatCell,
}).ParseFS(templateFS, "templates/page.html"))

type pageData struct {
	Session         interaction.SessionSnapshot
	Temperature     float64
	MinTemperature  float64
	MaxTemperature  float64
	View            *interaction.SubmitView
	ChartSVG        template.HTML
	FeedbackMessage string
	Error           string
}

func (d pageData) AwaitingFeedback() bool {
	return d.Session.Phase == interaction.PhaseAwaitingFeedback
}

func (s *Server) registerPageRoutes(app *fiber.App) {
	app.Get("/", s.index)
	app.Post("/ask", s.ask)
	app.Post("/feedback", s.feedback)
	app.Post("/clear", s.clear)
}

func newPageData(snap interaction.SessionSnapshot) pageData {
	return pageData{
		Session:        snap,
		Temperature:    snap.Temperature,
		MinTemperature: translateprompt.MinTemperature,
		MaxTemperature: translateprompt.MaxTemperature,
	}
}

func (s *Server) render(c *fiber.Ctx, status int, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func (s *Server) index(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, newPageData(sessionFrom(c).Snapshot()))
}

func (s *Server) ask(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	temperature, err := strconv.ParseFloat(c.FormValue("temperature"), 64)
	if err != nil {
		temperature = translateprompt.DefaultTemperature
	}

	view, err := s.controller.Submit(c.UserContext(), sess, c.FormValue("question"), temperature)
	if err != nil {
		data := newPageData(sess.Snapshot())
		data.Error = apperrors.UserMessage(err)
		return s.render(c, statusFor(err), data)
	}

	data := newPageData(view.Session)
	data.View = view
	data.ChartSVG = renderChartSVG(view.Chart)
	return s.render(c, fiber.StatusOK, data)
}

func (s *Server) feedback(c *fiber.Ctx) error {
	sess := sessionFrom(c)

	view, err := s.controller.SubmitFeedback(c.UserContext(), sess, c.FormValue("feedback"))
	if err != nil {
		data := newPageData(sess.Snapshot())
		data.Error = apperrors.UserMessage(err)
		return s.render(c, statusFor(err), data)
	}

	data := newPageData(view.Session)
	data.FeedbackMessage = view.Message
	return s.render(c, fiber.StatusOK, data)
}

func (s *Server) clear(c *fiber.Ctx) error {
	snap := s.controller.Clear(c.UserContext(), sessionFrom(c))
	return s.render(c, fiber.StatusOK, newPageData(snap))
}
