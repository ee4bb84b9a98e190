package routes

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lol-stats/lol_stats/internal/account"
	"github.com/lol-stats/lol_stats/internal/audit"
	"github.com/lol-stats/lol_stats/internal/canned"
)

const (
	attemptWindow    = 50
	attemptPreview   = 10
	systemLogPreview = 100
)

type feedbackRequest struct {
	Feedback string `json:"feedback" form:"feedback"`
	Rating   int    `json:"rating" form:"rating"`
}

// RegisterAPIRoutes wires the joke endpoints and the reporting endpoints over
// the audit trail.
func RegisterAPIRoutes(r fiber.Router, users account.Repository, recorder *audit.Recorder, picker *canned.Source) {
	r.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(picker.Stats())
	})

	r.Get("/fake-champion-stats", func(c *fiber.Ctx) error {
		return c.JSON(picker.FakeChampionStats())
	})

	r.Get("/server-status", func(c *fiber.Ctx) error {
		return c.JSON(picker.Status())
	})

	r.Get("/random-quote", func(c *fiber.Ctx) error {
		return c.JSON(picker.RandomQuote())
	})

	r.Post("/submit-feedback", func(c *fiber.Ctx) error {
		var req feedbackRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		description := fmt.Sprintf("Получен отзыв: '%s' с рейтингом %d", req.Feedback, req.Rating)
		if err := recorder.RecordEvent(c.UserContext(), "feedback", description, c.IP(), ""); err != nil {
			return fiber.NewError(http.StatusInternalServerError, "feedback log unavailable")
		}

		return c.JSON(picker.FeedbackResponse())
	})

	r.Get("/users", func(c *fiber.Ctx) error {
		list, err := users.List(c.UserContext())
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}

		out := make([]fiber.Map, 0, len(list))
		for _, u := range list {
			out = append(out, fiber.Map{
				"id":                u.ID,
				"username":          u.Username,
				"race_class":        u.RaceClass,
				"registration_date": u.RegistrationDate,
				"failed_attempts":   u.FailedAttempts,
				"is_active":         u.IsActive,
				"last_login":        u.LastLogin,
			})
		}
		return c.JSON(out)
	})

	r.Get("/registration-attempts", func(c *fiber.Ctx) error {
		stats, attempts, err := recorder.Stats(c.UserContext(), attemptWindow)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}

		if len(attempts) > attemptPreview {
			attempts = attempts[:attemptPreview]
		}
		recent := make([]fiber.Map, 0, len(attempts))
		for _, a := range attempts {
			recent = append(recent, fiber.Map{
				"username_attempt": a.UsernameAttempt,
				"phone_attempt":    a.PhoneAttempt,
				"attempt_date":     a.AttemptDate,
				"success":          a.Success,
				"error_message":    a.ErrorMessage,
			})
		}
		return c.JSON(fiber.Map{
			"total_attempts":      stats.Total,
			"successful_attempts": stats.Successful,
			"failed_attempts":     stats.Failed,
			"recent_attempts":     recent,
		})
	})

	r.Get("/system-logs", func(c *fiber.Ctx) error {
		events, err := recorder.Events(c.UserContext(), systemLogPreview)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}

		out := make([]fiber.Map, 0, len(events))
		for _, e := range events {
			// user_id is always present, null for events not tied to an account.
			var userID any
			if e.UserID != "" {
				userID = e.UserID
			}
			out = append(out, fiber.Map{
				"id":          e.ID,
				"event_type":  e.EventType,
				"user_id":     userID,
				"description": e.Description,
				"timestamp":   e.Timestamp,
				"ip_address":  e.IPAddress,
			})
		}
		return c.JSON(out)
	})
}
