package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lol-stats/lol_stats/internal/account"
	"github.com/lol-stats/lol_stats/internal/canned"
)

type registerRequest struct {
	Username        string `json:"username" form:"username"`
	PhoneNumber     string `json:"phone_number" form:"phone_number"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	RaceClass       string `json:"race_class" form:"race_class"`
	AbsurdAnswer    string `json:"absurd_answer" form:"absurd_answer"`
	CaptchaAnswer   string `json:"captcha_answer" form:"captcha_answer"`
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterAccountRoutes wires registration, login and the registration
// challenge endpoint.
func RegisterAccountRoutes(r fiber.Router, accounts *account.Service, picker *canned.Source, rateLimiter fiber.Handler, logger *slog.Logger) {
	r.Post("/register", rateLimiter, func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		user, err := accounts.Register(c.UserContext(), account.Submission{
			Username:        req.Username,
			PhoneNumber:     req.PhoneNumber,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			RaceClass:       req.RaceClass,
			AbsurdAnswer:    req.AbsurdAnswer,
			CaptchaAnswer:   req.CaptchaAnswer,
			ClientIP:        c.IP(),
		})
		if err != nil {
			return accountError(err)
		}

		logger.Info("registration completed",
			slog.String("user_id", user.ID),
			slog.String("username", user.Username),
			slog.String("race_class", user.RaceClass),
		)
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"message":    canned.SuccessMessage,
			"user_id":    user.ID,
			"username":   user.Username,
			"race_class": user.RaceClass,
		})
	})

	r.Post("/login", rateLimiter, func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		user, err := accounts.Authenticate(c.UserContext(), account.Credentials{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			return accountError(err)
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"user_id":    user.ID,
			"username":   user.Username,
			"race_class": user.RaceClass,
			"last_login": user.LastLogin,
		})
	})

	// Everything the registration form needs: a challenge prompt, the race
	// list and a decorative number.
	r.Get("/register/challenge", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"absurd_task":   picker.AbsurdTask(),
			"races":         canned.Races,
			"random_number": picker.LuckyNumber(),
		})
	})
}

// accountError converts pipeline errors to HTTP ones. Rule rejections map to
// 400 with their fixed message; anything else (including a lost audit write)
// is a 500.
func accountError(err error) error {
	if re, ok := account.AsRuleError(err); ok {
		return fiber.NewError(http.StatusBadRequest, re.Message)
	}
	if errors.Is(err, account.ErrAuditWrite) {
		return fiber.NewError(http.StatusInternalServerError, "Журнал попыток недоступен. Регистрация не засчитана.")
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}
