package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/lol-stats/lol_stats/internal/config"
	"github.com/lol-stats/lol_stats/internal/logging"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		AppName:              "LoL Stats Service",
		AppEnv:               "dev",
		Port:                 "8000",
		MinUsernameLen:       3,
		PhonePrefix:          "+7",
		PhoneLength:          12,
		CaptchaAnswer:        "42",
		RejectionProbability: 0, // deterministic acceptance for handler tests
		BcryptCost:           4,
		SubmitsPerMinute:     1000,
	}

	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s: %v", path, err)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, payload
}

func getJSON(t *testing.T, app *fiber.App, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

const validRegisterBody = `{
	"username": "validuser",
	"phone_number": "+79999999999",
	"password": "p1",
	"confirm_password": "p1",
	"race_class": "Эльф-программист",
	"absurd_answer": "17",
	"captcha_answer": "42"
}`

func TestRegisterEndpoint(t *testing.T) {
	app := testApp(t)

	code, payload := postJSON(t, app, "/register", validRegisterBody)
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", code, payload)
	}
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["user_id"] == "" || !strings.Contains(body["message"].(string), "Поздравляем") {
		t.Fatalf("unexpected body: %s", payload)
	}

	// A second identical submission trips the duplicate rule.
	code, payload = postJSON(t, app, "/register", validRegisterBody)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate, got %d: %s", code, payload)
	}
	if !strings.Contains(string(payload), "Пользователь уже существует") {
		t.Fatalf("expected duplicate message, got %s", payload)
	}
}

func TestRegisterEndpointRejectsShortUsername(t *testing.T) {
	app := testApp(t)

	code, payload := postJSON(t, app, "/register",
		strings.Replace(validRegisterBody, "validuser", "ab", 1))
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if !strings.Contains(string(payload), "Имя слишком короткое") {
		t.Fatalf("expected short-name message, got %s", payload)
	}
}

func TestLoginEndpoint(t *testing.T) {
	app := testApp(t)

	if code, payload := postJSON(t, app, "/register", validRegisterBody); code != fiber.StatusCreated {
		t.Fatalf("register: %d %s", code, payload)
	}

	code, payload := postJSON(t, app, "/login", `{"username":"validuser","password":"p1"}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, payload)
	}

	code, payload = postJSON(t, app, "/login", `{"username":"validuser","password":"wrong"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", code, payload)
	}
	if !strings.Contains(string(payload), "Неверные учетные данные") {
		t.Fatalf("expected credentials message, got %s", payload)
	}
}

func TestRegistrationAttemptsEndpoint(t *testing.T) {
	app := testApp(t)

	postJSON(t, app, "/register", validRegisterBody)                                         // success
	postJSON(t, app, "/register", strings.Replace(validRegisterBody, `"42"`, `"41"`, 1))     // bad captcha
	postJSON(t, app, "/register", strings.Replace(validRegisterBody, "validuser", "ab", 1))  // too short

	var body struct {
		Total      int `json:"total_attempts"`
		Successful int `json:"successful_attempts"`
		Failed     int `json:"failed_attempts"`
		Recent     []struct {
			Success bool `json:"success"`
		} `json:"recent_attempts"`
	}
	if code := getJSON(t, app, "/api/registration-attempts", &body); code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Total != 3 || body.Successful != 1 || body.Failed != 2 {
		t.Fatalf("unexpected tallies: %+v", body)
	}
	if len(body.Recent) != 3 {
		t.Fatalf("expected 3 recent attempts, got %d", len(body.Recent))
	}
}

func TestFeedbackEndpointLogsEvent(t *testing.T) {
	app := testApp(t)

	code, payload := postJSON(t, app, "/api/submit-feedback", `{"feedback":"норм","rating":5}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", code, payload)
	}
	if !strings.Contains(string(payload), "FB-") {
		t.Fatalf("expected feedback id, got %s", payload)
	}

	var logs []map[string]any
	if code := getJSON(t, app, "/api/system-logs", &logs); code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(logs) != 1 || logs[0]["event_type"] != "feedback" {
		t.Fatalf("expected one feedback event, got %+v", logs)
	}
	if !strings.Contains(logs[0]["description"].(string), "рейтингом 5") {
		t.Fatalf("description lost the rating: %+v", logs[0])
	}
	// user_id is emitted even for anonymous events, as null.
	if userID, ok := logs[0]["user_id"]; !ok || userID != nil {
		t.Fatalf("expected explicit null user_id, got %v (present=%v)", userID, ok)
	}
}

func TestJokeEndpoints(t *testing.T) {
	app := testApp(t)

	for _, path := range []string{
		"/api/stats",
		"/api/fake-champion-stats",
		"/api/server-status",
		"/api/random-quote",
		"/register/challenge",
	} {
		var body map[string]any
		if code := getJSON(t, app, path, &body); code != fiber.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, code)
		}
		if len(body) == 0 {
			t.Fatalf("%s: empty payload", path)
		}
	}
}

func TestUsersEndpoint(t *testing.T) {
	app := testApp(t)

	postJSON(t, app, "/register", validRegisterBody)

	var users []struct {
		Username       string `json:"username"`
		RaceClass      string `json:"race_class"`
		FailedAttempts int    `json:"failed_attempts"`
		IsActive       bool   `json:"is_active"`
	}
	if code := getJSON(t, app, "/api/users", &users); code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(users) != 1 || users[0].Username != "validuser" || !users[0].IsActive {
		t.Fatalf("unexpected users payload: %+v", users)
	}
}
