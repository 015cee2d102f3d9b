package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnly/config"
	"learnly/middleware"
	"learnly/models"
	"learnly/routers"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// Envelope is the JSON body every handler answers with.
type Envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Data    interface{}       `json:"data"`
}

// NewApp builds the full application over the database installed by NewDB.
func NewApp(tb testing.TB) *fiber.App {
	tb.Helper()
	return routers.NewApp(config.AppConfig)
}

func Token(tb testing.TB, u *models.User) string {
	tb.Helper()
	token, err := middleware.GenerateJWT(u.ID, u.Name, u.Role, u.Email)
	if err != nil {
		tb.Fatalf("generate token: %v", err)
	}
	return token
}

// Do sends a request with an optional JSON body and bearer token and
// decodes the response envelope. A 204 yields an empty envelope.
func Do(tb testing.TB, app *fiber.App, method, path, token string, body interface{}) (int, Envelope) {
	tb.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := sonic.Marshal(body)
			if err != nil {
				tb.Fatalf("marshal body: %v", err)
			}
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		tb.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env Envelope
	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, env
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		tb.Fatalf("read body: %v", err)
	}
	if err := sonic.Unmarshal(data, &env); err != nil {
		tb.Fatalf("%s %s: decode %q: %v", method, path, data, err)
	}
	return resp.StatusCode, env
}

// Map returns env.Data as a JSON object.
func (e Envelope) Map() map[string]interface{} {
	m, _ := e.Data.(map[string]interface{})
	return m
}
