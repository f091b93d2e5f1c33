package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliancedocs/internal/auth"
	"compliancedocs/internal/errs"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey).(string)
		assert.Equal(t, rid, RequestIDFromContext(c.UserContext()))
		return c.SendString(rid)
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	require.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
	assert.Equal(t, "INFO", logData["level"])
}

func TestLogger_DomainErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Put("/documents/:id/verify", func(c *fiber.Ctx) error {
		return fmt.Errorf("record 42: %w", errs.ErrConflict)
	})

	app.Test(httptest.NewRequest("PUT", "/documents/42/verify", nil))

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusConflict), logData["status"])
	assert.Equal(t, "WARN", logData["level"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.Invalid("issue_date", "is required"), fiber.StatusUnprocessableEntity},
		{fmt.Errorf("record 42: %w", errs.ErrConflict), fiber.StatusConflict},
		{errs.ErrNotFound, fiber.StatusNotFound},
		{errs.ErrUnauthorized, fiber.StatusUnauthorized},
		{errs.ErrForbidden, fiber.StatusForbidden},
		{errs.Transient("load documents", errors.New("dial tcp")), fiber.StatusServiceUnavailable},
		{fiber.NewError(fiber.StatusRequestEntityTooLarge), fiber.StatusRequestEntityTooLarge},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

type fakeValidator map[string]*auth.Claims

func (f fakeValidator) Validate(token string) (*auth.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: invalid token", errs.ErrUnauthorized)
}

func TestRequireAuth(t *testing.T) {
	validator := fakeValidator{
		"admin-token":  {UserID: "admin-1", Role: auth.RoleAdmin},
		"doctor-token": {UserID: "user-7", Role: auth.RoleDoctor, SubjectID: "doc-1"},
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(StatusFor(err))
		},
	})
	app.Use(RequireAuth(validator))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(Claims(c).UserID)
	})
	app.Get("/admin", RequireRole(auth.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
		body   string
	}{
		{name: "missing header", path: "/me", want: fiber.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "invalid token", path: "/me", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "valid token", path: "/me", header: "Bearer doctor-token", want: fiber.StatusOK, body: "user-7"},
		{name: "wrong role", path: "/admin", header: "Bearer doctor-token", want: fiber.StatusForbidden},
		{name: "admin role", path: "/admin", header: "Bearer admin-token", want: fiber.StatusOK, body: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.body != "" {
				buf := new(bytes.Buffer)
				buf.ReadFrom(resp.Body)
				assert.Equal(t, tt.body, buf.String())
			}
		})
	}
}
