package logger

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedApp(t *testing.T) (*fiber.App, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})
	return app, logs
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	app, logs := newObservedApp(t)

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request completed", entry.Message)
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
	assert.EqualValues(t, 200, entry.ContextMap()["status"])
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	app, _ := newObservedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestLogger_ErrorStatus(t *testing.T) {
	app, logs := newObservedApp(t)

	_, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)

	all := logs.All()
	require.Len(t, all, 2)
	assert.EqualValues(t, 404, all[0].ContextMap()["status"])
	assert.Equal(t, "request failed", all[1].Message)
	assert.EqualValues(t, 500, all[1].ContextMap()["status"])
}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		log, err := New(env)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}
