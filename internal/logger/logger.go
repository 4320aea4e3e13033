package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDHeader carries the request id in and out of the service.
const RequestIDHeader = "X-Request-ID"

const (
	CtxRequestIDKey = "request_id"
	// CtxCallerKey must match the key the auth middleware stores the caller under.
	CtxCallerKey = "user_id"
)

// New builds a zap logger. Production gets JSON with ISO8601 timestamps,
// everything else the colored development console.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

// RequestLogger logs every request after the rest of the chain has run.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(CtxRequestIDKey, requestID)
		c.Set(RequestIDHeader, requestID)

		chainErr := c.Next()

		// The app error handler has not run yet, so derive the status from the error.
		status := c.Response().StatusCode()
		if chainErr != nil {
			if e, ok := chainErr.(interface{ Status() int }); ok {
				status = e.Status()
			} else if fe, ok := chainErr.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.String("ip", c.IP()),
			zap.Duration("latency", time.Since(start)),
		}
		if caller, ok := c.Locals(CtxCallerKey).(uuid.UUID); ok {
			fields = append(fields, zap.String("caller", caller.String()))
		}
		if chainErr != nil {
			fields = append(fields, zap.Error(chainErr))
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Info("request completed", fields...)
		}
		return chainErr
	}
}

// RequestID returns the id assigned by RequestLogger, or "unknown".
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(CtxRequestIDKey).(string); ok {
		return id
	}
	return "unknown"
}
