package http

import (
	"log/slog"
	"net/http"
	"slices"

	"gasdelivery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Headers set by the upstream gateway after authenticating the caller.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

const actorContextKey = "actor"

// requireActor reads the caller from the gateway headers and admits only the given roles. The
// system role is reserved for background jobs and is never accepted from outside.
func requireActor(roles ...kernel.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := kernel.NewActor(c.Request().Header.Get(HeaderActorID), kernel.Role(c.Request().Header.Get(HeaderActorRole)))
			if err != nil || actor.Role == kernel.RoleSystem {
				return c.JSON(http.StatusUnauthorized, Error{Code: CodeUnauthorized, Message: "missing or invalid actor headers"})
			}
			if len(roles) > 0 && !slices.Contains(roles, actor.Role) {
				return c.JSON(http.StatusForbidden, Error{Code: CodeForbidden, Message: "role " + string(actor.Role) + " may not call this route"})
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) kernel.Actor {
	actor, _ := c.Get(actorContextKey).(kernel.Actor)
	return actor
}

// requestLogger writes one slog line per request.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("requestId", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "http request", attrs...)
			return nil
		},
	})
}
