package utils

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	ActorContextKey = "actor"
	DefaultActor    = "system"
)

// GetActorFromContext returns the user type set by the actor middleware,
// falling back to DefaultActor.
func GetActorFromContext(c echo.Context) string {
	val := c.Get(ActorContextKey)
	if val == nil {
		return DefaultActor
	}

	actor, ok := val.(string)
	if !ok || actor == "" {
		log.Warnf("expected string at '%s' context key, got %v", ActorContextKey, val)
		return DefaultActor
	}
	return actor
}
