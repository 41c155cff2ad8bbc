package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/utils"
	"indicacoes/cmd/internal/utils/apierror"
	"net/http"
	"strings"
)

const UserTypeHeader = "X-User-Type"

type ActorMiddlewareConfig struct {
	// Secret enables bearer tokens. When empty the actor is read from the
	// X-User-Type header.
	Secret []byte
}

// NewActorMiddleware resolves who is calling and stores it under
// utils.ActorContextKey.
func NewActorMiddleware(cfg *ActorMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(cfg.Secret) == 0 {
				actor := strings.TrimSpace(c.Request().Header.Get(UserTypeHeader))
				if actor == "" {
					actor = utils.DefaultActor
				}
				c.Set(utils.ActorContextKey, actor)
				return next(c)
			}

			tokenData, err := utils.ParseTokenDataCtx(c, cfg.Secret)
			if err != nil {
				log.Debugf("rejected token: %v", err)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			c.Set(utils.ActorContextKey, tokenData.Tipo)
			return next(c)
		}
	}
}
