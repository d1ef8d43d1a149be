package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"threadnotes/internal/notes/ports/services"
	"threadnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid token"
	ErrorTokenExpired       = "token expired"

	bearerPrefix = "Bearer "
)

// NewAuthMiddleware проверяет bearer-токен и кладет user id в Locals.
func NewAuthMiddleware(tokenService services.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(ctx, ErrorNoAuthHeader)
		}

		token, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found || strings.TrimSpace(token) == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(ctx, ErrorInvalidTokenFormat)
		}

		userID, err := tokenService.ValidateAccessToken(requestCtx, strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, services.ErrExpiredJWTToken) {
				return unauthorized(ctx, ErrorTokenExpired)
			}
			return unauthorized(ctx, ErrorInvalidToken)
		}

		ctx.Locals(LocalsUserID, userID)
		ctx.Locals(LocalsRequestContext, logger.NewContext(requestCtx, logger.Log(requestCtx).With(zap.String("userID", userID))))

		return ctx.Next()
	}
}

func unauthorized(ctx fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}
