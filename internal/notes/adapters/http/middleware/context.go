// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Ключи fiber.Locals.
const (
	LocalsRequestContext = "userContext"
	LocalsUserID         = "userID"
)

// HeaderRequestID передается клиентом или генерируется сервером.
const HeaderRequestID = "X-Request-ID"

// RequestContext возвращает контекст запроса с логгером и request id.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(LocalsRequestContext).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}

// UserID возвращает пользователя, установленного NewAuthMiddleware.
func UserID(ctx fiber.Ctx) string {
	userID, _ := ctx.Locals(LocalsUserID).(string)
	return userID
}
