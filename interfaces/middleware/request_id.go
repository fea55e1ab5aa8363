package middleware

import (
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID echoes the caller's X-Request-ID or assigns a new one, and puts
// it on the request context for logger.FromContext.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		ctx.Header(RequestIDHeader, id)
		ctx.Request = ctx.Request.WithContext(logger.WithRequestID(ctx.Request.Context(), id))
		ctx.Next()
	}
}
