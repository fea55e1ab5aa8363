package http

import (
	"errors"
	"net/http"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/dto"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ErrorUnmarshal = "Error while unmarshal"

// statusOf maps a domain error kind to its HTTP status. Zero means the error
// is internal.
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrUnavailable):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	}
	return 0
}

// writeError renders err as {message}. Internal errors are logged under an
// opaque reference and only the reference reaches the client.
func writeError(ctx *gin.Context, err error) {
	if status := statusOf(err); status != 0 {
		var domainErr *model.Error
		message := http.StatusText(status)
		if errors.As(err, &domainErr) {
			message = domainErr.Message
		}
		ctx.JSON(status, dto.ErrorResponse{Message: message})
		return
	}

	reference := uuid.NewString()
	logger.FromContext(ctx.Request.Context()).
		WithField("error", err).
		WithField("reference", reference).
		WithField("path", ctx.FullPath()).
		Error("Request failed")
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Message:   "Internal server error",
		Reference: reference,
	})
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: message})
}
