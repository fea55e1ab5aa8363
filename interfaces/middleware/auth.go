package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/dto"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const (
	requestContextKey = "request_context"
	userIDKey         = "user_id"
)

// Identify resolves the bearer token, if any, into a model.RequestContext.
// Requests without an Authorization header continue anonymously; a header
// that does not verify is rejected. When users is set the stored role wins
// over the token role and unknown users are rejected.
func Identify(secretKey string, users repository.IUser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.GetHeader("Authorization")
		if authorization == "" {
			ctx.Set(requestContextKey, model.Anonymous())
			ctx.Next()
			return
		}

		token, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			unauthorized(ctx, "Unauthorized")
			return
		}
		claims, err := utils.ParseToken(strings.TrimSpace(token), secretKey)
		if err != nil {
			logger.FromContext(ctx.Request.Context()).WithField("error", err).Info("Bearer token rejected")
			unauthorized(ctx, tokenMessage(err))
			return
		}

		identity := model.Identity{UserID: claims.UserID, Role: claims.Role}
		if users != nil {
			user, err := users.GetByID(ctx.Request.Context(), claims.UserID)
			if errors.Is(err, model.ErrNotFound) {
				unauthorized(ctx, "Invalid Account")
				return
			}
			if err != nil {
				reference := uuid.NewString()
				logger.FromContext(ctx.Request.Context()).
					WithField("error", err).
					WithField("reference", reference).
					Error("User lookup failed")
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Message:   "Internal server error",
					Reference: reference,
				})
				return
			}
			if user.Role != "" {
				identity.Role = user.Role
			}
		}

		ctx.Set(requestContextKey, model.Authenticated(identity))
		ctx.Set(userIDKey, identity.UserID)
		ctx.Next()
	}
}

// RequireIdentity rejects anonymous callers. It must run after Identify.
func RequireIdentity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if RequestContext(ctx).IsAnonymous() {
			unauthorized(ctx, "Unauthorized")
			return
		}
		ctx.Next()
	}
}

// RequestContext returns the caller resolved by Identify, or an anonymous
// caller when Identify did not run.
func RequestContext(ctx *gin.Context) model.RequestContext {
	if v, ok := ctx.Get(requestContextKey); ok {
		if rc, ok := v.(model.RequestContext); ok {
			return rc
		}
	}
	return model.Anonymous()
}

func unauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: message})
}

func tokenMessage(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return "That's not even a token"
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			return "Timing is everything"
		}
	}
	return "Unauthorized"
}
