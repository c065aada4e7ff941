package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"buildledger/internal/amortization"
	apperrors "buildledger/internal/errors"
	"buildledger/internal/logger"
	"buildledger/internal/repository"
)

// ErrorHandler turns errors attached with c.Error into JSON error responses
// when the handler has not written one itself. Calculator and repository
// errors are mapped onto their API codes; anything unrecognised is logged and
// answered with a generic internal error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err
		appErr := toAppError(err)

		if appErr.Internal != nil || appErr == apperrors.ErrInternalServer {
			logger.Get().Errorw("request failed",
				"code", appErr.Code,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", c.GetString(requestIDKey),
			)
		}

		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	var invalidTerms *amortization.InvalidTermsError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &invalidTerms):
		return apperrors.WithMessage(apperrors.ErrInvalidTerms, invalidTerms.Reason)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.ErrNotFound
	default:
		return apperrors.ErrInternalServer
	}
}
