package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/pkg/apperrors"
	"github.com/dmoran/orienta/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Controllers call it
// for every error a service returns; the mapping lives here and nowhere else.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// 404
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrProfileNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrLinkNotFound),
		errors.Is(err, apperrors.ErrPlanNotFound),
		errors.Is(err, apperrors.ErrPlanItemNotFound),
		errors.Is(err, apperrors.ErrPlanTaskNotFound),
		errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrRegistrationNotFound),
		errors.Is(err, apperrors.ErrContentNotFound),
		errors.Is(err, apperrors.ErrCompanyNotFound),
		errors.Is(err, apperrors.ErrInvitationNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})

	// 409
	case errors.Is(err, apperrors.ErrAlreadyLinked),
		errors.Is(err, apperrors.ErrDuplicateRequest),
		errors.Is(err, apperrors.ErrLinkAlreadyDecided),
		errors.Is(err, apperrors.ErrEventFull),
		errors.Is(err, apperrors.ErrAlreadyRegistered),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceConflict, err.Error()),
		})

	// 410
	case errors.Is(err, apperrors.ErrInvitationExpired),
		errors.Is(err, apperrors.ErrInvitationUsed):
		c.JSON(410, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceGone, err.Error()),
		})

	// 403
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrCompanyNotApproved),
		errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error()),
		})

	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})

	// 422/400
	case errors.Is(err, apperrors.ErrEventNotOpen):
		c.JSON(422, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, err.Error()),
		})
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
