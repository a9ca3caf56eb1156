// Package controllers contains the HTTP handlers. Controllers bind and
// validate input, delegate to services, and map errors through
// middleware.HandleAPIError.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmoran/orienta/internal/app/models/dto"
	"github.com/dmoran/orienta/internal/middleware"
)

// parseIDParam parses a path parameter as an int64 ID. On failure it writes
// the 400 response and returns false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter").
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// actorID reads the authenticated profile ID set by the JWT middleware. On
// failure it writes the 401 response and returns false.
func actorID(ctx *gin.Context) (int64, bool) {
	id, ok := middleware.GetProfileID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
