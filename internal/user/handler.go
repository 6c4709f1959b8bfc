// File: internal/user/handler.go
package user

import (
	"errors"

	"carsouq_backend/internal/common"
	"carsouq_backend/internal/middleware"
	"carsouq_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service *ServiceImplementation
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service *ServiceImplementation, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, adminRoleMW gin.HandlerFunc) {
	profileGroup := router.Group("/profile")
	profileGroup.Use(authMW)
	{
		profileGroup.GET("", h.getProfile)
		profileGroup.PATCH("/edit", h.updateProfile)
	}

	router.POST("/admin/users/:id/verify-dealer", authMW, adminRoleMW, h.verifyDealer)
}

func (h *Handler) getProfile(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	usr, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", shared.ToUserResponse(usr))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Profile update: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	// Dealers can resubmit their paperwork as file parts.
	registryDoc, _ := c.FormFile("commercial_registry")
	taxCardDoc, _ := c.FormFile("tax_card")

	userID := middleware.GetUserIDFromContext(c)
	usr, err := h.service.UpdateProfile(c.Request.Context(), userID, req, registryDoc, taxCardDoc)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", shared.ToUserResponse(usr))
}

func (h *Handler) verifyDealer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return
	}

	usr, err := h.service.VerifyDealer(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dealer verified successfully.", shared.ToUserResponse(usr))
}
