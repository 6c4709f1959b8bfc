// File: internal/catalog/handler.go
package catalog

import (
	"errors"
	"net/http"

	"carsouq_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for catalog handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for catalog operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	router.GET("/makes", h.getAllMakes)

	// The cascading dropdown endpoints keep the bare JSON array shape
	// the frontend selects against.
	ajaxGroup := router.Group("/ajax")
	{
		ajaxGroup.GET("/load-models", h.loadModels)
		ajaxGroup.GET("/load-trims", h.loadTrims)
	}

	adminGroup := router.Group("/admin/catalog")
	adminGroup.Use(authMW)
	adminGroup.Use(adminRoleMW)
	{
		adminGroup.POST("/makes", h.adminCreateMake)
		adminGroup.DELETE("/makes/:id", h.adminDeleteMake)
		adminGroup.POST("/makes/:id/models", h.adminCreateModel)
		adminGroup.POST("/models/:id/trims", h.adminCreateTrim)
	}
}

func (h *Handler) getAllMakes(c *gin.Context) {
	makes, err := h.service.GetAllMakes(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	lang := common.GetLangFromContext(c)
	responses := make([]MakeResponse, len(makes))
	for i, m := range makes {
		responses[i] = ToMakeResponse(&m, lang)
	}
	common.RespondOK(c, "Makes retrieved successfully.", responses)
}

func (h *Handler) loadModels(c *gin.Context) {
	makeID, err := uuid.Parse(c.Query("make_id"))
	if err != nil {
		// Unknown or malformed make renders an empty dropdown.
		c.JSON(http.StatusOK, []ModelOption{})
		return
	}
	lang := common.GetLangFromContext(c)
	options, err := h.service.GetModelOptions(c.Request.Context(), makeID, lang)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *Handler) loadTrims(c *gin.Context) {
	modelID, err := uuid.Parse(c.Query("model_id"))
	if err != nil {
		c.JSON(http.StatusOK, []TrimOption{})
		return
	}
	lang := common.GetLangFromContext(c)
	options, err := h.service.GetTrimOptions(c.Request.Context(), modelID, lang)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *Handler) adminCreateMake(c *gin.Context) {
	var req AdminCreateMakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	m, err := h.service.AdminCreateMake(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Make created successfully.", ToMakeResponse(m, common.GetLangFromContext(c)))
}

func (h *Handler) adminDeleteMake(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid make ID format."))
		return
	}
	if err := h.service.AdminDeleteMake(c.Request.Context(), id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) adminCreateModel(c *gin.Context) {
	makeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid make ID format."))
		return
	}
	var req AdminCreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	model, err := h.service.AdminCreateModel(c.Request.Context(), makeID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Model created successfully.", ModelOption{
		ID:   model.ID,
		Name: common.Localized(model.NameEn, model.NameAr, common.GetLangFromContext(c)),
	})
}

func (h *Handler) adminCreateTrim(c *gin.Context) {
	modelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid model ID format."))
		return
	}
	var req AdminCreateTrimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	trim, err := h.service.AdminCreateTrim(c.Request.Context(), modelID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	lang := common.GetLangFromContext(c)
	common.RespondCreated(c, "Trim created successfully.", TrimOption{
		ID:              trim.ID,
		Name:            trim.Name,
		Year:            trim.Year,
		Display:         trim.Display(lang),
		Horsepower:      trim.Horsepower,
		FuelConsumption: trim.FuelConsumption,
	})
}

func (h *Handler) bindError(c *gin.Context, err error) {
	h.logger.Warn("Catalog request: Invalid request body", zap.Error(err))
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}
