// File: internal/favorite/handler.go
package favorite

import (
	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"
	"carsouq_backend/internal/listing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
	cfg     *config.Config
}

func NewHandler(service Service, logger *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
}

// RegisterRoutes sets up the favorites routes. All of them require auth.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	group := router.Group("/favorites")
	group.Use(authMW)
	{
		group.GET("", h.list)
		group.POST("/:listing_id/toggle", h.toggle)
	}
}

func (h *Handler) toggle(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	listingID, err := uuid.Parse(c.Param("listing_id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	favorited, err := h.service.Toggle(c.Request.Context(), userID, listingID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorite toggled successfully.", ToggleResponse{
		ListingID: listingID,
		Favorited: favorited,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	listings, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	lang := common.GetLangFromContext(c)
	cards := make([]listing.ListingCardResponse, 0, len(listings))
	for i := range listings {
		cards = append(cards, listing.ToListingCardResponse(&listings[i], lang, h.cfg.ImagePublicBaseURL))
	}
	common.RespondOK(c, "Favorites retrieved successfully.", cards)
}
