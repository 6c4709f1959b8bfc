// File: internal/listing/handler.go
package listing

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"carsouq_backend/internal/catalog"
	"carsouq_backend/internal/common"
	"carsouq_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FavoriteChecker reports which listings a user has saved. Implemented by
// the favorites service; kept as a local interface to avoid a package cycle.
type FavoriteChecker interface {
	IsFavorited(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	FavoritedListingIDs(ctx context.Context, userID uuid.UUID, listingIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// Handler holds dependencies for listing handlers.
type Handler struct {
	service   Service
	favorites FavoriteChecker
	catalog   catalog.Service
	logger    *zap.Logger
	cfg       *config.Config
}

// NewHandler creates a new listing handler.
func NewHandler(service Service, favorites FavoriteChecker, catalogSvc catalog.Service, logger *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{
		service:   service,
		favorites: favorites,
		catalog:   catalogSvc,
		logger:    logger,
		cfg:       cfg,
	}
}

// RegisterRoutes sets up the routes for listing operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, optionalAuthMW, adminRoleMW gin.HandlerFunc) {
	router.GET("/", h.home)
	router.GET("/search", optionalAuthMW, h.search)
	router.GET("/governorates", h.governorates)
	router.GET("/compare", h.compare)
	router.GET("/listing/:id", optionalAuthMW, h.detail)
	router.POST("/ajax/reveal-phone/:id", h.revealPhone)

	seller := router.Group("")
	seller.Use(authMW)
	{
		seller.POST("/sell", h.create)
		seller.GET("/dashboard", h.dashboard)
		seller.GET("/my-listings/:id", h.getOwn)
		seller.PATCH("/listing/:id", h.update)
		seller.DELETE("/listing/:id", h.remove)
		seller.POST("/listing/:id/sold", h.markSold)
	}

	admin := router.Group("/admin-dashboard")
	admin.Use(authMW, adminRoleMW)
	{
		admin.GET("", h.adminPending)
		admin.POST("/approve/:id", h.adminApprove)
		admin.POST("/reject/:id", h.adminReject)
	}
}

func (h *Handler) lang(c *gin.Context) string {
	return common.GetLangFromContext(c)
}

func (h *Handler) cards(c *gin.Context, listings []Listing) []ListingCardResponse {
	lang := h.lang(c)
	cards := make([]ListingCardResponse, 0, len(listings))
	for i := range listings {
		cards = append(cards, ToListingCardResponse(&listings[i], lang, h.cfg.ImagePublicBaseURL))
	}
	return cards
}

// flagFavorites marks the cards a logged-in user has saved. Anonymous
// requests and lookup failures leave the flag unset.
func (h *Handler) flagFavorites(c *gin.Context, cards []ListingCardResponse) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil || h.favorites == nil || len(cards) == 0 {
		return
	}
	ids := make([]uuid.UUID, len(cards))
	for i := range cards {
		ids[i] = cards[i].ID
	}
	saved, err := h.favorites.FavoritedListingIDs(c.Request.Context(), userID, ids)
	if err != nil {
		h.logger.Warn("Failed to resolve saved listings", zap.Error(err))
		return
	}
	for i := range cards {
		isSaved := saved[cards[i].ID]
		cards[i].IsFavorited = &isSaved
	}
}

func (h *Handler) bindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}

type homePayload struct {
	Featured     []ListingCardResponse  `json:"featured"`
	Makes        []catalog.MakeResponse `json:"makes"`
	Governorates []GovernorateOption    `json:"governorates"`
}

// home returns everything the landing page needs in one call: the newest
// active listings plus the makes and governorates for the search form.
func (h *Handler) home(c *gin.Context) {
	listings, err := h.service.GetFeatured(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	makes, err := h.catalog.GetAllMakes(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	lang := h.lang(c)
	makeResponses := make([]catalog.MakeResponse, len(makes))
	for i := range makes {
		makeResponses[i] = catalog.ToMakeResponse(&makes[i], lang)
	}
	common.RespondOK(c, "Home page data retrieved successfully.", homePayload{
		Featured:     h.cards(c, listings),
		Makes:        makeResponses,
		Governorates: GovernorateOptions(lang),
	})
}

func (h *Handler) search(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)
		return
	}

	listings, pagination, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	cards := h.cards(c, listings)
	h.flagFavorites(c, cards)
	common.RespondPaginated(c, "Listings retrieved successfully.", cards, pagination)
}

func (h *Handler) governorates(c *gin.Context) {
	common.RespondOK(c, "Governorates retrieved successfully.", GovernorateOptions(h.lang(c)))
}

type detailPayload struct {
	Listing ListingResponse       `json:"listing"`
	Related []ListingCardResponse `json:"related"`
}

func (h *Handler) detail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	listing, related, err := h.service.GetDetail(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	resp := ToListingResponse(listing, h.lang(c), h.cfg.ImagePublicBaseURL)
	if userID := common.GetUserIDFromContext(c); userID != uuid.Nil && h.favorites != nil {
		if saved, err := h.favorites.IsFavorited(c.Request.Context(), userID, id); err == nil {
			resp.IsFavorited = &saved
		}
	}
	common.RespondOK(c, "Listing retrieved successfully.", detailPayload{
		Listing: resp,
		Related: h.cards(c, related),
	})
}

// revealPhone writes a raw JSON object so the storefront click handler can
// consume it without unwrapping the response envelope.
func (h *Handler) revealPhone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	phone, err := h.service.RevealPhone(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phone_number": phone})
}

func (h *Handler) create(c *gin.Context) {
	sellerID := common.GetUserIDFromContext(c)
	if sellerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		h.bindError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Expected a multipart form."))
		return
	}
	photos := form.File["images"]

	listing, err := h.service.Create(c.Request.Context(), sellerID, req, photos)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Listing submitted for review.",
		ToListingResponse(listing, h.lang(c), h.cfg.ImagePublicBaseURL))
}

func (h *Handler) getOwn(c *gin.Context) {
	requesterID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	listing, err := h.service.GetForOwner(c.Request.Context(), id, requesterID, common.GetUserRoleFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing retrieved successfully.",
		ToListingResponse(listing, h.lang(c), h.cfg.ImagePublicBaseURL))
}

func (h *Handler) update(c *gin.Context) {
	sellerID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	listing, err := h.service.Update(c.Request.Context(), id, sellerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing updated successfully.",
		ToListingResponse(listing, h.lang(c), h.cfg.ImagePublicBaseURL))
}

func (h *Handler) remove(c *gin.Context) {
	requesterID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, requesterID, common.GetUserRoleFromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) markSold(c *gin.Context) {
	sellerID := common.GetUserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	if err := h.service.MarkSold(c.Request.Context(), id, sellerID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing marked as sold.", nil)
}

func (h *Handler) compare(c *gin.Context) {
	var ids []uuid.UUID
	for _, raw := range strings.Split(c.Query("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			continue // skip malformed ids, compare what remains
		}
		ids = append(ids, id)
	}

	listings, err := h.service.Compare(c.Request.Context(), ids)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	lang := h.lang(c)
	responses := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, ToListingResponse(&listings[i], lang, h.cfg.ImagePublicBaseURL))
	}
	common.RespondOK(c, "Listings retrieved for comparison.", responses)
}

type dashboardPayload struct {
	Stats    *SellerStats          `json:"stats"`
	Listings []ListingCardResponse `json:"listings"`
}

func (h *Handler) dashboard(c *gin.Context) {
	sellerID := common.GetUserIDFromContext(c)
	if sellerID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	stats, listings, err := h.service.Dashboard(c.Request.Context(), sellerID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dashboard retrieved successfully.", dashboardPayload{
		Stats:    stats,
		Listings: h.cards(c, listings),
	})
}

type adminDashboardPayload struct {
	Stats   *AdminStats           `json:"stats"`
	Pending []ListingCardResponse `json:"pending"`
}

func (h *Handler) adminPending(c *gin.Context) {
	listings, stats, err := h.service.AdminPending(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Moderation queue retrieved successfully.", adminDashboardPayload{
		Stats:   stats,
		Pending: h.cards(c, listings),
	})
}

func (h *Handler) adminApprove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	listing, err := h.service.AdminApprove(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing approved.",
		ToListingResponse(listing, h.lang(c), h.cfg.ImagePublicBaseURL))
}

func (h *Handler) adminReject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	listing, err := h.service.AdminReject(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing rejected.",
		ToListingResponse(listing, h.lang(c), h.cfg.ImagePublicBaseURL))
}
