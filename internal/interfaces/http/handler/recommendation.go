package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	recommendationapp "github.com/wardrobe/backend/internal/application/recommendation"
)

// RecommendationService is the application service behind RecommendationHandler
type RecommendationService interface {
	DailyRecommendations(ctx context.Context, req recommendationapp.DailyRequest) (*recommendationapp.DailyResponse, error)
	MatchOutfit(ctx context.Context, req recommendationapp.MatchRequest) (*recommendationapp.MatchResponse, error)
	GenerateSuggestions(ctx context.Context, preferences map[string]any) (*recommendationapp.SuggestionsResponse, error)
	Track(ctx context.Context, req recommendationapp.TrackRequest) (*recommendationapp.RecordResponse, error)
	Recent(ctx context.Context, userID uuid.UUID, filter recommendationapp.WindowFilter) ([]recommendationapp.RecordResponse, error)
	History(ctx context.Context, userID uuid.UUID, filter recommendationapp.WindowFilter) ([]recommendationapp.HistoryEntry, error)
	CheckRecentlyRecommended(ctx context.Context, req recommendationapp.CheckRequest) (*recommendationapp.CheckResponse, error)
	Stats(ctx context.Context, userID uuid.UUID) (*recommendationapp.StatsResponse, error)
	FindByRecommendationID(ctx context.Context, userID uuid.UUID, recommendationID string) (*recommendationapp.RecordResponse, error)
	MarkRecordWorn(ctx context.Context, requester, recordID uuid.UUID) (*recommendationapp.RecordResponse, error)
	MarkWorn(ctx context.Context, req recommendationapp.MarkWornRequest) (*recommendationapp.WearHistoryResponse, error)
	WearHistory(ctx context.Context, userID uuid.UUID) (*recommendationapp.WearHistoryResponse, error)
}

// RecommendationHandler handles outfit recommendation and tracking endpoints
type RecommendationHandler struct {
	BaseHandler
	recommendationService RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler
func NewRecommendationHandler(recommendationService RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// DailyRecommendations godoc
//
//	@ID				dailyRecommendations
//	@Summary		Recommend today's outfits
//	@Description	Combines the weather of the city with the wardrobe. Recently worn and recently recommended items are avoided. Falls back to a rule based choice when the stylist is unavailable.
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recommendationapp.DailyRequest	true	"Daily request"
//	@Success		200		{object}	APIResponse[recommendationapp.DailyResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/daily [post]
func (h *RecommendationHandler) DailyRecommendations(c *gin.Context) {
	var req recommendationapp.DailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.UserID != nil {
		if !h.AuthorizeUser(c, *req.UserID) {
			return
		}
	} else if requester := requesterID(c); requester != uuid.Nil {
		req.UserID = &requester
	}

	resp, err := h.recommendationService.DailyRecommendations(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MatchOutfit godoc
//
//	@ID				matchOutfit
//	@Summary		Find what goes with an item
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recommendationapp.MatchRequest	true	"Item and wardrobe"
//	@Success		200		{object}	APIResponse[recommendationapp.MatchResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/match [post]
func (h *RecommendationHandler) MatchOutfit(c *gin.Context) {
	var req recommendationapp.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.recommendationService.MatchOutfit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GenerateSuggestions godoc
//
//	@ID				generateSuggestions
//	@Summary		Suggest outfits from free-form preferences
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object	true	"Preferences"
//	@Success		200		{object}	APIResponse[recommendationapp.SuggestionsResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/suggestions [post]
func (h *RecommendationHandler) GenerateSuggestions(c *gin.Context) {
	var preferences map[string]any
	if err := c.ShouldBindJSON(&preferences); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.recommendationService.GenerateSuggestions(c.Request.Context(), preferences)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Track godoc
//
//	@ID				trackRecommendation
//	@Summary		Record a recommendation shown to a user
//	@Description	The type is inferred from the id when omitted
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recommendationapp.TrackRequest	true	"Recommendation"
//	@Success		201		{object}	APIResponse[recommendationapp.RecordResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/track [post]
func (h *RecommendationHandler) Track(c *gin.Context) {
	var req recommendationapp.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if !h.AuthorizeUser(c, req.UserID) {
		return
	}

	resp, err := h.recommendationService.Track(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Recent godoc
//
//	@ID				recentRecommendations
//	@Summary		List recent recommendations
//	@Tags			recommendations
//	@Produce		json
//	@Param			user_id	path		string	true	"User ID"	format(uuid)
//	@Param			days	query		int		false	"Window in days"	default(7)
//	@Param			limit	query		int		false	"Maximum records"	default(100)
//	@Success		200		{object}	APIResponse[[]recommendationapp.RecordResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/users/{user_id}/recent [get]
func (h *RecommendationHandler) Recent(c *gin.Context) {
	userID, filter, ok := h.windowRequest(c)
	if !ok {
		return
	}

	records, err := h.recommendationService.Recent(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// History godoc
//
//	@ID				recommendationHistory
//	@Summary		Recommendation history with item details
//	@Tags			recommendations
//	@Produce		json
//	@Param			user_id	path		string	true	"User ID"	format(uuid)
//	@Param			days	query		int		false	"Window in days"	default(30)
//	@Param			limit	query		int		false	"Maximum records"	default(30)
//	@Success		200		{object}	APIResponse[[]recommendationapp.HistoryEntry]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/users/{user_id}/history [get]
func (h *RecommendationHandler) History(c *gin.Context) {
	userID, filter, ok := h.windowRequest(c)
	if !ok {
		return
	}

	entries, err := h.recommendationService.History(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// Stats godoc
//
//	@ID				recommendationStats
//	@Summary		Recommendation statistics of a user
//	@Tags			recommendations
//	@Produce		json
//	@Param			user_id	path		string	true	"User ID"	format(uuid)
//	@Success		200		{object}	APIResponse[recommendationapp.StatsResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/users/{user_id}/stats [get]
func (h *RecommendationHandler) Stats(c *gin.Context) {
	userID, ok := h.UserParam(c)
	if !ok {
		return
	}

	stats, err := h.recommendationService.Stats(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// CheckRecentlyRecommended godoc
//
//	@ID				checkRecentlyRecommended
//	@Summary		Which items were recommended recently
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recommendationapp.CheckRequest	true	"Items to check"
//	@Success		200		{object}	APIResponse[recommendationapp.CheckResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/check [post]
func (h *RecommendationHandler) CheckRecentlyRecommended(c *gin.Context) {
	var req recommendationapp.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if !h.AuthorizeUser(c, req.UserID) {
		return
	}

	resp, err := h.recommendationService.CheckRecentlyRecommended(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// FindByRecommendationID godoc
//
//	@ID				findRecommendation
//	@Summary		Latest tracking record of a recommendation id
//	@Tags			recommendations
//	@Produce		json
//	@Param			user_id				path		string	true	"User ID"	format(uuid)
//	@Param			recommendation_id	path		string	true	"Item id or combo id"
//	@Success		200					{object}	APIResponse[recommendationapp.RecordResponse]
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/users/{user_id}/records/{recommendation_id} [get]
func (h *RecommendationHandler) FindByRecommendationID(c *gin.Context) {
	userID, ok := h.UserParam(c)
	if !ok {
		return
	}

	record, err := h.recommendationService.FindByRecommendationID(c.Request.Context(), userID, c.Param("recommendation_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// MarkRecordWorn godoc
//
//	@ID				markRecordWorn
//	@Summary		Mark a tracked recommendation as worn
//	@Description	Also records the wear of every item of the recommendation
//	@Tags			recommendations
//	@Produce		json
//	@Param			id	path		string	true	"Tracking record ID"	format(uuid)
//	@Success		200	{object}	APIResponse[recommendationapp.RecordResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/records/{id}/worn [post]
func (h *RecommendationHandler) MarkRecordWorn(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.recommendationService.MarkRecordWorn(c.Request.Context(), requesterID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// MarkWorn godoc
//
//	@ID				markWorn
//	@Summary		Mark an item or a combination as worn
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recommendationapp.MarkWornRequest	true	"Item or combo id"
//	@Success		200		{object}	APIResponse[recommendationapp.WearHistoryResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/mark-worn [post]
func (h *RecommendationHandler) MarkWorn(c *gin.Context) {
	var req recommendationapp.MarkWornRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if !h.AuthorizeUser(c, req.UserID) {
		return
	}

	resp, err := h.recommendationService.MarkWorn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// WearHistory godoc
//
//	@ID				wearHistory
//	@Summary		Wear history of a user
//	@Tags			recommendations
//	@Produce		json
//	@Param			user_id	path		string	true	"User ID"	format(uuid)
//	@Success		200		{object}	APIResponse[recommendationapp.WearHistoryResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/recommendations/users/{user_id}/wear-history [get]
func (h *RecommendationHandler) WearHistory(c *gin.Context) {
	userID, ok := h.UserParam(c)
	if !ok {
		return
	}

	resp, err := h.recommendationService.WearHistory(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *RecommendationHandler) windowRequest(c *gin.Context) (uuid.UUID, recommendationapp.WindowFilter, bool) {
	var filter recommendationapp.WindowFilter
	userID, ok := h.UserParam(c)
	if !ok {
		return uuid.Nil, filter, false
	}
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return uuid.Nil, filter, false
	}
	return userID, filter, true
}
