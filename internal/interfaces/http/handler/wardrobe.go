package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	wardrobeapp "github.com/wardrobe/backend/internal/application/wardrobe"
)

// WardrobeService is the application service behind WardrobeHandler
type WardrobeService interface {
	SaveAnalysis(ctx context.Context, req wardrobeapp.SaveAnalysisRequest) (*wardrobeapp.SaveAnalysisResponse, error)
	ListPieces(ctx context.Context, userID uuid.UUID, filter wardrobeapp.PieceListFilter) (*wardrobeapp.PiecesResponse, error)
	ListLooks(ctx context.Context, userID uuid.UUID) ([]wardrobeapp.LookResponse, error)
	GetItem(ctx context.Context, requester, id uuid.UUID) (*wardrobeapp.ItemResponse, error)
	UpdateItem(ctx context.Context, requester, id uuid.UUID, req wardrobeapp.UpdateItemRequest) (*wardrobeapp.ItemResponse, error)
	DeleteItem(ctx context.Context, requester, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, requester, id uuid.UUID) (*wardrobeapp.ItemResponse, error)
}

// WardrobeHandler handles wardrobe endpoints: saving analyses, pieces and looks
type WardrobeHandler struct {
	BaseHandler
	wardrobeService WardrobeService
}

// NewWardrobeHandler creates a new WardrobeHandler
func NewWardrobeHandler(wardrobeService WardrobeService) *WardrobeHandler {
	return &WardrobeHandler{
		wardrobeService: wardrobeService,
	}
}

// LooksData wraps the looks of a user
// @Description Outfit looks of a user
type LooksData struct {
	Looks []wardrobeapp.LookResponse `json:"looks"`
}

// SaveAnalysis godoc
//
//	@ID				saveAnalysis
//	@Summary		Save an analysis to the wardrobe
//	@Description	A single-piece analysis creates one item, a complete look creates the look and its missing pieces
//	@Tags			wardrobe
//	@Accept			json
//	@Produce		json
//	@Param			request	body		wardrobeapp.SaveAnalysisRequest	true	"Analysis to save"
//	@Success		200		{object}	APIResponse[wardrobeapp.SaveAnalysisResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/wardrobe/save [post]
func (h *WardrobeHandler) SaveAnalysis(c *gin.Context) {
	var req wardrobeapp.SaveAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if !h.AuthorizeUser(c, req.UserID) {
		return
	}

	resp, err := h.wardrobeService.SaveAnalysis(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListPieces godoc
//
//	@ID				listPieces
//	@Summary		List the pieces of a wardrobe
//	@Description	Active pieces, newest first, with a count per main category
//	@Tags			wardrobe
//	@Produce		json
//	@Param			user_id		path		string	true	"User ID"	format(uuid)
//	@Param			piece_type	query		string	false	"Exact piece type"
//	@Param			category	query		string	false	"Main category"	Enums(top, bottom, outerwear, dress, shoes, accessory, full_outfit, other)
//	@Param			favorites	query		bool	false	"Favorites only"
//	@Success		200			{object}	APIResponse[wardrobeapp.PiecesResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/wardrobe/{user_id}/pieces [get]
func (h *WardrobeHandler) ListPieces(c *gin.Context) {
	userID, ok := h.UserParam(c)
	if !ok {
		return
	}

	var filter wardrobeapp.PieceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.wardrobeService.ListPieces(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListLooks godoc
//
//	@ID				listLooks
//	@Summary		List the looks of a wardrobe
//	@Description	Each look with its pieces in position order
//	@Tags			wardrobe
//	@Produce		json
//	@Param			user_id	path		string	true	"User ID"	format(uuid)
//	@Success		200		{object}	APIResponse[LooksData]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/wardrobe/{user_id}/looks [get]
func (h *WardrobeHandler) ListLooks(c *gin.Context) {
	userID, ok := h.UserParam(c)
	if !ok {
		return
	}

	looks, err := h.wardrobeService.ListLooks(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LooksData{Looks: looks})
}

// GetItem godoc
//
//	@ID				getItem
//	@Summary		Get a wardrobe item
//	@Tags			wardrobe
//	@Produce		json
//	@Param			item_id	path		string	true	"Item ID"	format(uuid)
//	@Success		200		{object}	APIResponse[wardrobeapp.ItemResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/wardrobe/items/{item_id} [get]
func (h *WardrobeHandler) GetItem(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "item_id")
	if !ok {
		return
	}

	item, err := h.wardrobeService.GetItem(c.Request.Context(), requesterID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// UpdateItem godoc
//
//	@ID				updateItem
//	@Summary		Update a wardrobe item
//	@Description	Partial update, only the fields present in the body change
//	@Tags			wardrobe
//	@Accept			json
//	@Produce		json
//	@Param			item_id	path		string							true	"Item ID"	format(uuid)
//	@Param			request	body		wardrobeapp.UpdateItemRequest	true	"Fields to change"
//	@Success		200		{object}	APIResponse[wardrobeapp.ItemResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/wardrobe/items/{item_id} [put]
func (h *WardrobeHandler) UpdateItem(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "item_id")
	if !ok {
		return
	}

	var req wardrobeapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.wardrobeService.UpdateItem(c.Request.Context(), requesterID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// DeleteItem godoc
//
//	@ID				deleteItem
//	@Summary		Remove an item from the wardrobe
//	@Description	Soft delete, the item stays linked to its looks
//	@Tags			wardrobe
//	@Produce		json
//	@Param			item_id	path		string	true	"Item ID"	format(uuid)
//	@Success		200		{object}	APIResponse[MessageData]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/wardrobe/items/{item_id} [delete]
func (h *WardrobeHandler) DeleteItem(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "item_id")
	if !ok {
		return
	}

	if err := h.wardrobeService.DeleteItem(c.Request.Context(), requesterID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Pièce supprimée"})
}

// ToggleFavorite godoc
//
//	@ID				toggleFavorite
//	@Summary		Toggle the favorite flag of an item
//	@Tags			wardrobe
//	@Produce		json
//	@Param			item_id	path		string	true	"Item ID"	format(uuid)
//	@Success		200		{object}	APIResponse[wardrobeapp.ItemResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/wardrobe/items/{item_id}/favorite [post]
func (h *WardrobeHandler) ToggleFavorite(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "item_id")
	if !ok {
		return
	}

	item, err := h.wardrobeService.ToggleFavorite(c.Request.Context(), requesterID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}
