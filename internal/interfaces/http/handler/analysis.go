package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	analysisapp "github.com/wardrobe/backend/internal/application/analysis"
	"github.com/wardrobe/backend/internal/domain/analysis"
	"github.com/wardrobe/backend/internal/interfaces/http/dto"
)

// uploadFields are the multipart fields accepted for the photo, in order
var uploadFields = []string{"image", "file"}

// AnalysisService is the application service behind AnalysisHandler
type AnalysisService interface {
	Analyze(ctx context.Context, in analysisapp.AnalyzeInput) (*analysisapp.AnalyzeOutput, error)
	ListAnalyses(ctx context.Context, userID uuid.UUID, filter analysisapp.AnalysisListFilter) ([]analysisapp.AnalysisResponse, int64, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*analysisapp.AnalysisResponse, error)
	DeleteAnalysis(ctx context.Context, id uuid.UUID) error
}

// AnalysisHandler handles outfit photo analysis endpoints
type AnalysisHandler struct {
	BaseHandler
	analysisService AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// AnalyzeResponse is the structured analysis of an uploaded photo.
// AnalysisID and ImageURL are only set when the analysis was stored for a user.
//
//	@Description	Analysis of an outfit photo
type AnalyzeResponse struct {
	*analysis.Result
	AnalysisID *uuid.UUID `json:"analysis_id,omitempty"`
	ImageURL   string     `json:"image_url,omitempty"`
	ModelUsed  string     `json:"model_used,omitempty"`
	DurationMs int64      `json:"duration_ms"`
}

// AnalyzeOutfit godoc
//
//	@ID				analyzeOutfit
//	@Summary		Analyze an outfit photo
//	@Description	Detects the clothing pieces on a photo. item_type=clothing analyzes a single piece, anything else a complete look.
//	@Tags			outfit-analysis
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image		formData	file	true	"Photo (field 'file' is also accepted)"
//	@Param			item_type	query		string	false	"clothing for a single piece"
//	@Param			user_id		query		string	false	"Owner of the analysis" format(uuid)
//	@Success		200			{object}	APIResponse[AnalyzeResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		413			{object}	ErrorResponse
//	@Failure		415			{object}	ErrorResponse
//	@Failure		502			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/outfit-analysis/analyze [post]
func (h *AnalysisHandler) AnalyzeOutfit(c *gin.Context) {
	header, err := formImage(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, dto.ErrCodeImageTooLarge, "Image exceeds the maximum upload size")
			return
		}
		h.BadRequest(c, "An image file is required")
		return
	}
	data, err := readUpload(header)
	if err != nil {
		h.BadRequest(c, "Failed to read the uploaded image")
		return
	}

	userID, ok := h.analysisOwner(c)
	if !ok {
		return
	}

	out, err := h.analysisService.Analyze(c.Request.Context(), analysisapp.AnalyzeInput{
		UserID:   userID,
		Image:    data,
		ItemType: firstNonEmpty(c.Query("item_type"), c.PostForm("item_type")),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AnalyzeResponse{
		Result:     out.Result,
		AnalysisID: out.AnalysisID,
		ImageURL:   out.ImageURL,
		ModelUsed:  out.ModelUsed,
		DurationMs: out.DurationMs,
	})
}

// analysisOwner resolves the user an analysis is stored for: the explicit
// user_id, else the authenticated caller, else nobody.
func (h *AnalysisHandler) analysisOwner(c *gin.Context) (*uuid.UUID, bool) {
	raw := firstNonEmpty(c.Query("user_id"), c.PostForm("user_id"))
	if raw == "" {
		if requester := requesterID(c); requester != uuid.Nil {
			return &requester, true
		}
		return nil, true
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid user_id format")
		return nil, false
	}
	if !h.AuthorizeUser(c, userID) {
		return nil, false
	}
	return &userID, true
}

// ListAnalyses godoc
//
//	@ID				listAnalyses
//	@Summary		List analyses of a user
//	@Description	Newest first by default, without the detected pieces
//	@Tags			outfit-analysis
//	@Produce		json
//	@Param			user_id		path		string	true	"User ID"	format(uuid)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Param			status		query		string	false	"Processing status"	Enums(pending, processing, completed, failed)
//	@Param			sort		query		string	false	"Sort column"		Enums(created_at, analyzed_at, duration_ms)
//	@Param			order		query		string	false	"Sort order"		Enums(asc, desc)
//	@Success		200			{object}	APIResponse[[]analysisapp.AnalysisResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/outfit-analysis/users/{user_id}/analyses [get]
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	userID, ok := h.UserParam(c)
	if !ok {
		return
	}

	var filter analysisapp.AnalysisListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	list, total, err := h.analysisService.ListAnalyses(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// GetAnalysis godoc
//
//	@ID				getAnalysis
//	@Summary		Get an analysis
//	@Tags			outfit-analysis
//	@Produce		json
//	@Param			id	path		string	true	"Analysis ID"	format(uuid)
//	@Success		200	{object}	APIResponse[analysisapp.AnalysisResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/outfit-analysis/analyses/{id} [get]
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	resp, ok := h.ownedAnalysis(c)
	if !ok {
		return
	}
	h.Success(c, resp)
}

// DeleteAnalysis godoc
//
//	@ID				deleteAnalysis
//	@Summary		Delete an analysis
//	@Description	Deletes the analysis and, best effort, its stored photo
//	@Tags			outfit-analysis
//	@Produce		json
//	@Param			id	path		string	true	"Analysis ID"	format(uuid)
//	@Success		200	{object}	APIResponse[MessageData]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/outfit-analysis/analyses/{id} [delete]
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	resp, ok := h.ownedAnalysis(c)
	if !ok {
		return
	}

	if err := h.analysisService.DeleteAnalysis(c.Request.Context(), resp.ID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Analyse supprimée"})
}

// ownedAnalysis loads the :id analysis. Analyses of other users answer 404.
func (h *AnalysisHandler) ownedAnalysis(c *gin.Context) (*analysisapp.AnalysisResponse, bool) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}

	resp, err := h.analysisService.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	if requester := requesterID(c); requester != uuid.Nil && resp.UserID != requester {
		h.NotFound(c, "Analysis not found")
		return nil, false
	}
	return resp, true
}

func formImage(c *gin.Context) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	for _, field := range uploadFields {
		if files := form.File[field]; len(files) > 0 {
			return files[0], nil
		}
	}
	return nil, http.ErrMissingFile
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
