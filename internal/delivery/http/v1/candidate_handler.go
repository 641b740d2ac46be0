package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"candidate-tracking-backend/internal/delivery/http/response"
	"candidate-tracking-backend/internal/domain"
	"candidate-tracking-backend/pkg/apperror"
	"candidate-tracking-backend/pkg/validation"
)

// listQuery holds the raw listing parameters. PageSize is a pointer so that
// an explicit pageSize=0 is rejected instead of read as unset.
type listQuery struct {
	PageSize          *int                 `form:"pageSize" binding:"omitnil,min=1,max=100"`
	ContinuationToken string               `form:"continuationToken"`
	SortBy            domain.SortField     `form:"sortBy" binding:"omitempty,oneof=name applicationDate status"`
	SortDirection     domain.SortDirection `form:"sortDirection" binding:"omitempty,oneof=asc desc"`
}

func (q listQuery) options() domain.PaginationOptions {
	opts := domain.PaginationOptions{
		ContinuationToken: q.ContinuationToken,
		SortBy:            q.SortBy,
		SortDirection:     q.SortDirection,
	}
	if q.PageSize != nil {
		opts.PageSize = *q.PageSize
	}
	return opts
}

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase, read, write gin.HandlerFunc) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := r.Group("/candidates")
	{
		candidates.GET("", chain(read, handler.ListCandidates)...)
		candidates.POST("", chain(write, handler.CreateCandidate)...)
		candidates.GET("/:id", chain(read, handler.GetCandidate)...)
		candidates.PUT("/:id", chain(write, handler.UpdateCandidate)...)
		candidates.PATCH("/:id", chain(write, handler.UpdateCandidate)...)
		candidates.DELETE("/:id", chain(write, handler.DeleteCandidate)...)
	}
}

// chain prepends an optional route-level middleware, such as a rate limiter.
func chain(mw gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{mw, h}
}

// ListCandidates godoc
// @Summary      List candidates
// @Description  Returns one page of candidates. Sorting applies to the returned page only.
// @Tags         candidates
// @Produce      json
// @Param        pageSize           query  int     false  "Page size (1-100, default 20)"
// @Param        continuationToken  query  string  false  "Token from the previous page"
// @Param        sortBy             query  string  false  "name, applicationDate or status"
// @Param        sortDirection      query  string  false  "asc or desc"
// @Success      200  {object}  response.Response{data=response.Page[domain.Candidate]}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /candidates [get]
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(queryError(err))
		return
	}

	result, err := h.candidateUC.ListCandidates(c.Request.Context(), query.options())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates retrieved", response.NewPage(result))
}

// GetCandidate godoc
// @Summary      Get candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	id, ok := candidateID(c)
	if !ok {
		return
	}

	candidate, err := h.candidateUC.GetCandidateByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate retrieved", candidate)
}

// CreateCandidate godoc
// @Summary      Create candidate
// @Description  Creates a candidate. Status defaults to new and interview stage to not_started.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        X-User-Id  header    string                         false  "Acting user id, recorded as createdBy"
// @Param        request    body      domain.CreateCandidateRequest  true   "Candidate"
// @Success      201  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates [post]
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req domain.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.FromDecodeError(err))
		return
	}

	candidate, err := h.candidateUC.CreateCandidate(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate created", candidate)
}

// UpdateCandidate godoc
// @Summary      Update candidate
// @Description  Applies a partial update. At least one field is required; id, partitionKey, rowKey and createdAt are ignored.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id         path      string                         true   "Candidate ID"
// @Param        X-User-Id  header    string                         false  "Acting user id, recorded as updatedBy"
// @Param        request    body      domain.UpdateCandidateRequest  true   "Fields to change"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      412  {object}  response.Response
// @Router       /candidates/{id} [put]
// @Router       /candidates/{id} [patch]
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	id, ok := candidateID(c)
	if !ok {
		return
	}

	var req domain.UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.FromDecodeError(err))
		return
	}

	candidate, err := h.candidateUC.UpdateCandidate(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

// DeleteCandidate godoc
// @Summary      Delete candidate
// @Tags         candidates
// @Param        id   path  string  true  "Candidate ID"
// @Success      204
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	id, ok := candidateID(c)
	if !ok {
		return
	}

	if err := h.candidateUC.DeleteCandidate(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func candidateID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.Error(apperror.NewValidation("Candidate id is required", "id"))
		return "", false
	}
	return id, true
}

// queryError names the offending query parameter. The form binder reports
// numeric parse failures without a field, and pageSize is the only number.
func queryError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return apperror.NewValidation("pageSize must be a number", "pageSize")
	}
	return validation.FromDecodeError(err)
}
