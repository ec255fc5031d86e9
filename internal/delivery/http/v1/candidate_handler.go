package v1

import (
	"net/http"
	"strconv"
	"strings"

	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

// NewCandidateHandler registers the candidate routes. upload guards the
// intake form, which may carry a resume.
func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase, upload ...gin.HandlerFunc) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := r.Group("/candidates")
	{
		candidates.GET("", handler.List)
		candidates.GET("/:id", handler.Get)
		candidates.POST("", append(upload, handler.Create)...)
		candidates.PUT("/:id", handler.Update)
		candidates.PATCH("/:id/status", handler.UpdateStatus)
		candidates.DELETE("/:id", handler.Delete)
	}
}

// CandidateRequest is the intake and edit form. It binds from JSON or from
// multipart form fields.
type CandidateRequest struct {
	Name           string `json:"name" form:"name"`
	Email          string `json:"email" form:"email"`
	Phone          string `json:"phone" form:"phone"`
	Status         string `json:"status" form:"status"`
	Position       string `json:"position" form:"position"`
	Department     string `json:"department" form:"department"`
	HiringLocation string `json:"hiring_location" form:"hiring_location"`
	City           string `json:"city" form:"city"`
	State          string `json:"state" form:"state"`
}

func (r CandidateRequest) toCandidate() *domain.Candidate {
	return &domain.Candidate{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Status:         r.Status,
		Position:       r.Position,
		Department:     r.Department,
		HiringLocation: r.HiringLocation,
		City:           r.City,
		State:          r.State,
	}
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List godoc
// @Summary      List candidates
// @Tags         candidates
// @Produce      json
// @Param        page             query  int     false  "Page number"
// @Param        page_size        query  int     false  "Page size (max 100)"
// @Param        status           query  string  false  "Comma separated statuses"
// @Param        department       query  string  false  "Department"
// @Param        hiring_location  query  string  false  "Hiring location"
// @Param        q                query  string  false  "Search name, email, position or phone"
// @Success      200  {object}  response.Response{data=domain.PaginatedResult[domain.Candidate]}
// @Failure      400  {object}  response.Response
// @Router       /candidates [get]
// @Security     BearerAuth
func (h *CandidateHandler) List(c *gin.Context) {
	result, err := h.candidateUC.ListCandidates(c.Request.Context(), candidateFilter(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates retrieved", result)
}

func candidateFilter(c *gin.Context) domain.CandidateFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(domain.DefaultPageSize)))

	var statuses []string
	for _, s := range strings.Split(c.Query("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, s)
		}
	}

	return domain.CandidateFilter{
		Statuses:       statuses,
		Department:     strings.TrimSpace(c.Query("department")),
		HiringLocation: strings.TrimSpace(c.Query("hiring_location")),
		Query:          strings.TrimSpace(c.Query("q")),
		Page:           page,
		PageSize:       pageSize,
	}
}

// Get godoc
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Param        id  path  int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
// @Security     BearerAuth
func (h *CandidateHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "candidate ID")
	if !ok {
		return
	}

	candidate, err := h.candidateUC.GetCandidate(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate retrieved", candidate)
}

// Create godoc
// @Summary      Create a candidate
// @Description  Accepts JSON or a multipart intake form with an optional "resume" PDF.
// @Tags         candidates
// @Accept       json,mpfd
// @Produce      json
// @Param        candidate  body      CandidateRequest  true   "Candidate"
// @Param        resume     formData  file              false  "Resume PDF"
// @Success      201  {object}  response.Response{data=domain.CandidateWithResume}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates [post]
// @Security     BearerAuth
func (h *CandidateHandler) Create(c *gin.Context) {
	var req CandidateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(bindError(err, "Invalid request body"))
		return
	}

	var resume *domain.ResumeFile
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, closer, err := formResume(c)
		if err != nil {
			c.Error(err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}
		resume = file
	}

	created, err := h.candidateUC.CreateCandidate(c.Request.Context(), req.toCandidate(), resume, callerEmail(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Candidate created successfully", created)
}

// Update godoc
// @Summary      Update a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id         path  int               true  "Candidate ID"
// @Param        candidate  body  CandidateRequest  true  "Candidate"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates/{id} [put]
// @Security     BearerAuth
func (h *CandidateHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "candidate ID")
	if !ok {
		return
	}

	var req CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "Invalid request body"))
		return
	}

	candidate := req.toCandidate()
	candidate.ID = id

	updated, err := h.candidateUC.UpdateCandidate(c.Request.Context(), candidate)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated successfully", updated)
}

// UpdateStatus godoc
// @Summary      Change a candidate's pipeline status
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id      path  int            true  "Candidate ID"
// @Param        status  body  StatusRequest  true  "New status"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/status [patch]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "candidate ID")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Status is required"))
		return
	}

	updated, err := h.candidateUC.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate status updated", updated)
}

// Delete godoc
// @Summary      Delete a candidate
// @Description  Removes the candidate's resumes from the cloud drive, then the candidate with its notes and interviews.
// @Tags         candidates
// @Produce      json
// @Param        id  path  int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /candidates/{id} [delete]
// @Security     BearerAuth
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "candidate ID")
	if !ok {
		return
	}

	if err := h.candidateUC.DeleteCandidate(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deleted successfully", nil)
}
