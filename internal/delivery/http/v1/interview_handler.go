package v1

import (
	"net/http"
	"strconv"

	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

func NewInterviewHandler(r *gin.RouterGroup, interviewUC domain.InterviewUsecase) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	interviews := r.Group("/interviews")
	{
		interviews.GET("", handler.List)
		interviews.POST("", handler.Schedule)
		interviews.PATCH("/:id/status", handler.UpdateStatus)
		interviews.DELETE("/:id", handler.Delete)
	}

	r.GET("/interviewers", handler.ListInterviewers)
}

type ScheduleInterviewRequest struct {
	CandidateID   int64  `json:"candidate_id"`
	InterviewerID int64  `json:"interviewer_id"`
	Date          string `json:"date" example:"2026-03-14"`
	Time          string `json:"time" example:"09:30"`
	Type          string `json:"type" example:"virtual"`
}

// List godoc
// @Summary      List interviews
// @Tags         interviews
// @Produce      json
// @Param        candidate_id  query  int     false  "Candidate ID"
// @Param        status        query  string  false  "Scheduled, Completed or Cancelled"
// @Success      200  {object}  response.Response{data=[]domain.InterviewDetail}
// @Failure      400  {object}  response.Response
// @Router       /interviews [get]
// @Security     BearerAuth
func (h *InterviewHandler) List(c *gin.Context) {
	filter := domain.InterviewFilter{Status: c.Query("status")}
	if raw := c.Query("candidate_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.Error(apperror.BadRequest("Invalid candidate ID"))
			return
		}
		filter.CandidateID = id
	}

	interviews, err := h.interviewUC.ListInterviews(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interviews retrieved", interviews)
}

// Schedule godoc
// @Summary      Schedule an interview
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        interview  body  ScheduleInterviewRequest  true  "Interview"
// @Success      201  {object}  response.Response{data=domain.Interview}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /interviews [post]
// @Security     BearerAuth
func (h *InterviewHandler) Schedule(c *gin.Context) {
	var req ScheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "Invalid request body"))
		return
	}

	interview := &domain.Interview{
		CandidateID:   req.CandidateID,
		InterviewerID: req.InterviewerID,
		Date:          req.Date,
		Time:          req.Time,
		Type:          req.Type,
	}
	if err := h.interviewUC.ScheduleInterview(c.Request.Context(), interview); err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Interview scheduled", interview)
}

// UpdateStatus godoc
// @Summary      Change an interview's status
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id      path  int            true  "Interview ID"
// @Param        status  body  StatusRequest  true  "New status"
// @Success      200  {object}  response.Response{data=domain.Interview}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /interviews/{id}/status [patch]
// @Security     BearerAuth
func (h *InterviewHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "interview ID")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Status is required"))
		return
	}

	updated, err := h.interviewUC.UpdateInterviewStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview status updated", updated)
}

// Delete godoc
// @Summary      Delete an interview
// @Tags         interviews
// @Produce      json
// @Param        id  path  int  true  "Interview ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /interviews/{id} [delete]
// @Security     BearerAuth
func (h *InterviewHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "interview ID")
	if !ok {
		return
	}

	if err := h.interviewUC.DeleteInterview(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interview deleted", nil)
}

// ListInterviewers godoc
// @Summary      List interviewers
// @Tags         interviews
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Interviewer}
// @Router       /interviewers [get]
// @Security     BearerAuth
func (h *InterviewHandler) ListInterviewers(c *gin.Context) {
	interviewers, err := h.interviewUC.ListInterviewers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Interviewers retrieved", interviewers)
}
