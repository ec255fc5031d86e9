package v1

import (
	"net/http"

	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/domain"
	"applicant-tracker/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	resumeUC domain.ResumeUsecase
}

// NewResumeHandler registers the resume routes. upload guards the POST route
// (rate and body limits).
func NewResumeHandler(r *gin.RouterGroup, resumeUC domain.ResumeUsecase, upload ...gin.HandlerFunc) {
	handler := &ResumeHandler{resumeUC: resumeUC}

	resumes := r.Group("/resumes")
	{
		resumes.GET("/candidate/:candidateId", handler.GetLatest)
		resumes.POST("/candidate/:candidateId", append(upload, handler.Upload)...)
		resumes.DELETE("/:id", handler.Delete)
	}
}

// GetLatest godoc
// @Summary      Latest resume of a candidate
// @Tags         resumes
// @Produce      json
// @Param        candidateId  path  int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/candidate/{candidateId} [get]
// @Security     BearerAuth
func (h *ResumeHandler) GetLatest(c *gin.Context) {
	candidateID, ok := parseID(c, "candidateId", "candidate ID")
	if !ok {
		return
	}

	resume, err := h.resumeUC.GetLatestResume(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume retrieved", resume)
}

// Upload godoc
// @Summary      Upload a resume
// @Description  Stores a PDF in the configured cloud drive and replaces the candidate's earlier resumes.
// @Tags         resumes
// @Accept       multipart/form-data
// @Produce      json
// @Param        candidateId  path      int   true  "Candidate ID"
// @Param        resume       formData  file  true  "PDF, at most UPLOAD_MAX_FILE_SIZE bytes"
// @Success      201  {object}  response.Response{data=domain.Resume}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /resumes/candidate/{candidateId} [post]
// @Security     BearerAuth
func (h *ResumeHandler) Upload(c *gin.Context) {
	candidateID, ok := parseID(c, "candidateId", "candidate ID")
	if !ok {
		return
	}

	file, closer, err := formResume(c)
	if err != nil {
		c.Error(err)
		return
	}
	if file == nil {
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}
	defer closer.Close()

	resume, err := h.resumeUC.UploadResume(c.Request.Context(), candidateID, *file, callerEmail(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Resume uploaded successfully", resume)
}

// Delete godoc
// @Summary      Delete a resume
// @Description  Removes the object from the cloud drive, then the metadata row.
// @Tags         resumes
// @Produce      json
// @Param        id  path  int  true  "Resume ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /resumes/{id} [delete]
// @Security     BearerAuth
func (h *ResumeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "resume ID")
	if !ok {
		return
	}

	if err := h.resumeUC.DeleteResume(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume deleted successfully", nil)
}
