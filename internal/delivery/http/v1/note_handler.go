package v1

import (
	"net/http"

	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteUC domain.NoteUsecase
}

func NewNoteHandler(r *gin.RouterGroup, noteUC domain.NoteUsecase) {
	handler := &NoteHandler{noteUC: noteUC}

	notes := r.Group("/notes")
	{
		notes.GET("/candidate/:candidateId", handler.List)
		notes.POST("", handler.Create)
		notes.DELETE("/:id", handler.Delete)
	}
}

type CreateNoteRequest struct {
	CandidateID int64  `json:"candidate_id"`
	Text        string `json:"text"`
}

// List godoc
// @Summary      List notes of a candidate
// @Tags         notes
// @Produce      json
// @Param        candidateId  path  int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=[]domain.Note}
// @Router       /notes/candidate/{candidateId} [get]
// @Security     BearerAuth
func (h *NoteHandler) List(c *gin.Context) {
	candidateID, ok := parseID(c, "candidateId", "candidate ID")
	if !ok {
		return
	}

	notes, err := h.noteUC.ListNotes(c.Request.Context(), candidateID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notes retrieved", notes)
}

// Create godoc
// @Summary      Add a note to a candidate
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        note  body  CreateNoteRequest  true  "Note"
// @Success      201  {object}  response.Response{data=domain.Note}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notes [post]
// @Security     BearerAuth
func (h *NoteHandler) Create(c *gin.Context) {
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err, "Invalid request body"))
		return
	}

	note := &domain.Note{
		CandidateID: req.CandidateID,
		Text:        req.Text,
		AuthorEmail: callerEmail(c),
	}
	if err := h.noteUC.CreateNote(c.Request.Context(), note); err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Note added", note)
}

// Delete godoc
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Param        id  path  int  true  "Note ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notes/{id} [delete]
// @Security     BearerAuth
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "note ID")
	if !ok {
		return
	}

	if err := h.noteUC.DeleteNote(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Note deleted", nil)
}
