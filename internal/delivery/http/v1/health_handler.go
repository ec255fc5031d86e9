package v1

import (
	"net/http"

	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/usecase"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

// Health godoc
// @Summary      Health check
// @Description  Pings the database and, when configured, Redis.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string]string}
// @Failure      503  {object}  response.Response{data=map[string]string}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	report, healthy := h.healthUC.Check(c.Request.Context())
	if !healthy {
		response.Unavailable(c, "System degraded", report)
		return
	}
	response.Success(c, http.StatusOK, "System operational", report)
}
