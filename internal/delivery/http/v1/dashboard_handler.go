package v1

import (
	"net/http"
	"strings"

	"applicant-tracker/internal/delivery/http/response"
	"applicant-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardUC domain.DashboardUsecase
}

func NewDashboardHandler(r *gin.RouterGroup, dashboardUC domain.DashboardUsecase) {
	handler := &DashboardHandler{dashboardUC: dashboardUC}

	r.GET("/dashboard/stats", handler.GetStats)

	reports := r.Group("/reports")
	{
		reports.GET("/positions", handler.GetPositionReports)
		reports.GET("/candidates/export", handler.ExportCandidates)
	}
}

// GetStats godoc
// @Summary      Dashboard statistics
// @Description  Candidate counts per status, scheduled interviews and the most recent candidates.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.DashboardStats}
// @Router       /dashboard/stats [get]
// @Security     BearerAuth
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardUC.GetStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Dashboard statistics", stats)
}

// GetPositionReports godoc
// @Summary      Applications and hires per position
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.PositionReport}
// @Router       /reports/positions [get]
// @Security     BearerAuth
func (h *DashboardHandler) GetPositionReports(c *gin.Context) {
	reports, err := h.dashboardUC.GetPositionReports(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Position report", reports)
}

// ExportCandidates godoc
// @Summary      Export candidates to Excel/CSV
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format           query  string  false  "Export format (xlsx, csv). Default: xlsx"
// @Param        status           query  string  false  "Comma separated statuses"
// @Param        department       query  string  false  "Department"
// @Param        hiring_location  query  string  false  "Hiring location"
// @Param        q                query  string  false  "Search term"
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response
// @Router       /reports/candidates/export [get]
// @Security     BearerAuth
func (h *DashboardHandler) ExportCandidates(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", domain.ExportFormatXLSX))

	data, filename, err := h.dashboardUC.ExportCandidates(c.Request.Context(), format, candidateFilter(c))
	if err != nil {
		c.Error(err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == domain.ExportFormatCSV {
		contentType = "text/csv; charset=utf-8"
	}

	response.Attachment(c, filename, contentType, data)
}
