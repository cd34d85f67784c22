package api

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the caller's exercise reports and their chart summary.
type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type CreateReportRequest struct {
	ProgramID           string              `json:"programId"`
	ProgramTitle        string              `json:"programTitle"`
	ExerciseID          string              `json:"exerciseId"`
	ExerciseTitle       string              `json:"exerciseTitle"`
	ExecutedRepetitions *int                 `json:"executedRepetitions" binding:"required"`
	RepetitionMethod    *RepetitionMethodDTO `json:"repetitionMethod" binding:"required"`
}

type UpdateReportRequest struct {
	ExecutedRepetitions *int                 `json:"executedRepetitions"`
	RepetitionMethod    *RepetitionMethodDTO `json:"repetitionMethod"`
}

type ReportResponse struct {
	ID                  string              `json:"id"`
	ProgramID           string              `json:"programId"`
	ProgramTitle        string              `json:"programTitle"`
	ExerciseID          string              `json:"exerciseId"`
	ExerciseTitle       string              `json:"exerciseTitle"`
	ExecutedRepetitions int                 `json:"executedRepetitions"`
	RepetitionMethod    RepetitionMethodDTO `json:"repetitionMethod"`
	User                string              `json:"user"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

func MapReportToResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ID:                  r.ID.Hex(),
		ProgramID:           r.ProgramID,
		ProgramTitle:        r.ProgramTitle,
		ExerciseID:          r.ExerciseID,
		ExerciseTitle:       r.ExerciseTitle,
		ExecutedRepetitions: r.ExecutedRepetitions,
		RepetitionMethod:    RepetitionMethodDTO{Type: r.RepetitionMethod.Type, Number: r.RepetitionMethod.Number},
		User:                r.User.Hex(),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.reportService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}

	response := make([]ReportResponse, len(reports))
	for i := range reports {
		response[i] = MapReportToResponse(&reports[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	report, err := h.reportService.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MapReportToResponse(report))
}

// CreateReport godoc
// @Summary Record a finished exercise run
// @Description Program and exercise ids and titles are stored as given and are not checked against existing programs.
// @Tags Reports
// @Accept json
// @Produce json
// @Param report body CreateReportRequest true "Report"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), actorFrom(c), service.ReportInput{
		ProgramID:           req.ProgramID,
		ProgramTitle:        req.ProgramTitle,
		ExerciseID:          req.ExerciseID,
		ExerciseTitle:       req.ExerciseTitle,
		ExecutedRepetitions: *req.ExecutedRepetitions,
		RepetitionMethod:    req.RepetitionMethod.toDomain(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, "/api/v1/reports/", report.ID.Hex())
}

func (h *ReportHandler) UpdateReport(c *gin.Context) {
	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	patch := service.ReportPatch{ExecutedRepetitions: req.ExecutedRepetitions}
	if req.RepetitionMethod != nil {
		method := req.RepetitionMethod.toDomain()
		patch.RepetitionMethod = &method
	}

	if _, err := h.reportService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), patch); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	if err := h.reportService.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReportSummary godoc
// @Summary Repetitions per exercise, grouped by program
// @Tags Reports
// @Produce json
// @Success 200 {array} service.ProgramRepetitions
// @Failure 401 {object} ErrorResponse
// @Router /reports/summary [get]
func (h *ReportHandler) ReportSummary(c *gin.Context) {
	summary, err := h.reportService.Summary(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	if summary == nil {
		summary = []service.ProgramRepetitions{}
	}
	c.JSON(http.StatusOK, summary)
}
