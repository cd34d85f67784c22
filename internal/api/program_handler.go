package api

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ProgramHandler serves the caller's own training programs.
type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

type CreateProgramRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateProgramRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type ProgramResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MapProgramToResponse converts a domain.Program to a ProgramResponse DTO.
func MapProgramToResponse(p *domain.Program) ProgramResponse {
	return ProgramResponse{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		Description: p.Description,
		Creator:     p.Creator.Hex(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ListPrograms godoc
// @Summary List the caller's programs
// @Tags Programs
// @Produce json
// @Success 200 {array} ProgramResponse
// @Failure 401 {object} ErrorResponse
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programService.ListForOwner(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}

	response := make([]ProgramResponse, len(programs))
	for i := range programs {
		response[i] = MapProgramToResponse(&programs[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ProgramHandler) GetProgram(c *gin.Context) {
	program, err := h.programService.Get(c.Request.Context(), actorFrom(c), c.Param("programId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(program))
}

// CreateProgram godoc
// @Summary Create a program
// @Tags Programs
// @Accept json
// @Produce json
// @Param program body CreateProgramRequest true "Program"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	program, err := h.programService.Create(c.Request.Context(), actorFrom(c), service.ProgramInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, "/api/v1/programs/", program.ID.Hex())
}

func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	_, err := h.programService.Update(c.Request.Context(), actorFrom(c), c.Param("programId"), service.ProgramPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteProgram godoc
// @Summary Delete a program and all of its exercises
// @Description Reports referring to the program are kept.
// @Tags Programs
// @Param programId path string true "Program ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Some exercises could not be deleted"
// @Router /programs/{programId} [delete]
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	if err := h.programService.Delete(c.Request.Context(), actorFrom(c), c.Param("programId")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
