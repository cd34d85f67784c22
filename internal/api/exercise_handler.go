package api

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the exercises nested under a program.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs ---

type RepetitionMethodDTO struct {
	Type   string `json:"type"`
	Number int    `json:"number"`
}

func (m RepetitionMethodDTO) toDomain() domain.RepetitionMethod {
	return domain.RepetitionMethod{Type: m.Type, Number: m.Number}
}

type CreateExerciseRequest struct {
	Title            string              `json:"title"`
	StartingPosition string              `json:"startingPosition"`
	Steps            []string            `json:"steps"`
	Repetitions      int                 `json:"repetitions"`
	RepetitionMethod RepetitionMethodDTO `json:"repetitionMethod"`
}

// UpdateExerciseRequest only carries the fields present in the body.
type UpdateExerciseRequest struct {
	Title            *string              `json:"title"`
	StartingPosition *string              `json:"startingPosition"`
	Steps            *[]string            `json:"steps"`
	Repetitions      *int                 `json:"repetitions"`
	RepetitionMethod *RepetitionMethodDTO `json:"repetitionMethod"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ImageUploadResponse struct {
	UploadURL   string    `json:"uploadUrl"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ImageURLResponse struct {
	URL string `json:"url"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID               string              `json:"id"`
	ProgramID        string              `json:"programId"`
	Title            string              `json:"title"`
	StartingPosition string              `json:"startingPosition"`
	Steps            []string            `json:"steps"`
	Repetitions      int                 `json:"repetitions"`
	RepetitionMethod RepetitionMethodDTO `json:"repetitionMethod"`
	HasImage         bool                `json:"hasImage"`
	Creator          string              `json:"creator"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	steps := ex.Steps
	if steps == nil {
		steps = []string{}
	}
	return ExerciseResponse{
		ID:               ex.ID.Hex(),
		ProgramID:        ex.ProgramID.Hex(),
		Title:            ex.Title,
		StartingPosition: ex.StartingPosition,
		Steps:            steps,
		Repetitions:      ex.Repetitions,
		RepetitionMethod: RepetitionMethodDTO{Type: ex.RepetitionMethod.Type, Number: ex.RepetitionMethod.Number},
		HasImage:         ex.ImageKey != "",
		Creator:          ex.Creator.Hex(),
		CreatedAt:        ex.CreatedAt,
		UpdatedAt:        ex.UpdatedAt,
	}
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the exercises of a program
// @Tags Exercises
// @Produce json
// @Param programId path string true "Program ID"
// @Success 200 {array} ExerciseResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /programs/{programId}/exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.List(c.Request.Context(), actorFrom(c), c.Param("programId"))
	if err != nil {
		fail(c, err)
		return
	}

	response := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		response[i] = MapExerciseToResponse(&exercises[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.Get(c.Request.Context(), actorFrom(c), c.Param("programId"), c.Param("exerciseId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// CreateExercise godoc
// @Summary Add an exercise to a program
// @Tags Exercises
// @Accept json
// @Produce json
// @Param programId path string true "Program ID"
// @Param exercise body CreateExerciseRequest true "Exercise"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /programs/{programId}/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	programID := c.Param("programId")
	exercise, err := h.exerciseService.Create(c.Request.Context(), actorFrom(c), programID, service.ExerciseInput{
		Title:            req.Title,
		StartingPosition: req.StartingPosition,
		Steps:            req.Steps,
		Repetitions:      req.Repetitions,
		RepetitionMethod: req.RepetitionMethod.toDomain(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, "/api/v1/programs/"+programID+"/exercises/", exercise.ID.Hex())
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	patch := service.ExercisePatch{
		Title:            req.Title,
		StartingPosition: req.StartingPosition,
		Steps:            req.Steps,
		Repetitions:      req.Repetitions,
	}
	if req.RepetitionMethod != nil {
		method := req.RepetitionMethod.toDomain()
		patch.RepetitionMethod = &method
	}

	_, err := h.exerciseService.Update(c.Request.Context(), actorFrom(c), c.Param("programId"), c.Param("exerciseId"), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	err := h.exerciseService.Delete(c.Request.Context(), actorFrom(c), c.Param("programId"), c.Param("exerciseId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestImageUpload godoc
// @Summary Get a presigned URL to upload the exercise illustration
// @Description The client PUTs the image to uploadUrl with the same Content-Type. Replaces any previous image.
// @Tags Exercises
// @Accept json
// @Produce json
// @Param programId path string true "Program ID"
// @Param exerciseId path string true "Exercise ID"
// @Param upload body ImageUploadRequest true "Image content type"
// @Success 200 {object} ImageUploadResponse
// @Failure 400 {object} ErrorResponse "Unsupported content type"
// @Failure 501 {object} ErrorResponse "Image storage not configured"
// @Router /programs/{programId}/exercises/{exerciseId}/image [post]
func (h *ExerciseHandler) RequestImageUpload(c *gin.Context) {
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(fmt.Errorf("validation error: %w", err)))
		return
	}

	upload, err := h.exerciseService.ImageUploadURL(
		c.Request.Context(), actorFrom(c), c.Param("programId"), c.Param("exerciseId"), req.ContentType,
	)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ImageUploadResponse{
		UploadURL:   upload.UploadURL,
		ObjectKey:   upload.ObjectKey,
		ContentType: upload.ContentType,
		ExpiresAt:   upload.ExpiresAt,
	})
}

func (h *ExerciseHandler) GetImageURL(c *gin.Context) {
	url, err := h.exerciseService.ImageURL(c.Request.Context(), actorFrom(c), c.Param("programId"), c.Param("exerciseId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageURLResponse{URL: url})
}
