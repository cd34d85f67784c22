package service

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"alcyxob/training-app/internal/storage"
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

// ExerciseInput carries the fields of a new exercise.
type ExerciseInput struct {
	Title            string
	StartingPosition string
	Steps            []string
	Repetitions      int
	RepetitionMethod domain.RepetitionMethod
}

// ExercisePatch holds the exercise fields present in a PATCH body. Nil means absent.
type ExercisePatch struct {
	Title            *string
	StartingPosition *string
	Steps            *[]string
	Repetitions      *int
	RepetitionMethod *domain.RepetitionMethod
}

func (p ExercisePatch) empty() bool {
	return p.Title == nil && p.StartingPosition == nil && p.Steps == nil && p.Repetitions == nil && p.RepetitionMethod == nil
}

// ImageUpload is a presigned URL the client PUTs the image body to.
type ImageUpload struct {
	UploadURL   string
	ObjectKey   string
	ContentType string
	ExpiresAt   time.Time
}

// ExerciseService manages the exercises nested under a program. Every operation first checks that
// the program exists and belongs to the caller.
type ExerciseService interface {
	List(ctx context.Context, actor Actor, programID string) ([]domain.Exercise, error)
	Get(ctx context.Context, actor Actor, programID, exerciseID string) (*domain.Exercise, error)
	Create(ctx context.Context, actor Actor, programID string, input ExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, actor Actor, programID, exerciseID string, patch ExercisePatch) (bool, error)
	Delete(ctx context.Context, actor Actor, programID, exerciseID string) error

	ImageUploadURL(ctx context.Context, actor Actor, programID, exerciseID, contentType string) (*ImageUpload, error)
	ImageURL(ctx context.Context, actor Actor, programID, exerciseID string) (string, error)
}

type exerciseService struct {
	programRepo  repository.ProgramRepository
	exerciseRepo repository.ExerciseRepository
	images       exerciseImages
}

// NewExerciseService creates an ExerciseService. files may be nil when image storage is not configured.
func NewExerciseService(
	programRepo repository.ProgramRepository,
	exerciseRepo repository.ExerciseRepository,
	files storage.FileStorage,
) ExerciseService {
	return &exerciseService{
		programRepo:  programRepo,
		exerciseRepo: exerciseRepo,
		images:       exerciseImages{files: files},
	}
}

func (s *exerciseService) List(ctx context.Context, actor Actor, programID string) ([]domain.Exercise, error) {
	program, err := loadOwnedProgram(ctx, s.programRepo, actor, programID)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByProgramAndCreator(ctx, program.ID, program.Creator)
}

func (s *exerciseService) Get(ctx context.Context, actor Actor, programID, exerciseID string) (*domain.Exercise, error) {
	_, exercise, err := s.load(ctx, actor, programID, exerciseID)
	return exercise, err
}

// load resolves program and exercise, checking ownership of both and that the exercise is a child of the program.
func (s *exerciseService) load(ctx context.Context, actor Actor, programID, exerciseID string) (*domain.Program, *domain.Exercise, error) {
	program, err := loadOwnedProgram(ctx, s.programRepo, actor, programID)
	if err != nil {
		return nil, nil, err
	}

	id, err := parseID(exerciseID, ErrExerciseNotFound)
	if err != nil {
		return nil, nil, err
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrExerciseNotFound
		}
		return nil, nil, err
	}
	if exercise.ProgramID != program.ID {
		return nil, nil, ErrExerciseNotFound
	}
	if err := AuthorizeOwner(exercise, actor); err != nil {
		return nil, nil, err
	}
	return program, exercise, nil
}

func (s *exerciseService) Create(ctx context.Context, actor Actor, programID string, input ExerciseInput) (*domain.Exercise, error) {
	program, err := loadOwnedProgram(ctx, s.programRepo, actor, programID)
	if err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.StartingPosition = strings.TrimSpace(input.StartingPosition)
	if err := requireText("title", input.Title); err != nil {
		return nil, err
	}
	if err := requireText("startingPosition", input.StartingPosition); err != nil {
		return nil, err
	}
	if err := validateSteps(input.Steps); err != nil {
		return nil, err
	}
	if err := validateRepetitions("repetitions", input.Repetitions); err != nil {
		return nil, err
	}
	if err := validateRepetitionMethod(input.RepetitionMethod); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		ProgramID:        program.ID,
		Title:            input.Title,
		StartingPosition: input.StartingPosition,
		Steps:            slices.Clone(input.Steps),
		Repetitions:      input.Repetitions,
		RepetitionMethod: input.RepetitionMethod,
		Creator:          program.Creator,
	}
	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, actor Actor, programID, exerciseID string, patch ExercisePatch) (bool, error) {
	if patch.empty() {
		if _, err := actor.objectID(); err != nil {
			return false, err
		}
		return false, invalid("no updatable exercise field present")
	}

	_, exercise, err := s.load(ctx, actor, programID, exerciseID)
	if err != nil {
		return false, err
	}

	changed := false
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := requireText("title", title); err != nil {
			return false, err
		}
		changed = changed || title != exercise.Title
		exercise.Title = title
	}
	if patch.StartingPosition != nil {
		position := strings.TrimSpace(*patch.StartingPosition)
		if err := requireText("startingPosition", position); err != nil {
			return false, err
		}
		changed = changed || position != exercise.StartingPosition
		exercise.StartingPosition = position
	}
	if patch.Steps != nil {
		if err := validateSteps(*patch.Steps); err != nil {
			return false, err
		}
		changed = changed || !slices.Equal(*patch.Steps, exercise.Steps)
		exercise.Steps = slices.Clone(*patch.Steps)
	}
	if patch.Repetitions != nil {
		if err := validateRepetitions("repetitions", *patch.Repetitions); err != nil {
			return false, err
		}
		changed = changed || *patch.Repetitions != exercise.Repetitions
		exercise.Repetitions = *patch.Repetitions
	}
	if patch.RepetitionMethod != nil {
		if err := validateRepetitionMethod(*patch.RepetitionMethod); err != nil {
			return false, err
		}
		changed = changed || *patch.RepetitionMethod != exercise.RepetitionMethod
		exercise.RepetitionMethod = *patch.RepetitionMethod
	}
	if !changed {
		return false, nil
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrExerciseNotFound
		}
		return false, err
	}
	return true, nil
}

func (s *exerciseService) Delete(ctx context.Context, actor Actor, programID, exerciseID string) error {
	_, exercise, err := s.load(ctx, actor, programID, exerciseID)
	if err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, exercise.ID, exercise.Creator); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	s.images.release(ctx, exercise.ImageKey)
	return nil
}

func (s *exerciseService) ImageUploadURL(ctx context.Context, actor Actor, programID, exerciseID, contentType string) (*ImageUpload, error) {
	if !s.images.enabled() {
		return nil, ErrStorageDisabled
	}
	_, exercise, err := s.load(ctx, actor, programID, exerciseID)
	if err != nil {
		return nil, err
	}
	ext, ok := storage.ImageExtension(contentType)
	if !ok {
		return nil, invalid("unsupported image content type %q", contentType)
	}

	key := storage.ExerciseImageKey(exercise.ID.Hex(), ext)
	expiresAt := time.Now().Add(storage.DefaultPresignedURLExpiry)
	url, err := s.images.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	previous := exercise.ImageKey
	exercise.ImageKey = key
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.images.release(ctx, previous)

	return &ImageUpload{
		UploadURL:   url,
		ObjectKey:   key,
		ContentType: contentType,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *exerciseService) ImageURL(ctx context.Context, actor Actor, programID, exerciseID string) (string, error) {
	if !s.images.enabled() {
		return "", ErrStorageDisabled
	}
	_, exercise, err := s.load(ctx, actor, programID, exerciseID)
	if err != nil {
		return "", err
	}
	if exercise.ImageKey == "" {
		return "", ErrImageNotFound
	}
	return s.images.files.GeneratePresignedDownloadURL(ctx, exercise.ImageKey, storage.DefaultPresignedURLExpiry)
}
