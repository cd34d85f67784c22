package service

import (
	"alcyxob/training-app/internal/domain"
	"alcyxob/training-app/internal/repository"
	"alcyxob/training-app/internal/storage"
	"context"
	"errors"
	"strings"
)

// ProgramInput carries the fields of a new program.
type ProgramInput struct {
	Title       string
	Description string
}

// ProgramPatch holds the program fields present in a PATCH body. Nil means absent.
type ProgramPatch struct {
	Title       *string
	Description *string
}

type ProgramService interface {
	ListForOwner(ctx context.Context, actor Actor) ([]domain.Program, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Program, error)
	Create(ctx context.Context, actor Actor, input ProgramInput) (*domain.Program, error)
	Update(ctx context.Context, actor Actor, id string, patch ProgramPatch) (bool, error)
	// Delete removes the program together with its exercises.
	Delete(ctx context.Context, actor Actor, id string) error
}

type programService struct {
	programRepo repository.ProgramRepository
	cascade     *CascadeDeleter
	tx          repository.Transactor
	images      exerciseImages
}

// NewProgramService creates a ProgramService. tx may be nil when the store has no transactions;
// files may be nil when image storage is not configured.
func NewProgramService(
	programRepo repository.ProgramRepository,
	cascade *CascadeDeleter,
	tx repository.Transactor,
	files storage.FileStorage,
) ProgramService {
	if tx == nil {
		tx = repository.NoTransaction{}
	}
	return &programService{
		programRepo: programRepo,
		cascade:     cascade,
		tx:          tx,
		images:      exerciseImages{files: files},
	}
}

func (s *programService) ListForOwner(ctx context.Context, actor Actor) ([]domain.Program, error) {
	userID, err := actor.objectID()
	if err != nil {
		return nil, err
	}
	return s.programRepo.GetByCreator(ctx, userID)
}

func (s *programService) Get(ctx context.Context, actor Actor, id string) (*domain.Program, error) {
	return loadOwnedProgram(ctx, s.programRepo, actor, id)
}

// loadOwnedProgram resolves a program id and checks that actor created it.
func loadOwnedProgram(ctx context.Context, programRepo repository.ProgramRepository, actor Actor, id string) (*domain.Program, error) {
	if _, err := actor.objectID(); err != nil {
		return nil, err
	}
	programID, err := parseID(id, ErrProgramNotFound)
	if err != nil {
		return nil, err
	}
	program, err := programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if err := AuthorizeOwner(program, actor); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Create(ctx context.Context, actor Actor, input ProgramInput) (*domain.Program, error) {
	userID, err := actor.objectID()
	if err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if err := requireText("title", input.Title); err != nil {
		return nil, err
	}

	program := &domain.Program{
		Title:       input.Title,
		Description: input.Description,
		Creator:     userID,
	}
	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID
	return program, nil
}

func (s *programService) Update(ctx context.Context, actor Actor, id string, patch ProgramPatch) (bool, error) {
	if patch.Title == nil && patch.Description == nil {
		if _, err := actor.objectID(); err != nil {
			return false, err
		}
		return false, invalid("no updatable program field present")
	}

	program, err := loadOwnedProgram(ctx, s.programRepo, actor, id)
	if err != nil {
		return false, err
	}

	changed := false
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := requireText("title", title); err != nil {
			return false, err
		}
		changed = changed || title != program.Title
		program.Title = title
	}
	if patch.Description != nil {
		changed = changed || *patch.Description != program.Description
		program.Description = *patch.Description
	}
	if !changed {
		return false, nil
	}

	if err := s.programRepo.Update(ctx, program); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrProgramNotFound
		}
		return false, err
	}
	return true, nil
}

func (s *programService) Delete(ctx context.Context, actor Actor, id string) error {
	program, err := loadOwnedProgram(ctx, s.programRepo, actor, id)
	if err != nil {
		return err
	}

	var releasedImages []string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		keys, err := s.cascade.DeleteProgramExercises(ctx, program.ID, program.Creator)
		releasedImages = keys
		if err != nil {
			return err
		}
		if err := s.programRepo.Delete(ctx, program.ID, program.Creator); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProgramNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		// Without a transaction the exercises that did go are gone for good, images included
		if _, noTx := s.tx.(repository.NoTransaction); noTx {
			s.images.release(ctx, releasedImages...)
		}
		return err
	}

	s.images.release(ctx, releasedImages...)
	return nil
}
