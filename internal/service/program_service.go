package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound         = errors.New("program not found")
	ErrProgramExerciseNotFound = errors.New("program exercise not found")
	ErrProgramNameRequired     = errors.New("program name is required")
	ErrInvalidFocusArea        = errors.New("invalid focus area")
	ErrInvalidLevel            = errors.New("invalid level")
	ErrInvalidTargets          = errors.New("sets and reps targets must not be negative")
)

// ProgramInput carries the editable fields of a program.
type ProgramInput struct {
	Name        string
	FocusArea   domain.FocusArea
	Level       domain.Level
	Description string
}

func (in *ProgramInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return ErrProgramNameRequired
	}
	if in.FocusArea == "" {
		in.FocusArea = domain.FocusCustom
	}
	if !in.FocusArea.Valid() {
		return ErrInvalidFocusArea
	}
	if !in.Level.Valid() {
		return ErrInvalidLevel
	}
	return nil
}

// ProgramService manages the caller's programs. Programs shared with the
// caller can be read through Get but not modified.
type ProgramService interface {
	List(ctx context.Context, id domain.Identity) ([]domain.Program, error)
	Get(ctx context.Context, id domain.Identity, programID string) (*domain.Program, error)
	Create(ctx context.Context, id domain.Identity, in ProgramInput) (*domain.Program, error)
	Update(ctx context.Context, id domain.Identity, programID string, in ProgramInput) (*domain.Program, error)
	Delete(ctx context.Context, id domain.Identity, programID string) error
	AddExercise(ctx context.Context, id domain.Identity, programID, exerciseID string, setsTarget, repsTarget int) (*domain.ProgramExercise, error)
	RemoveExercise(ctx context.Context, id domain.Identity, programID, programExerciseID string) error
}

type programService struct {
	programRepo         repository.ProgramRepository
	programExerciseRepo repository.ProgramExerciseRepository
	shareRepo           repository.ShareRepository
	exerciseRepo        repository.ExerciseRepository
	images              imageResolver
}

func NewProgramService(
	programRepo repository.ProgramRepository,
	programExerciseRepo repository.ProgramExerciseRepository,
	shareRepo repository.ShareRepository,
	exerciseRepo repository.ExerciseRepository,
	opts ...Option,
) ProgramService {
	o := buildOptions(opts)
	return &programService{
		programRepo:         programRepo,
		programExerciseRepo: programExerciseRepo,
		shareRepo:           shareRepo,
		exerciseRepo:        exerciseRepo,
		images:              o.images,
	}
}

// List returns the caller's programs, newest first, each with its exercises
// in order_index order.
func (s *programService) List(ctx context.Context, id domain.Identity) ([]domain.Program, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	programs, err := s.programRepo.ListByUser(ctx, id.UserID)
	if err != nil {
		return nil, permissionError(err)
	}
	if err := s.attachExercises(ctx, programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (s *programService) Get(ctx context.Context, id domain.Identity, programID string) (*domain.Program, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program.UserID != id.UserID {
		_, err := s.shareRepo.FindByProgramAndRecipient(ctx, program.ID, id.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		if err != nil {
			return nil, permissionError(err)
		}
	}
	programs := []domain.Program{*program}
	if err := s.attachExercises(ctx, programs); err != nil {
		return nil, err
	}
	return &programs[0], nil
}

// attachExercises joins program exercises and their catalog rows using one
// query for each table, whatever the number of programs.
func (s *programService) attachExercises(ctx context.Context, programs []domain.Program) error {
	if len(programs) == 0 {
		return nil
	}
	// 1. Load the exercises of every program in one query
	programIDs := make([]string, len(programs))
	for i, p := range programs {
		programIDs[i] = p.ID
	}
	pes, err := s.programExerciseRepo.ListByPrograms(ctx, programIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch program exercises: %w", permissionError(err))
	}

	// 2. Load the catalog rows they point at, again in one query
	exerciseIDs := make([]string, len(pes))
	for i, pe := range pes {
		exerciseIDs[i] = pe.ExerciseID
	}
	exerciseByID := map[string]domain.Exercise{}
	if ids := uniqueIDs(exerciseIDs); len(ids) > 0 {
		exercises, err := s.exerciseRepo.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to fetch exercises: %w", permissionError(err))
		}
		s.images.resolveAll(ctx, exercises)
		for _, e := range exercises {
			exerciseByID[e.ID] = e
		}
	}

	// 3. Join and group by program, keeping order_index order
	byProgram := make(map[string][]domain.ProgramExercise, len(programs))
	for _, pe := range pes {
		if e, ok := exerciseByID[pe.ExerciseID]; ok {
			pe.Exercise = &e
		}
		byProgram[pe.ProgramID] = append(byProgram[pe.ProgramID], pe)
	}
	for i := range programs {
		programs[i].Exercises = byProgram[programs[i].ID]
		if programs[i].Exercises == nil {
			programs[i].Exercises = []domain.ProgramExercise{}
		}
	}
	return nil
}

func (s *programService) Create(ctx context.Context, id domain.Identity, in ProgramInput) (*domain.Program, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	program := &domain.Program{
		UserID:      id.UserID,
		Name:        in.Name,
		FocusArea:   in.FocusArea,
		Level:       in.Level,
		Description: in.Description,
	}
	if _, err := s.programRepo.Create(ctx, program); err != nil {
		return nil, permissionError(err)
	}
	program.Exercises = []domain.ProgramExercise{}
	log.WithFields(log.Fields{"user_id": id.UserID, "program_id": program.ID}).Debug("program created")
	return program, nil
}

func (s *programService) Update(ctx context.Context, id domain.Identity, programID string, in ProgramInput) (*domain.Program, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	program, err := s.ownedProgram(ctx, id, programID)
	if err != nil {
		return nil, err
	}
	program.Name = in.Name
	program.FocusArea = in.FocusArea
	program.Level = in.Level
	program.Description = in.Description

	if err := s.programRepo.Update(ctx, program); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, permissionError(err)
	}
	programs := []domain.Program{*program}
	if err := s.attachExercises(ctx, programs); err != nil {
		return nil, err
	}
	return &programs[0], nil
}

// Delete removes the program together with its exercises and shares.
func (s *programService) Delete(ctx context.Context, id domain.Identity, programID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := s.programRepo.Delete(ctx, programID, id.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return permissionError(err)
	}

	logger := log.WithFields(log.Fields{"user_id": id.UserID, "program_id": programID})
	if err := s.programExerciseRepo.DeleteByProgram(ctx, programID); err != nil {
		logger.WithError(err).Warn("failed to delete program exercises")
	}
	if err := s.shareRepo.DeleteByProgram(ctx, programID); err != nil {
		logger.WithError(err).Warn("failed to delete program shares")
	}
	return nil
}

// AddExercise appends an exercise at order_index = current count + 1.
// Non-positive targets fall back to the defaults of 3 sets of 10 reps.
func (s *programService) AddExercise(ctx context.Context, id domain.Identity, programID, exerciseID string, setsTarget, repsTarget int) (*domain.ProgramExercise, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if setsTarget < 0 || repsTarget < 0 {
		return nil, ErrInvalidTargets
	}
	program, err := s.ownedProgram(ctx, id, programID)
	if err != nil {
		return nil, err
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, permissionError(err)
	}

	count, err := s.programExerciseRepo.CountByProgram(ctx, program.ID)
	if err != nil {
		return nil, permissionError(err)
	}
	if setsTarget == 0 {
		setsTarget = domain.DefaultSetsTarget
	}
	if repsTarget == 0 {
		repsTarget = domain.DefaultRepsTarget
	}

	pe := &domain.ProgramExercise{
		ProgramID:  program.ID,
		ExerciseID: exercise.ID,
		OrderIndex: count + 1,
		SetsTarget: setsTarget,
		RepsTarget: repsTarget,
	}
	if _, err := s.programExerciseRepo.Create(ctx, pe); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrExerciseNotFound
		}
		return nil, permissionError(err)
	}
	s.images.resolve(ctx, exercise)
	pe.Exercise = exercise
	return pe, nil
}

// RemoveExercise deletes one entry. Remaining entries keep their order_index.
func (s *programService) RemoveExercise(ctx context.Context, id domain.Identity, programID, programExerciseID string) error {
	program, err := s.ownedProgram(ctx, id, programID)
	if err != nil {
		return err
	}
	pe, err := s.programExerciseRepo.GetByID(ctx, programExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramExerciseNotFound
		}
		return permissionError(err)
	}
	if pe.ProgramID != program.ID {
		return ErrProgramExerciseNotFound
	}
	if err := s.programExerciseRepo.Delete(ctx, pe.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramExerciseNotFound
		}
		return permissionError(err)
	}
	return nil
}

func (s *programService) getProgram(ctx context.Context, programID string) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, permissionError(err)
	}
	return program, nil
}

// ownedProgram hides programs of other users behind ErrProgramNotFound.
func (s *programService) ownedProgram(ctx context.Context, id domain.Identity, programID string) (*domain.Program, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	program, err := s.getProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program.UserID != id.UserID {
		return nil, ErrProgramNotFound
	}
	return program, nil
}
