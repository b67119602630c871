package service

import (
	"context"
	"errors"
	"strings"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrAlreadyShared     = errors.New("program is already shared with this user")
	ErrShareNotFound     = errors.New("share not found")
	ErrShareWithSelf     = errors.New("a program cannot be shared with its owner")
	ErrRecipientNotFound = errors.New("recipient user not found")
)

// ShareService grants other users read access to programs.
type ShareService interface {
	// List returns shares the caller made or received, newest first.
	List(ctx context.Context, id domain.Identity) ([]domain.ProgramShare, error)
	Share(ctx context.Context, id domain.Identity, programID, recipientUserID string) (*domain.ProgramShare, error)
	Unshare(ctx context.Context, id domain.Identity, shareID string) error
}

type shareService struct {
	shareRepo   repository.ShareRepository
	programRepo repository.ProgramRepository
	userRepo    repository.UserRepository
}

func NewShareService(
	shareRepo repository.ShareRepository,
	programRepo repository.ProgramRepository,
	userRepo repository.UserRepository,
) ShareService {
	return &shareService{
		shareRepo:   shareRepo,
		programRepo: programRepo,
		userRepo:    userRepo,
	}
}

func (s *shareService) List(ctx context.Context, id domain.Identity) ([]domain.ProgramShare, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	shares, err := s.shareRepo.ListForUser(ctx, id.UserID)
	if err != nil {
		return nil, permissionError(err)
	}
	return shares, nil
}

// Share checks for an existing (program, recipient) row before inserting. The
// store's unique constraint settles concurrent attempts, and losing that race
// reports the same ErrAlreadyShared as the check.
func (s *shareService) Share(ctx context.Context, id domain.Identity, programID, recipientUserID string) (*domain.ProgramShare, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	// 1. Validate the recipient
	recipientUserID = strings.TrimSpace(recipientUserID)
	if recipientUserID == id.UserID {
		return nil, ErrShareWithSelf
	}

	// 2. Only the owner may share, other users' programs look missing
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, permissionError(err)
	}
	if program.UserID != id.UserID {
		return nil, ErrProgramNotFound
	}

	// 3. The recipient must exist
	if _, err := s.userRepo.GetByID(ctx, recipientUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, permissionError(err)
	}

	// 4. Reject a share that already exists
	_, err = s.shareRepo.FindByProgramAndRecipient(ctx, program.ID, recipientUserID)
	if err == nil {
		return nil, ErrAlreadyShared
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, permissionError(err)
	}

	// 5. Insert; the unique constraint catches a concurrent duplicate
	share := &domain.ProgramShare{
		ProgramID:        program.ID,
		SharedByUserID:   id.UserID,
		SharedWithUserID: recipientUserID,
	}
	if _, err := s.shareRepo.Create(ctx, share); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyShared
		}
		return nil, permissionError(err)
	}
	log.WithFields(log.Fields{
		"user_id":     id.UserID,
		"program_id":  program.ID,
		"shared_with": recipientUserID,
	}).Info("program shared")
	return share, nil
}

// Unshare removes a share. Either side of the share may remove it.
func (s *shareService) Unshare(ctx context.Context, id domain.Identity, shareID string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	share, err := s.shareRepo.GetByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrShareNotFound
		}
		return permissionError(err)
	}
	if share.SharedByUserID != id.UserID && share.SharedWithUserID != id.UserID {
		return ErrShareNotFound
	}
	if err := s.shareRepo.Delete(ctx, share.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrShareNotFound
		}
		return permissionError(err)
	}
	return nil
}
