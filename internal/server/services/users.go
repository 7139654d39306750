// Package services holds the application services sitting between the HTTP
// handlers and the repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/dmitrijs2005/userdir/internal/server/idp"
	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/users"
	"github.com/google/uuid"
)

const (
	ListLimitDefault = 20
	listLimitMax     = 100
)

type UserService struct {
	repo       users.Repository
	provider   idp.AccountProvider
	reconciler *idp.Reconciler
	logger     logging.Logger

	// Injectable for tests.
	nowMillis func() int64
	newID     func() string
}

func NewUserService(repo users.Repository, provider idp.AccountProvider, reconciler *idp.Reconciler, logger logging.Logger) *UserService {
	return &UserService{
		repo:       repo,
		provider:   provider,
		reconciler: reconciler,
		logger:     logger.With("module", "user_service"),
		nowMillis:  func() int64 { return time.Now().UnixMilli() },
		newID:      func() string { return uuid.New().String() },
	}
}

// Create validates the request, checks the username through the secondary
// index and persists a new record. The existence check and the write are two
// separate store calls; two concurrent creates for the same username can both
// pass the check (see the repository package comment).
//
// Identity-provider enrollment is a best-effort companion: its failure is
// logged and never fails the create.
func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	role, err := req.Validate()
	if err != nil {
		return nil, err
	}

	_, err = s.repo.GetByUsername(ctx, req.Username)
	if err == nil {
		return nil, fmt.Errorf("%w: %q", common.ErrDuplicateUsername, req.Username)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	now := s.nowMillis()
	user := &models.User{
		UserID:    s.newID(),
		Username:  req.Username,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.provider != nil {
		if err := s.provider.CreateAccount(ctx, user.Username, role, req.Password); err != nil {
			s.logger.Warn(ctx, "identity provider enrollment failed", "username", user.Username, "error", err.Error())
		}
	}

	s.logger.Info(ctx, "user created", "userId", user.UserID, "username", user.Username)
	return user, nil
}

// Get is a pure primary-key lookup.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// List returns one page of records plus a continuation cursor. The limit must
// be within [1, 100]; the default for an absent parameter is applied by the
// handler. Callers must not assume any ordering.
func (s *UserService) List(ctx context.Context, limit int32, cursor string) ([]*models.User, string, error) {
	if limit < 1 || limit > listLimitMax {
		return nil, "", fmt.Errorf("%w: limit must be between 1 and %d", common.ErrorInvalidArgument, listLimitMax)
	}
	return s.repo.List(ctx, limit, cursor)
}

// Delete removes the record, then schedules the identity-provider account
// removal on the reconciler. The record removal is authoritative; the account
// removal retries independently and cannot fail the delete.
//
// Callers resolve the record first (it supplies the username the delete
// authorization decision needs) and pass it in.
func (s *UserService) Delete(ctx context.Context, user *models.User) error {
	if err := s.repo.Delete(ctx, user.UserID); err != nil {
		return err
	}

	if s.reconciler != nil {
		s.reconciler.EnqueueDelete(ctx, user.Username)
	}

	s.logger.Info(ctx, "user deleted", "userId", user.UserID, "username", user.Username)
	return nil
}
