package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workforce/internal/auth"
	"workforce/internal/cache"
	apperrors "workforce/internal/errors"
	"workforce/internal/model"
	"workforce/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileInput carries the self-service profile fields. The role is not
// part of it and cannot be changed here.
type ProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// UserService exposes the authenticated user's own profile.
type UserService interface {
	Me(ctx context.Context, actor *auth.Actor) (*model.User, error)
	UpdateProfile(ctx context.Context, actor *auth.Actor, input ProfileInput) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	cache     *cache.Client
	validator *ContactValidator
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache, validator: NewContactValidator()}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) Me(ctx context.Context, actor *auth.Actor) (*model.User, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(actor.UserID), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, actor.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, s.cacheKey(user.ID), user, userCacheTTL)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *auth.Actor, input ProfileInput) (*model.User, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		if err := s.validator.ValidateName("username", *input.Username); err != nil {
			return nil, err
		}
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if err := s.validator.ValidateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, user.Email, user.Username, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}
