package services

import (
	"context"
	"strings"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// ProfileCache stores rendered profiles between reads.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*models.UserResponse, bool)
	Set(ctx context.Context, profile models.UserResponse)
	Invalidate(ctx context.Context, userID string)
}

// ProfileService reads and edits the caller's own profile.
type ProfileService struct {
	users repositories.UserRepository
	posts repositories.PostRepository
	cache ProfileCache
	log   *logrus.Logger
}

func NewProfileService(users repositories.UserRepository, posts repositories.PostRepository, cache ProfileCache, log *logrus.Logger) *ProfileService {
	return &ProfileService{users: users, posts: posts, cache: cache, log: log}
}

// GetProfile returns the sanitized user with its post references.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserResponse, error) {
	if cached, ok := s.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.render(ctx, user)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, *profile)
	return profile, nil
}

// UpdateProfile applies the fields present in req.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UserResponse, error) {
	return s.mutate(ctx, userID, func(u *models.User) {
		if req.Username != nil {
			u.Username = strings.TrimSpace(*req.Username)
		}
		if req.Bio != nil {
			u.Bio = strings.TrimSpace(*req.Bio)
		}
		if req.Location != nil {
			u.Location = strings.TrimSpace(*req.Location)
		}
		if req.Website != nil {
			u.Website = strings.TrimSpace(*req.Website)
		}
	})
}

// SetSocials replaces the whole socials record; omitted platforms become empty.
func (s *ProfileService) SetSocials(ctx context.Context, userID string, req models.SetSocialsRequest) (*models.UserResponse, error) {
	return s.mutate(ctx, userID, func(u *models.User) {
		u.Socials = models.Socials{
			LinkedIn:  strings.TrimSpace(req.LinkedIn),
			Instagram: strings.TrimSpace(req.Instagram),
			Facebook:  strings.TrimSpace(req.Facebook),
			Twitter:   strings.TrimSpace(req.Twitter),
		}
	})
}

// DeleteSocial clears the URL of a single platform.
func (s *ProfileService) DeleteSocial(ctx context.Context, userID, platform string) (*models.UserResponse, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if !models.IsPlatform(platform) {
		return nil, models.NewValidationError("Invalid platform")
	}
	return s.mutate(ctx, userID, func(u *models.User) {
		u.Socials.Clear(platform)
	})
}

func (s *ProfileService) mutate(ctx context.Context, userID string, apply func(*models.User)) (*models.UserResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply(user)
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return s.render(ctx, user)
}

func (s *ProfileService) render(ctx context.Context, user *models.User) (*models.UserResponse, error) {
	refs, err := s.posts.GetPostRefs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile := user.ToResponse(refs)
	return &profile, nil
}
