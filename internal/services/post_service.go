package services

import (
	"context"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/postfilter"
	"github.com/anonto42/postcraft/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// PostService implements the owner-scoped post lifecycle.
type PostService struct {
	posts repositories.PostRepository
	cache ProfileCache
	log   *logrus.Logger
}

func NewPostService(posts repositories.PostRepository, cache ProfileCache, log *logrus.Logger) *PostService {
	return &PostService{posts: posts, cache: cache, log: log}
}

// CreatePost stores a new post for ownerID. Unscheduled posts count as
// posted immediately; scheduled ones stay unposted.
func (s *PostService) CreatePost(ctx context.Context, ownerID string, in models.PostInput) (*models.Post, error) {
	post := &models.Post{
		OwnerID:         ownerID,
		Title:           in.Title,
		Description:     in.Description,
		Tags:            in.Tags,
		TargetPlatforms: in.TargetPlatforms,
		Category:        models.NormalizeCategory(in.Category),
		IsScheduled:     in.IsScheduled,
		ScheduledAt:     in.ScheduledAt,
		IsPosted:        !in.IsScheduled,
		MediaURLs:       in.MediaURLs,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.MediaURLs == nil {
		post.MediaURLs = []string{}
	}
	if err := post.Check(); err != nil {
		return nil, err
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, ownerID)

	s.log.WithFields(logrus.Fields{
		"user_id":   ownerID,
		"post_id":   post.ID.Hex(),
		"scheduled": post.IsScheduled,
	}).Info("post created")
	return post, nil
}

// ListPosts returns the owner's posts newest first, narrowed by filter.
func (s *PostService) ListPosts(ctx context.Context, ownerID string, filter postfilter.Filter) ([]models.Post, error) {
	posts, err := s.posts.GetPostsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return postfilter.Apply(posts, filter), nil
}

// GetPost returns a post only when ownerID owns it.
func (s *PostService) GetPost(ctx context.Context, ownerID, postID string) (*models.Post, error) {
	return s.posts.GetPostByOwner(ctx, ownerID, postID)
}

// UpdatePost merges patch into an owned post and re-checks its invariants.
func (s *PostService) UpdatePost(ctx context.Context, ownerID, postID string, patch models.PostPatch) (*models.Post, error) {
	post, err := s.posts.GetPostByOwner(ctx, ownerID, postID)
	if err != nil {
		return nil, err
	}
	wasScheduled := post.IsScheduled

	patch.Apply(post)
	if err := post.Check(); err != nil {
		return nil, err
	}

	updated, err := s.posts.UpdatePost(ctx, post)
	if err != nil {
		return nil, err
	}
	if updated.IsScheduled != wasScheduled {
		s.cache.Invalidate(ctx, ownerID)
	}
	return updated, nil
}

// DeletePost removes an owned post.
func (s *PostService) DeletePost(ctx context.Context, ownerID, postID string) error {
	if err := s.posts.DeletePost(ctx, ownerID, postID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, ownerID)

	s.log.WithFields(logrus.Fields{"user_id": ownerID, "post_id": postID}).Info("post deleted")
	return nil
}
