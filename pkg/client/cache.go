package client

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/postfilter"
)

// PostCache holds the caller's posts as last fetched, newest first, so a UI
// can re-filter them without another round trip.
type PostCache struct {
	client *Client

	mu        sync.RWMutex
	posts     []models.Post
	fetchedAt time.Time
}

func NewPostCache(c *Client) *PostCache {
	return &PostCache{client: c}
}

// Refresh replaces the cached posts with the server's unfiltered list.
func (pc *PostCache) Refresh(ctx context.Context) error {
	posts, err := pc.client.ListPosts(ctx, postfilter.Filter{})
	if err != nil {
		return err
	}
	pc.mu.Lock()
	pc.posts = posts
	pc.fetchedAt = time.Now()
	pc.mu.Unlock()
	return nil
}

// FetchedAt is the time of the last successful Refresh.
func (pc *PostCache) FetchedAt() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.fetchedAt
}

// All returns a copy of the cached posts.
func (pc *PostCache) All() []models.Post {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return append([]models.Post{}, pc.posts...)
}

// Filtered applies filter to the cached posts, keeping their order.
func (pc *PostCache) Filtered(filter postfilter.Filter) []models.Post {
	return postfilter.Apply(pc.All(), filter)
}

// Put inserts a post at the front, or replaces it in place when already cached.
func (pc *PostCache) Put(post models.Post) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for i := range pc.posts {
		if pc.posts[i].ID == post.ID {
			pc.posts[i] = post
			return
		}
	}
	pc.posts = append([]models.Post{post}, pc.posts...)
}

// Remove drops the post with the given hex id.
func (pc *PostCache) Remove(id string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for i := range pc.posts {
		if pc.posts[i].ID.Hex() == id {
			pc.posts = append(pc.posts[:i], pc.posts[i+1:]...)
			return
		}
	}
}
