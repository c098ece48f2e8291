// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Users is an in-memory repositories.UserRepository.
type Users struct {
	mu    sync.Mutex
	byID  map[string]models.User
	Calls int
}

func NewUsers() *Users {
	return &Users{byID: map[string]models.User{}}
}

func (r *Users) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++

	user.Email = models.NormalizeEmail(user.Email)
	for _, u := range r.byID {
		if u.Email == user.Email {
			return models.NewConflictError("User already exists")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.byID[user.ID] = *user
	return nil
}

func (r *Users) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++

	u, ok := r.byID[id]
	if !ok {
		return nil, models.NewNotFoundError("User")
	}
	return &u, nil
}

func (r *Users) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++

	email = models.NormalizeEmail(email)
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.NewNotFoundError("User")
}

func (r *Users) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++

	for _, u := range r.byID {
		if u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID {
			return &u, nil
		}
	}
	return nil, models.NewNotFoundError("User")
}

func (r *Users) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++

	if _, ok := r.byID[user.ID]; !ok {
		return models.NewNotFoundError("User")
	}
	user.UpdatedAt = time.Now().UTC()
	r.byID[user.ID] = *user
	return nil
}

// Posts is an in-memory repositories.PostRepository.
type Posts struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.Post
	clock time.Time
}

func NewPosts() *Posts {
	return &Posts{
		byID:  map[primitive.ObjectID]models.Post{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so creation order is stable.
func (r *Posts) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *Posts) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = primitive.NewObjectID()
	post.CreatedAt = r.tick()
	post.UpdatedAt = post.CreatedAt
	r.byID[post.ID] = clonePost(*post)
	return nil
}

func (r *Posts) GetPostByOwner(_ context.Context, ownerID, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.lookup(ownerID, id)
	if !ok {
		return nil, models.NewNotFoundError("Post")
	}
	out := clonePost(p)
	return &out, nil
}

func (r *Posts) GetPostsByOwner(_ context.Context, ownerID string) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := []models.Post{}
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			posts = append(posts, clonePost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (r *Posts) UpdatePost(_ context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.lookup(post.OwnerID, post.ID.Hex())
	if !ok {
		return nil, models.NewNotFoundError("Post")
	}
	updated := clonePost(*post)
	updated.CreatedAt = stored.CreatedAt
	updated.IsPosted = stored.IsPosted
	updated.UpdatedAt = r.tick()
	r.byID[post.ID] = updated
	out := clonePost(updated)
	return &out, nil
}

func (r *Posts) DeletePost(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.lookup(ownerID, id)
	if !ok {
		return models.NewNotFoundError("Post")
	}
	delete(r.byID, p.ID)
	return nil
}

func (r *Posts) GetPostRefs(ctx context.Context, ownerID string) (models.PostRefs, error) {
	posts, _ := r.GetPostsByOwner(ctx, ownerID)
	refs := models.PostRefs{Uploaded: []string{}, Scheduled: []string{}}
	for i := len(posts) - 1; i >= 0; i-- {
		if posts[i].IsScheduled {
			refs.Scheduled = append(refs.Scheduled, posts[i].ID.Hex())
		} else {
			refs.Uploaded = append(refs.Uploaded, posts[i].ID.Hex())
		}
	}
	return refs, nil
}

func (r *Posts) lookup(ownerID, id string) (models.Post, bool) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Post{}, false
	}
	p, ok := r.byID[objID]
	if !ok || p.OwnerID != ownerID {
		return models.Post{}, false
	}
	return p, true
}

func clonePost(p models.Post) models.Post {
	p.Tags = append([]string{}, p.Tags...)
	p.TargetPlatforms = append([]string{}, p.TargetPlatforms...)
	p.MediaURLs = append([]string{}, p.MediaURLs...)
	if p.ScheduledAt != nil {
		at := *p.ScheduledAt
		p.ScheduledAt = &at
	}
	return p
}
