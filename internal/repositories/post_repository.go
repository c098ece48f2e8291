package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/postcraft/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations.
// Every lookup is scoped to the owning user.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByOwner(ctx context.Context, ownerID, id string) (*models.Post, error)
	GetPostsByOwner(ctx context.Context, ownerID string) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, ownerID, id string) error
	GetPostRefs(ctx context.Context, ownerID string) (models.PostRefs, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the owner listing index.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetPostByOwner retrieves a post by ID, only if ownerID owns it
func (r *MongoPostRepository) GetPostByOwner(ctx context.Context, ownerID, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewNotFoundError("Post")
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&post)
	if err != nil {
		return nil, translatePostError(err)
	}
	return &post, nil
}

// GetPostsByOwner retrieves every post of a user, newest first
func (r *MongoPostRepository) GetPostsByOwner(ctx context.Context, ownerID string) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, findOptions)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// UpdatePost replaces the mutable fields of post and returns the stored result.
// The owner and creation time are never rewritten.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":        post.Title,
			"description":  post.Description,
			"tags":         post.Tags,
			"social_media": post.TargetPlatforms,
			"category":     post.Category,
			"is_scheduled": post.IsScheduled,
			"scheduled_at": post.ScheduledAt,
			"media_urls":   post.MediaURLs,
			"updated_at":   post.UpdatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": post.ID, "owner_id": post.OwnerID}, update, opts).Decode(&updated)
	if err != nil {
		return nil, translatePostError(err)
	}
	return &updated, nil
}

// DeletePost deletes a post by ID, only if ownerID owns it
func (r *MongoPostRepository) DeletePost(ctx context.Context, ownerID, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.NewNotFoundError("Post")
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "owner_id": ownerID})
	if err != nil {
		return models.NewInternalError(err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

// GetPostRefs returns the ids of the owner's posts split by scheduling state.
func (r *MongoPostRepository) GetPostRefs(ctx context.Context, ownerID string) (models.PostRefs, error) {
	findOptions := options.Find().
		SetProjection(bson.M{"_id": 1, "is_scheduled": 1}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, findOptions)
	if err != nil {
		return models.PostRefs{}, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID          primitive.ObjectID `bson:"_id"`
		IsScheduled bool               `bson:"is_scheduled"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return models.PostRefs{}, models.NewInternalError(err)
	}

	refs := models.PostRefs{Uploaded: []string{}, Scheduled: []string{}}
	for _, row := range rows {
		if row.IsScheduled {
			refs.Scheduled = append(refs.Scheduled, row.ID.Hex())
		} else {
			refs.Uploaded = append(refs.Uploaded, row.ID.Hex())
		}
	}
	return refs, nil
}

func translatePostError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewNotFoundError("Post")
	}
	return models.NewInternalError(err)
}
