package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	DefaultCategory      = "Other"
)

// Categories is the fixed set of topical categories a post can carry.
var Categories = []string{
	"Adventure",
	"Marketing",
	"Education",
	"Entertainment",
	"News",
	"Lifestyle",
	"Health & Fitness",
	"Food & Recipes",
	"Travel",
	"Technology",
	"Business",
	"Finance",
	"Fashion",
	"Beauty",
	"Gaming",
	"Sports",
	"Music",
	"Photography",
	"DIY & Crafts",
	"Motivation & Inspiration",
	"Science",
	"Politics",
	"Culture",
	"Memes",
	DefaultCategory,
}

// NormalizeCategory returns the canonical spelling of category, or "Other"
// when it is empty or not part of the enumeration.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	for _, c := range Categories {
		if strings.EqualFold(c, category) {
			return c
		}
	}
	return DefaultCategory
}

// Post represents a drafted or scheduled social media post stored in MongoDB
type Post struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID         string             `json:"ownerId" bson:"owner_id"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	Tags            []string           `json:"tags" bson:"tags"`
	TargetPlatforms []string           `json:"socialMedia" bson:"social_media"`
	Category        string             `json:"category" bson:"category"`
	IsScheduled     bool               `json:"isScheduled" bson:"is_scheduled"`
	ScheduledAt     *time.Time         `json:"scheduledAt" bson:"scheduled_at"`
	IsPosted        bool               `json:"isPosted" bson:"is_posted"`
	MediaURLs       []string           `json:"mediaUrls" bson:"media_urls"`
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Check enforces the write-time invariants of a post.
func (p *Post) Check() error {
	if p.Title == "" {
		return NewValidationError("title is required")
	}
	if len([]rune(p.Title)) > MaxTitleLength {
		return NewValidationError("title must be at most 100 characters long")
	}
	if p.Description == "" {
		return NewValidationError("description is required")
	}
	if len([]rune(p.Description)) > MaxDescriptionLength {
		return NewValidationError("description must be at most 1000 characters long")
	}
	if len(p.TargetPlatforms) == 0 {
		return NewValidationError("At least one social media platform must be selected")
	}
	for _, platform := range p.TargetPlatforms {
		if !IsPlatform(platform) {
			return NewValidationError("unsupported social media platform: " + platform)
		}
	}
	if p.IsScheduled && p.ScheduledAt == nil {
		return NewValidationError("scheduledAt is required for scheduled posts")
	}
	if !p.IsScheduled {
		p.ScheduledAt = nil
	}
	return nil
}

// PostInput is a create-post payload after list and flag normalization.
type PostInput struct {
	Title           string     `json:"title" validate:"required,max=100"`
	Description     string     `json:"description" validate:"required,max=1000"`
	Tags            []string   `json:"tags"`
	TargetPlatforms []string   `json:"socialMedia" validate:"required,min=1,dive,platform"`
	Category        string     `json:"category"`
	IsScheduled     bool       `json:"isScheduled"`
	ScheduledAt     *time.Time `json:"scheduledAt" validate:"required_if=IsScheduled true"`
	MediaURLs       []string   `json:"mediaUrls"`
}

// PostPatch is a partial update; nil fields are left untouched.
type PostPatch struct {
	Title           *string    `json:"title" validate:"omitnil,min=1,max=100"`
	Description     *string    `json:"description" validate:"omitnil,min=1,max=1000"`
	Tags            *[]string  `json:"tags"`
	TargetPlatforms *[]string  `json:"socialMedia" validate:"omitnil,min=1,dive,platform"`
	Category        *string    `json:"category"`
	IsScheduled     *bool      `json:"isScheduled"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	MediaURLs       *[]string  `json:"mediaUrls"`
}

// Apply merges the patch into p.
func (patch PostPatch) Apply(p *Post) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.TargetPlatforms != nil {
		p.TargetPlatforms = *patch.TargetPlatforms
	}
	if patch.Category != nil {
		p.Category = NormalizeCategory(*patch.Category)
	}
	if patch.IsScheduled != nil {
		p.IsScheduled = *patch.IsScheduled
	}
	if patch.ScheduledAt != nil {
		p.ScheduledAt = patch.ScheduledAt
	}
	if patch.MediaURLs != nil {
		p.MediaURLs = *patch.MediaURLs
	}
}

// CreatePostRequest defines the request body for creating a new post.
// Tags and socialMedia may be sent either as arrays or as comma-separated strings.
type CreatePostRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Tags            StringList `json:"tags"`
	TargetPlatforms StringList `json:"socialMedia"`
	Category        string     `json:"category"`
	IsScheduled     BoolInput  `json:"isScheduled"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	MediaURLs       []string   `json:"mediaUrls"`
}

// Normalize resolves the list and flag encodings into a PostInput.
func (r CreatePostRequest) Normalize() PostInput {
	tags := r.Tags.Values()
	if tags == nil {
		tags = []string{}
	}
	media := trimAll(r.MediaURLs)
	if media == nil {
		media = []string{}
	}
	return PostInput{
		Title:           strings.TrimSpace(r.Title),
		Description:     strings.TrimSpace(r.Description),
		Tags:            tags,
		TargetPlatforms: lowerAll(r.TargetPlatforms.Values()),
		Category:        NormalizeCategory(r.Category),
		IsScheduled:     r.IsScheduled.Value,
		ScheduledAt:     r.ScheduledAt,
		MediaURLs:       media,
	}
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Tags            StringList `json:"tags"`
	TargetPlatforms StringList `json:"socialMedia"`
	Category        *string    `json:"category"`
	IsScheduled     BoolInput  `json:"isScheduled"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	MediaURLs       []string   `json:"mediaUrls"`
}

// Normalize resolves the list and flag encodings into a PostPatch.
func (r UpdatePostRequest) Normalize() PostPatch {
	var patch PostPatch
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		patch.Title = &title
	}
	if r.Description != nil {
		description := strings.TrimSpace(*r.Description)
		patch.Description = &description
	}
	if r.Tags.IsSet() {
		tags := r.Tags.Values()
		if tags == nil {
			tags = []string{}
		}
		patch.Tags = &tags
	}
	if r.TargetPlatforms.IsSet() {
		platforms := lowerAll(r.TargetPlatforms.Values())
		if platforms == nil {
			platforms = []string{}
		}
		patch.TargetPlatforms = &platforms
	}
	patch.Category = r.Category
	if r.IsScheduled.Set {
		scheduled := r.IsScheduled.Value
		patch.IsScheduled = &scheduled
	}
	patch.ScheduledAt = r.ScheduledAt
	if r.MediaURLs != nil {
		media := trimAll(r.MediaURLs)
		if media == nil {
			media = []string{}
		}
		patch.MediaURLs = &media
	}
	return patch
}

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
