package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Social platform keys, also the allowed values of a post's target platforms.
const (
	PlatformLinkedIn  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformTwitter   = "twitter"
)

// Platforms lists every supported social platform.
var Platforms = []string{PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformLinkedIn}

// IsPlatform reports whether name is one of the supported platforms.
func IsPlatform(name string) bool {
	for _, p := range Platforms {
		if p == name {
			return true
		}
	}
	return false
}

// Socials holds the user's linked social-profile URLs.
type Socials struct {
	LinkedIn  string `json:"linkedin" gorm:"size:255;default:''"`
	Instagram string `json:"instagram" gorm:"size:255;default:''"`
	Facebook  string `json:"facebook" gorm:"size:255;default:''"`
	Twitter   string `json:"twitter" gorm:"size:255;default:''"`
}

// Clear empties the URL stored for platform. It returns false for unknown platforms.
func (s *Socials) Clear(platform string) bool {
	switch platform {
	case PlatformLinkedIn:
		s.LinkedIn = ""
	case PlatformInstagram:
		s.Instagram = ""
	case PlatformFacebook:
		s.Facebook = ""
	case PlatformTwitter:
		s.Twitter = ""
	default:
		return false
	}
	return true
}

// User is an account stored in PostgreSQL
type User struct {
	ID                string     `json:"id" gorm:"primaryKey;size:36"`
	Username          string     `json:"username" gorm:"size:30;not null"`
	Email             string     `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash      string     `json:"-" gorm:"not null"`
	FirebaseUID       *string    `json:"-" gorm:"size:128;uniqueIndex"`
	ProfilePictureURL string     `json:"profilePic"`
	Bio               string     `json:"bio" gorm:"size:160"`
	Location          string     `json:"location" gorm:"size:100"`
	Website           string     `json:"website"`
	LastLoginAt       *time.Time `json:"lastLogin"`
	Socials           Socials    `json:"socials" gorm:"embedded;embeddedPrefix:social_"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns an id and normalizes the email.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserResponse is the sanitized user returned by the API. The post id lists
// are computed from the post store, not persisted on the user row.
type UserResponse struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	ProfilePictureURL string     `json:"profilePic"`
	Bio               string     `json:"bio"`
	Location          string     `json:"location"`
	Website           string     `json:"website"`
	LastLoginAt       *time.Time `json:"lastLogin"`
	Socials           Socials    `json:"socials"`
	UploadedPostIDs   []string   `json:"uploadedPosts"`
	ScheduledPostIDs  []string   `json:"scheduledPosts"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// PostRefs are a user's post ids grouped by scheduling state.
type PostRefs struct {
	Uploaded  []string
	Scheduled []string
}

// ToResponse strips the password hash and attaches the post references.
func (u *User) ToResponse(refs PostRefs) UserResponse {
	uploaded := refs.Uploaded
	if uploaded == nil {
		uploaded = []string{}
	}
	scheduled := refs.Scheduled
	if scheduled == nil {
		scheduled = []string{}
	}
	return UserResponse{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		ProfilePictureURL: u.ProfilePictureURL,
		Bio:               u.Bio,
		Location:          u.Location,
		Website:           u.Website,
		LastLoginAt:       u.LastLoginAt,
		Socials:           u.Socials,
		UploadedPostIDs:   uploaded,
		ScheduledPostIDs:  scheduled,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Gender   string `json:"gender" validate:"required"`
}

// Normalize trims the fields before they are validated.
func (r *SignupRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = NormalizeEmail(r.Email)
	r.Gender = strings.TrimSpace(r.Gender)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=160"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website  *string `json:"website,omitempty" validate:"omitempty,website"`
}

// Normalize trims every present field so length rules apply to the stored value.
func (r *UpdateProfileRequest) Normalize() {
	for _, field := range []*string{r.Username, r.Bio, r.Location, r.Website} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

type SetSocialsRequest struct {
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
}

type DeleteSocialRequest struct {
	Platform string `json:"platform" query:"platform" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}
