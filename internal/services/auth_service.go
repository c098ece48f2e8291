package services

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/postcraft/backend/internal/auth"
	"github.com/anonto42/postcraft/backend/internal/models"
	"github.com/anonto42/postcraft/backend/internal/repositories"
	"github.com/anonto42/postcraft/backend/pkg/firebase"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is the result of a successful signup or login.
type Session struct {
	User  models.UserResponse
	Token string
}

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier interface {
	Verify(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// AuthService handles account creation and credential checks.
type AuthService struct {
	users         repositories.UserRepository
	posts         repositories.PostRepository
	tokens        *auth.TokenManager
	profilePicAPI string
	now           func() time.Time
	log           *logrus.Logger
}

func NewAuthService(users repositories.UserRepository, posts repositories.PostRepository, tokens *auth.TokenManager, profilePicAPI string, log *logrus.Logger) *AuthService {
	return &AuthService{
		users:         users,
		posts:         posts,
		tokens:        tokens,
		profilePicAPI: strings.TrimRight(profilePicAPI, "/"),
		now:           time.Now,
		log:           log,
	}
}

// Signup registers a new account and opens a session for it.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*Session, error) {
	email := models.NormalizeEmail(req.Email)
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, models.NewConflictError("User already exists")
	} else if !models.IsKind(err, models.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	now := s.now().UTC()
	user := &models.User{
		Username:          strings.TrimSpace(req.Username),
		Email:             email,
		PasswordHash:      hash,
		ProfilePictureURL: s.profilePicAPI + "/" + req.Gender,
		LastLoginAt:       &now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user signed up")
	return s.session(user, models.PostRefs{})
}

// Login checks the credentials and records the login time.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, models.NewValidationError("Invalid email or password")
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	refs, err := s.posts.GetPostRefs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.session(user, refs)
}

// LoginWithFirebase exchanges a verified Firebase identity for a local session.
// Accounts are matched by Firebase UID first, then by email; unknown
// identities get a new account with an unusable password.
func (s *AuthService) LoginWithFirebase(ctx context.Context, identity *firebase.Identity) (*Session, error) {
	if !identity.EmailVerified {
		return nil, models.NewUnauthenticatedError("Firebase email is not verified")
	}
	identity.Email = models.NormalizeEmail(identity.Email)
	now := s.now().UTC()

	user, err := s.users.GetUserByFirebaseUID(ctx, identity.UID)
	if models.IsKind(err, models.KindNotFound) {
		user, err = s.users.GetUserByEmail(ctx, identity.Email)
	}
	switch {
	case err == nil:
		uid := identity.UID
		user.FirebaseUID = &uid
		user.LastLoginAt = &now
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
	case models.IsKind(err, models.KindNotFound):
		user, err = s.createFirebaseUser(ctx, identity, now)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	refs, err := s.posts.GetPostRefs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.session(user, refs)
}

func (s *AuthService) createFirebaseUser(ctx context.Context, identity *firebase.Identity, now time.Time) (*models.User, error) {
	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	uid := identity.UID
	user := &models.User{
		Username:          usernameFor(identity),
		Email:             identity.Email,
		PasswordHash:      hash,
		FirebaseUID:       &uid,
		ProfilePictureURL: identity.Picture,
		LastLoginAt:       &now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("user signed up with firebase")
	return user, nil
}

func (s *AuthService) session(user *models.User, refs models.PostRefs) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{User: user.ToResponse(refs), Token: token}, nil
}

// usernameFor derives a 3-30 character username from the display name or email.
func usernameFor(identity *firebase.Identity) string {
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.SplitN(identity.Email, "@", 2)[0]
	}
	runes := []rune(name)
	if len(runes) > 30 {
		runes = runes[:30]
	}
	for len(runes) < 3 {
		runes = append(runes, '_')
	}
	return string(runes)
}
