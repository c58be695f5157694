package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const (
	maxUsernameLen    = 150
	minPasswordLength = 8
	// bcrypt rejects longer input.
	maxPasswordBytes  = 72
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Events        Publisher

	now func() time.Time
}

func (s *AuthService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, *tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(req.Username)
	verr := &ValidationError{}
	switch {
	case username == "":
		verr.Add("username", "This field is required.")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		verr.Add("username", fmt.Sprintf("Ensure this value has at most %d characters.", maxUsernameLen))
	case !usernamePattern.MatchString(username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	switch {
	case req.Password1 == "":
		verr.Add("password1", "This field is required.")
	case utf8.RuneCountInString(req.Password1) < minPasswordLength:
		verr.Add("password1", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	case len(req.Password1) > maxPasswordBytes:
		verr.Add("password1", fmt.Sprintf("This password is too long. It must contain at most %d bytes.", maxPasswordBytes))
	case isNumeric(req.Password1):
		verr.Add("password1", "This password is entirely numeric.")
	}
	if req.Password2 == "" {
		verr.Add("password2", "This field is required.")
	} else if req.Password1 != req.Password2 {
		verr.Add("password2", "The two password fields didn't match.")
	}
	if err := verr.Err(); err != nil {
		return nil, nil, err
	}

	pwHash, err := hash.HashPassword(req.Password1)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, nil, err
	}
	user := models.User{Username: username, PasswordHash: pwHash, Role: models.RoleUser}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			verr.Add("username", "A user with that username already exists.")
			return nil, nil, verr
		}
		return nil, nil, err
	}

	pair, err := s.issue(ctx, &user)
	if err != nil {
		return nil, nil, err
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})
	return &user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*models.User, *tokens.Pair, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(req.Username) == "" {
		verr.Add("username", "This field is required.")
	}
	if req.Password == "" {
		verr.Add("password", "This field is required.")
	}
	if err := verr.Err(); err != nil {
		return nil, nil, err
	}

	user, err := s.Repo.UserExist(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			verr.Add(NonFieldErrors, "Please enter a correct username and password. Note that both fields may be case-sensitive.")
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, verr)
		}
		return nil, nil, err
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token and returns a new session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	pair, next, err := s.sign(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, next); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*tokens.Pair, error) {
	pair, rec, err := s.sign(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, rec); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) sign(user *models.User) (*tokens.Pair, *models.RefreshToken, error) {
	now := s.clock()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.SignAccess(user.ID, user.Username, user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, nil, err
	}
	jti := tokens.NewJTI()
	refresh, err := tokens.SignRefresh(user.ID, jti, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, err
	}

	pair := &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshJTI:   jti,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}
	rec := &models.RefreshToken{
		UserID:    user.ID,
		JTI:       jti,
		TokenHash: tokens.Sha256Hex(refresh),
		ExpiresAt: refreshExp.Unix(),
	}
	return pair, rec, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
