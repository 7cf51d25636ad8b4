package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"greensteps/internal/auth"
	"greensteps/internal/logger"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with uppercase, lowercase, and number")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RewardInitializer prepares the reward row of a freshly registered user.
type RewardInitializer interface {
	Initialize(ctx context.Context, userID int) error
}

// Welcomer greets a new account, typically by e-mail.
type Welcomer interface {
	Welcome(ctx context.Context, email, name string) error
}

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*User, *auth.TokenPair, error)
	Login(ctx context.Context, req LoginRequest) (*User, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*User, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	ListAll(ctx context.Context) ([]User, error)
}

type service struct {
	repo    Repository
	tokens  *auth.TokenManager
	rewards RewardInitializer
	welcome Welcomer
}

func NewService(repo Repository, tokens *auth.TokenManager, rewards RewardInitializer, welcome Welcomer) Service {
	return &service{
		repo:    repo,
		tokens:  tokens,
		rewards: rewards,
		welcome: welcome,
	}
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*User, *auth.TokenPair, error) {
	email := strings.TrimSpace(req.Email)
	if !ValidateEmail(email) {
		return nil, nil, ErrInvalidEmail
	}
	if !ValidatePassword(req.Password) {
		return nil, nil, ErrWeakPassword
	}
	if req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		return nil, nil, ErrPasswordMismatch
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	u, err := s.repo.Create(ctx, strings.TrimSpace(req.Name), email, passwordHash, auth.RoleUser)
	if err != nil {
		return nil, nil, err
	}

	if s.rewards != nil {
		if err := s.rewards.Initialize(ctx, u.ID); err != nil {
			logger.Warn("reward initialization failed", "user_id", u.ID, "error", err)
		}
	}
	if s.welcome != nil {
		if err := s.welcome.Welcome(ctx, u.Email, u.Name); err != nil {
			logger.Warn("welcome email not queued", "user_id", u.ID, "error", err)
		}
	}

	pair, err := s.tokens.Issue(identityOf(u))
	if err != nil {
		return nil, nil, err
	}

	return u, pair, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, *auth.TokenPair, error) {
	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(identityOf(u))
	if err != nil {
		return nil, nil, err
	}

	return u, pair, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*User, string, error) {
	claims, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, "", err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, "", err
	}

	access, err := s.tokens.AccessToken(identityOf(u))
	if err != nil {
		return nil, "", err
	}

	return u, access, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	email := strings.TrimSpace(req.Email)
	if !ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != userID:
		return nil, ErrEmailExists
	case err != nil && !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	return s.repo.UpdateProfile(ctx, userID, strings.TrimSpace(req.Name), email)
}

func (s *service) ListAll(ctx context.Context) ([]User, error) {
	return s.repo.ListAll(ctx)
}

func identityOf(u *User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
