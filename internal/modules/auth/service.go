package auth

import (
	"strings"
	"time"

	"github.com/Decaded/MSGA-server/internal/models"
	"github.com/Decaded/MSGA-server/internal/pkg/apperr"
	jwtpkg "github.com/Decaded/MSGA-server/internal/pkg/jwt"
	"github.com/Decaded/MSGA-server/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	store    store.Backend
	tokenTTL time.Duration
}

func NewService(st store.Backend, tokenTTL time.Duration) *Service {
	return &Service{store: st, tokenTTL: tokenTTL}
}

// Register creates an unapproved user account. Username and ScribbleHub
// profile URL must both be unused.
func (s *Service) Register(dto *RegisterDTO) (*models.User, error) {
	username := strings.TrimSpace(dto.Username)
	profileURL := strings.TrimSpace(dto.SHProfileURL)

	if username == "" || profileURL == "" || dto.Password == "" {
		return nil, apperr.New(apperr.KindValidation, "username, shProfileUrl and password are required")
	}
	if !models.ProfileURLPattern.MatchString(profileURL) {
		return nil, apperr.New(apperr.KindValidation, "shProfileUrl is not a valid ScribbleHub profile URL")
	}

	var users map[string]models.User
	if err := s.store.Get(store.Users, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return nil, apperr.New(apperr.KindConflict, "username is already taken")
		}
		if u.SHProfileURL == profileURL {
			return nil, apperr.New(apperr.KindConflict, "profile URL is already registered")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := models.User{
		ID:           store.NextID(users),
		Username:     username,
		PasswordHash: string(hash),
		SHProfileURL: profileURL,
		Role:         models.RoleUser,
		Approved:     false,
	}
	users[store.Key(u.ID)] = u
	if err := s.store.Set(store.Users, users); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login checks credentials and issues a signed token. Unapproved accounts are
// rejected even with a correct password.
func (s *Service) Login(username, password string) (string, error) {
	var users map[string]models.User
	if err := s.store.Get(store.Users, &users); err != nil {
		return "", err
	}

	var user *models.User
	for _, u := range users {
		if u.Username == username {
			user = &u
			break
		}
	}
	if user == nil {
		return "", apperr.New(apperr.KindNotFound, "user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.New(apperr.KindAuth, "incorrect password")
	}
	if !user.Approved {
		return "", apperr.New(apperr.KindForbidden, "account is awaiting admin approval")
	}

	return jwtpkg.Sign(user.ID, user.Username, string(user.Role), s.tokenTTL)
}

// Revoke puts a jti on the blocked list. Re-revoking is a no-op. Entries are
// never pruned; the collection grows for the lifetime of the deployment.
func (s *Service) Revoke(jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	var blocked map[string]models.BlockedToken
	if err := s.store.Get(store.BlockedTokens, &blocked); err != nil {
		return err
	}
	if _, ok := blocked[jti]; ok {
		return nil
	}
	blocked[jti] = models.BlockedToken{
		JTI:       jti,
		BlockedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	return s.store.Set(store.BlockedTokens, blocked)
}
