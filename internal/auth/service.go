package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"brewhaven-site/internal/domain"
	userrepo "brewhaven-site/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles shopper signup/login flows and reports identity changes to
// subscribers.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	passwordMin int

	mu      sync.Mutex
	subs    map[int]chan domain.Owner
	nextSub int
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(),
		accessTTL:   48 * time.Hour,
		passwordMin: 8,
		subs:        make(map[int]chan domain.Owner),
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
}

// Signup registers a new shopper account.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
	})
}

// Login validates credentials and issues an access token. Subscribers are
// notified of the sign-in so carts scoped to the user are reloaded.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	s.notify(domain.UserOwner(u.ID))
	return u, token, nil
}

// Logout revokes the access token and notifies subscribers of the sign-out.
func (s *Service) Logout(ctx context.Context, token string) error {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return ErrInvalidToken
	}
	s.tokens.Revoke(token)
	s.notify(domain.UserOwner(meta.UserID))
	return nil
}

// UserForToken resolves an access token to the full user record. It backs
// session restore when the site reloads with a stored token.
func (s *Service) UserForToken(ctx context.Context, token string) (*domain.User, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return nil, ErrInvalidToken
	}
	return s.repo.GetByID(ctx, meta.UserID)
}

// UserIDForToken resolves an access token to the authenticated user id.
func (s *Service) UserIDForToken(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.UserID, nil
}

// AccessTTLSeconds is the lifetime of issued access tokens in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

// Subscribe returns a channel that receives the affected owner identity on
// every sign-in and sign-out, plus a function that cancels the subscription
// and closes the channel.
func (s *Service) Subscribe() (<-chan domain.Owner, func()) {
	ch := make(chan domain.Owner, 16)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Service) notify(owner domain.Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- owner:
		default:
			// slow subscriber, drop rather than block the login path
		}
	}
}

func validatePassword(password string, min int) error {
	if len(password) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain letters and digits")
	}
	return nil
}
