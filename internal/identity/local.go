package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
	"storefront/internal/store"
)

var _ Provider = (*LocalProvider)(nil)

// LocalProvider stores accounts in the users collection with bcrypt password
// hashes.
type LocalProvider struct {
	mu        sync.Mutex
	users     *store.Collection[models.User]
	tokens    *tokenIssuer
	blacklist Blacklist
	cost      int
	log       *zap.Logger

	// dummyHash is compared against when no account matches so unknown
	// emails cost the same as wrong passwords.
	dummyOnce sync.Once
	dummyHash []byte
}

type Option func(*LocalProvider)

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(p *LocalProvider) { p.cost = cost }
}

func WithBlacklist(b Blacklist) Option {
	return func(p *LocalProvider) { p.blacklist = b }
}

func WithClock(now func() time.Time) Option {
	return func(p *LocalProvider) { p.tokens.now = now }
}

func NewLocalProvider(s store.Store, secret string, accessTTL time.Duration, log *zap.Logger, opts ...Option) *LocalProvider {
	p := &LocalProvider{
		users: store.NewCollection[models.User](s, store.KeyUsers),
		tokens: &tokenIssuer{
			secret: []byte(secret),
			ttl:    accessTTL,
			now:    time.Now,
		},
		blacklist: NewMemoryBlacklist(),
		cost:      bcrypt.DefaultCost,
		log:       log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) Register(ctx context.Context, in RegisterInput) (Session, error) {
	user, err := p.createUser(ctx, in, models.RoleCustomer)
	if err != nil {
		return Session{}, err
	}
	p.log.Info("[AUTH] user registered", zap.String("email", user.Email))
	return p.session(user)
}

func (p *LocalProvider) createUser(ctx context.Context, in RegisterInput, role string) (models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return models.User{}, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	users, err := p.users.Items(ctx)
	if err != nil {
		return models.User{}, err
	}
	if indexByEmail(users, email) >= 0 {
		return models.User{}, ErrEmailTaken
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    p.tokens.now().UTC(),
	}
	if err := p.users.Replace(ctx, append(users, user)); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (p *LocalProvider) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)

	user, err := p.userByEmail(ctx, email)
	if errors.Is(err, ErrInvalidCredentials) {
		_ = bcrypt.CompareHashAndPassword(p.unknownUserHash(), []byte(password))
		p.log.Warn("[AUTH] login unknown email", zap.String("email", email))
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		p.log.Warn("[AUTH] login invalid credentials", zap.String("email", email))
		return Session{}, ErrInvalidCredentials
	}

	p.log.Info("[AUTH] login succeeded", zap.String("email", email))
	return p.session(user)
}

func (p *LocalProvider) unknownUserHash() []byte {
	p.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), p.cost)
		if err != nil {
			p.log.Error("[AUTH] dummy hash generation failed", zap.Error(err))
			return
		}
		p.dummyHash = hash
	})
	return p.dummyHash
}

func (p *LocalProvider) userByEmail(ctx context.Context, email string) (models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	users, err := p.users.Items(ctx)
	if err != nil {
		return models.User{}, err
	}
	idx := indexByEmail(users, email)
	if idx < 0 {
		return models.User{}, ErrInvalidCredentials
	}
	return users[idx], nil
}

// LoginWithProvider is not supported by local accounts.
func (p *LocalProvider) LoginWithProvider(_ context.Context, name string) (Session, error) {
	return Session{}, fmt.Errorf("%w: %s", ErrProviderUnavailable, name)
}

// CurrentUser verifies the token and returns the account it was issued for.
func (p *LocalProvider) CurrentUser(ctx context.Context, token string) (Profile, error) {
	c, err := p.tokens.parse(token)
	if err != nil {
		return Profile{}, err
	}

	revoked, err := p.blacklist.IsRevoked(ctx, c.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Profile{}, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}

	p.mu.Lock()
	users, err := p.users.Items(ctx)
	p.mu.Unlock()
	if err != nil {
		return Profile{}, err
	}
	for _, u := range users {
		if u.ID == c.Subject {
			return profileOf(u), nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrUserNotFound, c.Subject)
}

// Logout revokes the token until its expiry.
func (p *LocalProvider) Logout(ctx context.Context, token string) error {
	c, err := p.tokens.parse(token)
	if err != nil {
		return err
	}

	ttl := c.ExpiresAt.Sub(p.tokens.now())
	if err := p.blacklist.Revoke(ctx, c.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	p.log.Info("[AUTH] logged out", zap.String("email", c.Email))
	return nil
}

// EnsureAdmin creates the admin account if no user holds that email. An
// existing account is promoted to admin.
func (p *LocalProvider) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	p.mu.Lock()
	users, err := p.users.Items(ctx)
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if idx := indexByEmail(users, email); idx >= 0 {
		defer p.mu.Unlock()
		if users[idx].Role == models.RoleAdmin {
			return nil
		}
		users[idx].Role = models.RoleAdmin
		p.log.Info("[AUTH] promoted user to admin", zap.String("email", email))
		return p.users.Replace(ctx, users)
	}
	p.mu.Unlock()

	if _, err := p.createUser(ctx, RegisterInput{Name: "Admin", Email: email, Password: password}, models.RoleAdmin); err != nil {
		return err
	}
	p.log.Info("[AUTH] admin account created", zap.String("email", email))
	return nil
}

func (p *LocalProvider) session(user models.User) (Session, error) {
	profile := profileOf(user)
	token, err := p.tokens.sign(profile)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{
		AccessToken: token,
		ExpiresIn:   int64(p.tokens.ttl.Seconds()),
		User:        profile,
	}, nil
}

func indexByEmail(users []models.User, email string) int {
	for i := range users {
		if normalizeEmail(users[i].Email) == email {
			return i
		}
	}
	return -1
}
