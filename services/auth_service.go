package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnkhanh/forohub-backend/models"
	"github.com/vnkhanh/forohub-backend/store"
	"github.com/vnkhanh/forohub-backend/utils"
)

type userStore interface {
	Create(ctx context.Context, u *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type tokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
	VerifyToken(token string) (*utils.Claims, error)
}

type googleVerifier interface {
	Verify(ctx context.Context, rawToken string) (utils.GoogleIdentity, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type RegisterUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (i RegisterUserInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.EmailFormat, validation.RuneLength(1, 150)),
		validation.Field(&i.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&i.FullName, validation.Required, validation.RuneLength(1, 150)),
	)
}

// LoginResult is returned by every successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type AuthService struct {
	tx         txManager
	users      userStore
	tokens     tokenIssuer
	revoker    utils.TokenRevoker
	now        func() time.Time
	bcryptCost int
	google     googleVerifier
	mailer     mailer
	log        *slog.Logger
}

func NewAuthService(
	log *slog.Logger,
	tx txManager,
	users userStore,
	tokens tokenIssuer,
	revoker utils.TokenRevoker,
	opts ...Option,
) *AuthService {
	o := buildOptions(opts)
	return &AuthService{
		tx:         tx,
		users:      users,
		tokens:     tokens,
		revoker:    revoker,
		now:        o.now,
		bcryptCost: o.bcryptCost,
		google:     o.google,
		mailer:     o.mailer,
		log:        log.With("service", "auth"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResolveUser looks a user up by e-mail.
func (s *AuthService) ResolveUser(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, invalidInput("email must not be blank")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// RegisterUser creates a regular member account.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterUserInput) (*models.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validate(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		taken, err := s.users.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return conflict("email already registered")
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return conflict("email already registered")
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()))
	s.sendWelcome(*user)
	return user, nil
}

// VerifyPassword reports whether raw matches the user's stored hash.
func (s *AuthService) VerifyPassword(user models.User, raw string) bool {
	if user.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(raw)) == nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, unauthenticated("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !s.VerifyPassword(*u, password) {
		return nil, unauthenticated("invalid email or password")
	}
	return s.issue(ctx, u)
}

// LoginWithGoogle signs in with a Google ID token, creating the account on first use.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error) {
	if s.google == nil {
		return nil, invalidInput("google login is not configured")
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, invalidInput("id token must not be blank")
	}
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.log.WarnContext(ctx, "google token rejected", slog.Any("error", err))
		return nil, unauthenticated("invalid google token")
	}
	email := normalizeEmail(identity.Email)

	var (
		user    *models.User
		created bool
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByEmail(ctx, email)
		if err == nil {
			user = u
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("get user: %w", err)
		}

		// Google accounts get an unusable random password.
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		name := strings.TrimSpace(identity.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		user = &models.User{
			FullName: name,
			Email:    email,
			Password: string(hash),
			Role:     models.RoleUser,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return conflict("email already registered")
			}
			return fmt.Errorf("create user: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.log.InfoContext(ctx, "user registered via google", slog.String("user_id", user.ID.String()))
		s.sendWelcome(*user)
	}
	return s.issue(ctx, user)
}

// Authenticate resolves the user behind an access token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, unauthenticated("invalid or expired token")
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, unauthenticated("user no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.InfoContext(ctx, "user logged out", slog.String("user_id", claims.UserID))
	return nil
}

func (s *AuthService) verify(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, unauthenticated("invalid or expired token")
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, unauthenticated("token has been revoked")
	}
	return claims, nil
}

func (s *AuthService) issue(ctx context.Context, u *models.User) (*LoginResult, error) {
	token, err := s.tokens.GenerateToken(u.ID.String(), string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	s.log.InfoContext(ctx, "user logged in", slog.String("user_id", u.ID.String()))
	return &LoginResult{Token: token, User: *u}, nil
}

func (s *AuthService) sendWelcome(u models.User) {
	if s.mailer == nil {
		return
	}
	go func() {
		body := fmt.Sprintf("<p>Hi %s,</p><p>Welcome to ForoHub! You can now open topics and reply to other members.</p>", u.FullName)
		if err := s.mailer.SendEmail(u.Email, "Welcome to ForoHub", body); err != nil {
			s.log.Warn("welcome email failed", slog.String("user_id", u.ID.String()), slog.Any("error", err))
		}
	}()
}
