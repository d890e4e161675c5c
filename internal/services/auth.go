package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	userrepo "github.com/yungbote/careercoach-backend/internal/data/repos/user"
	types "github.com/yungbote/careercoach-backend/internal/domain"
	"github.com/yungbote/careercoach-backend/internal/observability"
	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/platform/ctxutil"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/platform/sessionstore"
)

const (
	MinPasswordLength = 8
	DefaultAccessTTL  = 24 * time.Hour
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,63}$`)

type JWTClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Session struct {
	User        *types.User `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

type RegisterInput struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Authenticate(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	revocations  sessionstore.Revocations
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	revocations sessionstore.Revocations,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if revocations == nil {
		revocations = sessionstore.NewMemoryRevocations()
	}
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		revocations:  revocations,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	username := userrepo.NormalizeUsername(in.Username)
	if !usernamePattern.MatchString(username) {
		return nil, invalid("username must be 3-64 characters of letters, digits, '.', '_' or '-'")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, invalid("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	display := strings.TrimSpace(in.DisplayName)
	if display == "" {
		display = username
	}
	user := &types.User{
		Username:     username,
		DisplayName:  display,
		PasswordHash: string(hash),
		Role:         types.RoleStandard,
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := as.userRepo.UsernameExists(ctx, tx, username)
		if err != nil {
			return err
		}
		if exists {
			return apierr.New(http.StatusConflict, "username_taken", fmt.Errorf("username %q is already registered", username))
		}
		_, err = as.userRepo.Create(ctx, tx, []*types.User{user})
		return err
	})
	if err != nil {
		if errors.Is(err, repos.ErrConflict) {
			return nil, apierr.New(http.StatusConflict, "username_taken", fmt.Errorf("username %q is already registered", username))
		}
		return nil, err
	}
	as.log.Info("user registered", "user_id", user.ID.String())
	return user, nil
}

func (as *authService) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	user, err := as.userRepo.GetByUsername(ctx, nil, userrepo.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			// Compare anyway so unknown usernames cost the same as bad passwords.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			observability.Current().IncSecurityEvent("login_failed")
			return nil, &AuthError{Err: err}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		observability.Current().IncSecurityEvent("login_failed")
		return nil, &AuthError{Err: err}
	}
	token, exp, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	as.log.Info("user logged in", "user_id", user.ID.String())
	return &Session{User: user, AccessToken: token, ExpiresAt: exp}, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

func (as *authService) Logout(ctx context.Context) error {
	rd, err := requireSession(ctx)
	if err != nil {
		return err
	}
	if rd.TokenID == "" {
		return fmt.Errorf("token id missing from session")
	}
	if err := as.revocations.Revoke(ctx, rd.TokenID, rd.ExpiresAt); err != nil {
		as.log.Warn("Error revoking token", "error", err)
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(as.accessTTL)
	claims := JWTClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrInvalidToken
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	revoked, err := as.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return ctx, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		observability.Current().IncSecurityEvent("revoked_token")
		return ctx, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}
	rd := &ctxutil.RequestData{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		rd.ExpiresAt = claims.ExpiresAt.Time
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
