package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialdesk/config"
	"socialdesk/internal/domain"
	"socialdesk/internal/repository"
	desk_errors "socialdesk/pkg/errors"
	"socialdesk/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgInvalidCredentials = "بيانات الدخول غير صحيحة"
	MsgTokenInvalid       = "Token is not valid"
)

type AuthService struct {
	admins    *repository.AdminRepository
	jwtSecret []byte
	accessTTL time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

func NewAuthService(admins *repository.AdminRepository, cfg *config.Config, l *logger.Logger) *AuthService {
	return &AuthService{
		admins:    admins,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryHours) * time.Hour,
		logger:    l,
		now:       time.Now,
	}
}

type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	Admin       *domain.Admin `json:"admin"`
}

type AccessClaims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// compared against when the e-mail is unknown so both paths cost one bcrypt run
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("socialdesk-dummy-password"), bcrypt.DefaultCost)

func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResponse, error) {
	email, err := domain.ValidateEmail(in.Email)
	if err != nil {
		return LoginResponse{}, err
	}
	if in.Password == "" {
		return LoginResponse{}, desk_errors.Invalid(domain.MsgPasswordRequired)
	}

	admin, err := s.admins.FindOne(ctx, repository.Filter{"email": email})
	if errors.Is(err, desk_errors.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return LoginResponse{}, desk_errors.Unauthorized(MsgInvalidCredentials)
	}
	if err != nil {
		return LoginResponse{}, err
	}
	if err := comparePassword(admin.PasswordHash, in.Password); err != nil {
		return LoginResponse{}, desk_errors.Unauthorized(MsgInvalidCredentials)
	}

	token, expiresIn, err := s.newAccessToken(admin)
	if err != nil {
		return LoginResponse{}, err
	}
	s.logger.WithContext(ctx).Infof("admin %s logged in", admin.Email)

	return LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Admin:       admin,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, admin *domain.Admin) {
	s.logger.WithContext(ctx).Infof("admin %s logged out at %s", admin.Email, s.now().UTC().Format(time.RFC3339))
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, desk_errors.Unauthorized(MsgTokenInvalid)
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, desk_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return AccessClaims{}, desk_errors.Unauthorized(MsgTokenInvalid)
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid || claims.AdminID == "" {
		return AccessClaims{}, desk_errors.Unauthorized(MsgTokenInvalid)
	}

	return *claims, nil
}

// Authenticate verifies the token and loads the admin it was issued to.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.Admin, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	admin, err := s.admins.Get(ctx, claims.AdminID)
	if errors.Is(err, desk_errors.ErrNotFound) {
		return nil, desk_errors.Unauthorized(MsgTokenInvalid)
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// EnsureBootstrapAdmin creates the admin account if no admin has that e-mail.
// It reports whether a new account was created.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email, err := domain.ValidateEmail(email)
	if err != nil {
		return false, err
	}
	if password == "" {
		return false, desk_errors.Invalid(domain.MsgPasswordRequired)
	}
	found, err := s.admins.Exists(ctx, repository.Filter{"email": email})
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	admin := &domain.Admin{Email: email, PasswordHash: hash, Name: strings.TrimSpace(name)}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, desk_errors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	s.logger.WithContext(ctx).Infof("bootstrap admin %s created", email)
	return true, nil
}

func (s *AuthService) newAccessToken(admin *domain.Admin) (string, int64, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)

	claims := AccessClaims{
		AdminID: admin.ID.Hex(),
		Email:   admin.Email,
		Name:    admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(s.accessTTL.Seconds()), nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

type ctxKey string

var adminKey ctxKey = "admin"

func WithAdmin(ctx context.Context, admin *domain.Admin) context.Context {
	ctx = context.WithValue(ctx, adminKey, admin)
	return context.WithValue(ctx, logger.AdminIdKey, admin.ID.Hex())
}

func AdminFromContext(ctx context.Context) (*domain.Admin, bool) {
	admin, ok := ctx.Value(adminKey).(*domain.Admin)
	return admin, ok && admin != nil
}
