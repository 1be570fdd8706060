package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"caseboard/api/internal/config"
	"caseboard/api/internal/ids"
	"caseboard/api/internal/models"
	"caseboard/api/internal/repository"
	"caseboard/api/internal/security"
)

type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	resets   *repository.ResetRepository
	settings *SettingsService
	cache    *redis.Client
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	resets *repository.ResetRepository,
	settings *SettingsService,
	cache *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		resets:   resets,
		settings: settings,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

type LoginInput struct {
	Email     string
	Password  string
	DeviceID  string
	IPAddress string
	UserAgent string
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         models.User
	DeviceID     string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := s.checkRateLimit(ctx, input.Email, input.IPAddress); err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	// Admin logins are pinned to the global allowlist plus any per-user
	// allowed IPs.
	if user.RoleID == models.RoleAdmin {
		if err := s.checkIPAllowed(ctx, user, input.IPAddress); err != nil {
			return AuthResult{}, err
		}
	}

	// Counsellor accounts live exactly 72 hours from first login; the
	// stamp is written once and never reset.
	if user.RoleID == models.RoleCounsellor {
		expired, err := s.stampOrCheckExpiry(ctx, &user)
		if err != nil {
			return AuthResult{}, err
		}
		if expired {
			return AuthResult{}, ErrAccountExpired
		}
	}

	deviceID := input.DeviceID
	if deviceID == "" {
		deviceID = ids.New()
	}

	return s.createSession(ctx, user, deviceID, input.IPAddress, input.UserAgent)
}

func (s *AuthService) checkRateLimit(ctx context.Context, email, ip string) error {
	if s.cache == nil {
		return nil
	}
	key := fmt.Sprintf("login:%s:%s", email, ip)
	count, err := s.cache.Incr(ctx, key).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("login rate limit check failed")
		return nil
	}
	if count == 1 {
		if err := s.cache.Expire(ctx, key, s.cfg.Security.LoginWindow).Err(); err != nil {
			s.log.Warn().Err(err).Msg("login rate limit expire failed")
		}
	}
	if count > int64(s.cfg.Security.LoginMaxAttempts) {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) checkIPAllowed(ctx context.Context, user models.User, ip string) error {
	allowlist, err := s.settings.IPAllowlist(ctx)
	if err != nil {
		return err
	}
	if user.AllowedIPs != nil && *user.AllowedIPs != "" {
		for _, extra := range strings.Split(*user.AllowedIPs, ",") {
			allowlist = append(allowlist, strings.TrimSpace(extra))
		}
	}
	if !IPAllowed(ip, allowlist) {
		return ErrIPNotAllowed
	}
	return nil
}

func (s *AuthService) stampOrCheckExpiry(ctx context.Context, user *models.User) (expired bool, err error) {
	if user.AccountExpiresAt == nil {
		expiresAt := time.Now().Add(s.cfg.Security.CounsellorTTL)
		stamped, err := s.users.SetAccountExpiryOnce(ctx, user.ID, expiresAt)
		if err != nil {
			return false, err
		}
		if stamped {
			user.AccountExpiresAt = &expiresAt
			return false, nil
		}
		// Raced with another first login; reload to see the real stamp.
		reloaded, err := s.users.GetByID(ctx, user.ID)
		if err != nil {
			return false, err
		}
		*user = reloaded
	}
	return user.AccountExpiresAt != nil && user.AccountExpiresAt.Before(time.Now()), nil
}

func (s *AuthService) createSession(ctx context.Context, user models.User, deviceID, ipAddress, userAgent string) (AuthResult, error) {
	refreshToken, refreshHash, err := security.GenerateOpaqueToken(64)
	if err != nil {
		return AuthResult{}, err
	}

	session := models.Session{
		ID:               ids.New(),
		UserID:           user.ID,
		DeviceID:         deviceID,
		RefreshTokenHash: refreshHash,
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
		ExpiresAt:        time.Now().Add(s.cfg.Security.RefreshTTL),
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		session.ID,
		user.RoleID,
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	if err := s.enforceSessionLimit(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("enforce session limit failed")
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		DeviceID:     deviceID,
	}, nil
}

func (s *AuthService) enforceSessionLimit(ctx context.Context, userID string) error {
	count, err := s.sessions.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count <= s.cfg.Security.MaxSessions {
		return nil
	}
	return s.sessions.DeleteOldestSessions(ctx, userID, s.cfg.Security.MaxSessions)
}

type RefreshInput struct {
	UserID       string
	DeviceID     string
	RefreshToken string
}

func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (AuthResult, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	if user.AccountExpiresAt != nil && user.AccountExpiresAt.Before(time.Now()) {
		return AuthResult{}, ErrAccountExpired
	}

	refreshHash := security.HashOpaqueToken(input.RefreshToken)
	session, err := s.sessions.FindByRefreshHash(ctx, input.UserID, refreshHash)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	if session.DeviceID != input.DeviceID {
		return AuthResult{}, ErrInvalidCredentials
	}

	if session.ExpiresAt.Before(time.Now()) {
		_ = s.sessions.DeleteByID(ctx, session.ID)
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.createSession(ctx, user, session.DeviceID, session.IPAddress, session.UserAgent)
}

func (s *AuthService) Logout(ctx context.Context, userID string, deviceID string) error {
	return s.sessions.DeleteByDevice(ctx, userID, deviceID)
}

// ForgotPassword issues a reset token and returns it to the caller; mail
// delivery is outside this service.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Do not reveal which emails exist.
			return "", nil
		}
		return "", err
	}

	token, tokenHash, err := security.GenerateOpaqueToken(32)
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.cfg.Security.ResetTokenTTL)
	if err := s.resets.Upsert(ctx, email, tokenHash, expiresAt); err != nil {
		return "", err
	}

	s.log.Info().Str("email", email).Time("expires_at", expiresAt).Msg("password reset issued")
	return token, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	reset, err := s.resets.FindByEmail(ctx, email)
	if err != nil {
		return ErrInvalidCredentials
	}
	if reset.ExpiresAt.Before(time.Now()) {
		_ = s.resets.Delete(ctx, email)
		return ErrInvalidCredentials
	}

	tokenHash := security.HashOpaqueToken(token)
	if subtle.ConstantTimeCompare(tokenHash, reset.TokenHash) != 1 {
		return ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}
	return s.resets.Delete(ctx, email)
}
