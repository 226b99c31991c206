// Package services contains the Identity & Data Service business logic:
// registration and email verification, sign-in with JWT access tokens plus
// server-stored refresh tokens, sign-out revocation, and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/questlog/internal/common"
	"github.com/dmitrijs2005/questlog/internal/dbx"
	"github.com/dmitrijs2005/questlog/internal/logging"
	"github.com/dmitrijs2005/questlog/internal/server/auth"
	"github.com/dmitrijs2005/questlog/internal/server/config"
	"github.com/dmitrijs2005/questlog/internal/server/metrics"
	"github.com/dmitrijs2005/questlog/internal/server/models"
	"github.com/dmitrijs2005/questlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/questlog/internal/server/revocation"
	"github.com/google/uuid"
)

const (
	minPasswordLength    = 6
	minDisplayNameLength = 3
	refreshTokenBytes    = 32
)

// Operation names used as the "op" metrics label.
const (
	OpSignUp        = "sign_up"
	OpVerifyEmail   = "verify_email"
	OpSignIn        = "sign_in"
	OpRefreshToken  = "refresh_token"
	OpSignOut       = "sign_out"
	OpDeleteAccount = "delete_account"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AccountService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	revoked                      revocation.Store
	metrics                      *metrics.Recorder
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	requireEmailVerification     bool
}

func NewAccountService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	revoked revocation.Store,
	rec *metrics.Recorder,
	log logging.Logger,
	cfg *config.Config,
) *AccountService {
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		revoked:                      revoked,
		metrics:                      rec,
		log:                          log.With("component", "account_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		requireEmailVerification:     cfg.RequireEmailVerification,
	}
}

// SignUp registers a user and their profile in one transaction. When email
// verification is required the account starts unconfirmed and a
// verification token is issued.
func (s *AccountService) SignUp(ctx context.Context, email, password, displayName string) (u *models.User, err error) {
	defer func() { s.metrics.Observe(OpSignUp, err) }()

	email = strings.TrimSpace(email)
	if addr, perr := mail.ParseAddress(email); perr != nil || addr.Address != email {
		return nil, common.ErrorInvalidEmail
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, common.ErrorWeakPassword
	}
	displayName = strings.TrimSpace(displayName)
	if utf8.RuneCountInString(displayName) < minDisplayNameLength {
		return nil, common.ErrorDisplayNameSize
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hash, EmailConfirmed: !s.requireEmailVerification}
	if s.requireEmailVerification {
		user.VerificationToken = uuid.NewString()
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		return s.repomanager.Profiles(tx).Create(ctx, &models.Profile{ID: created.ID, DisplayName: displayName})
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "confirmed", user.EmailConfirmed)
	if user.VerificationToken != "" {
		// No mailer: the token is handed to the operator through the log.
		s.log.Info(ctx, "email verification pending", "email", user.Email, "token", user.VerificationToken)
	}
	return user, nil
}

func (s *AccountService) VerifyEmail(ctx context.Context, token string) (err error) {
	defer func() { s.metrics.Observe(OpVerifyEmail, err) }()

	if token == "" {
		return common.ErrInvalidToken
	}
	user, err := s.repomanager.Users(s.db).ConfirmEmail(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("error confirming email: %w", err)
	}
	s.log.Info(ctx, "email confirmed", "user_id", user.ID)
	return nil
}

// SignIn checks the password first and the confirmation state second, so an
// unconfirmed account is only reported to someone who knows its password.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (pair *TokenPair, u *models.User, err error) {
	defer func() { s.metrics.Observe(OpSignIn, err) }()

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, nil, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return nil, nil, common.ErrorInvalidCredentials
	}
	if s.requireEmailVerification && !user.EmailConfirmed {
		return nil, nil, common.ErrorEmailNotConfirmed
	}

	pair, err = s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *AccountService) RefreshToken(ctx context.Context, refreshToken string) (pair *TokenPair, err error) {
	defer func() { s.metrics.Observe(OpRefreshToken, err) }()

	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		if err := repo.Delete(ctx, refreshToken); err != nil {
			s.log.Warn(ctx, "failed to drop expired refresh token", "error", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		pair, err = s.generateTokenPair(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// SignOut drops every refresh token of the user and revokes the presented
// access token for the rest of its lifetime.
func (s *AccountService) SignOut(ctx context.Context, claims *auth.Claims) (err error) {
	defer func() { s.metrics.Observe(OpSignOut, err) }()

	if err := s.repomanager.RefreshTokens(s.db).DeleteByUser(ctx, claims.UserID); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	s.log.Info(ctx, "user signed out", "user_id", claims.UserID)
	return nil
}

func (s *AccountService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// GetProfile returns nil without error when the profile does not exist.
func (s *AccountService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, err := s.repomanager.Profiles(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	return p, nil
}

// DeleteAccount removes the user inside one transaction. Profile, quests,
// leaderboard entries and refresh tokens are removed by the schema's
// cascades, so either everything goes or nothing does. The access token
// stays valid until the caller signs out.
func (s *AccountService) DeleteAccount(ctx context.Context, claims *auth.Claims) (err error) {
	defer func() { s.metrics.Observe(OpDeleteAccount, err) }()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).Delete(ctx, claims.UserID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("error deleting account: %w", err)
	}

	s.log.Info(ctx, "account deleted", "user_id", claims.UserID)
	return nil
}

// Call dispatches a named remote procedure on behalf of the caller.
func (s *AccountService) Call(ctx context.Context, claims *auth.Claims, name string) error {
	switch name {
	case common.DeleteAccountProcedure:
		return s.DeleteAccount(ctx, claims)
	default:
		return common.ErrorUnknownProcedure
	}
}

func (s *AccountService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revoked.IsRevoked(ctx, jti)
}

func (s *AccountService) revoke(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("error revoking access token: %w", err)
	}
	return nil
}

func (s *AccountService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
