package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jwtlib "maison_atelier/internal/lib/jwt"
	"maison_atelier/internal/lib/logger/sl"
	"maison_atelier/internal/repository"
	"maison_atelier/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginGateway exchanges operator credentials for a remote bearer token.
type LoginGateway interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Auth owns the operator's session with the remote service: it obtains
// the bearer token on login and persists it with a TTL matching the
// token's own lifetime.
type Auth struct {
	log         *slog.Logger
	gw          LoginGateway
	tokens      repository.TokenRepository
	fallbackTTL time.Duration
}

func New(log *slog.Logger, gw LoginGateway, tokens repository.TokenRepository, fallbackTTL time.Duration) *Auth {
	return &Auth{
		log:         log,
		gw:          gw,
		tokens:      tokens,
		fallbackTTL: fallbackTTL,
	}
}

func (a *Auth) Login(ctx context.Context, email, password string) error {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting operator login")

	token, err := a.gw.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, storage.ErrUnauthorized) {
			log.Warn("login rejected", sl.Err(err))
			return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("login failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	ttl := jwtlib.TokenTTL(token, a.fallbackTTL)

	if err := a.tokens.SaveAdminToken(ctx, token, ttl); err != nil {
		log.Error("failed to persist token", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("operator logged in", slog.Duration("token_ttl", ttl))

	return nil
}

func (a *Auth) Logout(ctx context.Context) error {
	const op = "auth.Logout"

	if err := a.tokens.ClearAdminToken(ctx); err != nil {
		a.log.Error("failed to clear token", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("operator logged out", slog.String("op", op))

	return nil
}

// Authenticated reports whether a remote token is currently stored.
func (a *Auth) Authenticated(ctx context.Context) bool {
	_, err := a.tokens.AdminToken(ctx)
	return err == nil
}
