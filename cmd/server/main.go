package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/arcash/auth"
	fakeactiontokenrepo "github.com/jrsteele09/arcash/auth/repofakes"
	"github.com/jrsteele09/arcash/bank"
	bankrepofake "github.com/jrsteele09/arcash/bank/repofake"
	"github.com/jrsteele09/arcash/internal/config"
	"github.com/jrsteele09/arcash/internal/logging"
	"github.com/jrsteele09/arcash/server"
	"github.com/jrsteele09/arcash/token"
	"github.com/jrsteele09/arcash/token/refresh"
	refreshrepofake "github.com/jrsteele09/arcash/token/refresh/repofake"
	fakeuserrepo "github.com/jrsteele09/arcash/users/repofake"
	"github.com/rs/zerolog/log"
)

const revokedTokenCleanupInterval = 10 * time.Minute

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logging.Setup(c.GetLogLevel(), os.Stderr)
	displayAppname(c.GetAppName())

	services, tokens, err := newServices(c)
	if err != nil {
		return err
	}
	handler, err := server.New(c, services)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupRevokedTokens(ctx, tokens)

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(srv) }()

	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// newServices wires the in-memory repositories into the domain services and seeds the admin.
func newServices(c config.Config) (server.Services, *token.Manager, error) {
	secret := c.GetTokenSecret()
	if secret == "" {
		generated, err := randomString(32)
		if err != nil {
			return server.Services{}, nil, err
		}
		secret = generated
		log.Warn().Msg("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	tokens := token.New(token.NewHMACSigner(secret), token.WithTokenExpiry(c.GetAccessTokenExpiry()))
	refreshes := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), c)
	bankService, err := bank.NewService(bankrepofake.NewRepos(), c)
	if err != nil {
		return server.Services{}, nil, err
	}
	authService, err := auth.NewService(
		auth.Repos{Users: fakeuserrepo.NewFakeUserRepo(), ActionTokens: fakeactiontokenrepo.NewFakeActionTokenRepo()},
		tokens, refreshes, bankService, c,
	)
	if err != nil {
		return server.Services{}, nil, err
	}

	if err := seedAdmin(authService, c); err != nil {
		return server.Services{}, nil, err
	}
	return server.Services{Auth: authService, Bank: bankService, Tokens: tokens}, tokens, nil
}

func seedAdmin(authService *auth.Service, c config.Config) error {
	password := c.GetAdminPassword()
	generated := password == ""
	if generated {
		p, err := randomString(12)
		if err != nil {
			return err
		}
		// meets the password strength rule whatever the random part holds
		password = "Aa1" + p
	}
	admin, err := authService.SeedAdmin(c.GetAdminEmail(), password)
	if err != nil {
		return fmt.Errorf("[seedAdmin] %w", err)
	}
	event := log.Info().Str("email", admin.Email).Str("account", admin.AccountID)
	if generated {
		event = event.Str("password", password)
	}
	event.Msg("admin user ready")
	return nil
}

func cleanupRevokedTokens(ctx context.Context, tokens *token.Manager) {
	ticker := time.NewTicker(revokedTokenCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := tokens.CleanupRevokedTokens(); n > 0 {
				log.Debug().Int("removed", n).Msg("pruned revoked access tokens")
			}
		}
	}
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
