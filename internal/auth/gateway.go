// Package auth logs users in through a social login provider and issues the
// session tokens that gate the calendar.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrAuthFailed matches every *Error
var ErrAuthFailed = errors.New("authentication failed")

// Error is a failed or cancelled login
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrAuthFailed }

func failed(reason string, err error) *Error {
	return &Error{Reason: reason, Err: err}
}

// Profile is the part of the provider's user object the diary uses
type Profile struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// Gateway is a login provider
type Gateway interface {
	// EnsureInitialized prepares the gateway; calling it again is a no-op
	EnsureInitialized() error
	// AuthorizeURL is where the user is sent to log in
	AuthorizeURL(state string) string
	// Login completes the flow with the code the provider redirected back with
	Login(ctx context.Context, code string) (Profile, error)
}

// DevGateway logs everyone in under a fixed nickname. It is used when no
// provider key is configured.
type DevGateway struct {
	Nickname    string
	CallbackURL string
	Logger      *log.Logger

	once sync.Once
}

// EnsureInitialized prints the unprotected-mode warning once
func (g *DevGateway) EnsureInitialized() error {
	g.once.Do(func() {
		logger := g.Logger
		if logger == nil {
			logger = log.Default()
		}
		logger.Println("╔══════════════════════════════════════════════════════════════════╗")
		logger.Println("║                         ⚠️  WARNING ⚠️                            ║")
		logger.Println("║                                                                  ║")
		logger.Println("║  NO KAKAO_REST_KEY SET - DEV LOGIN ENABLED!                     ║")
		logger.Println("║                                                                  ║")
		logger.Println("║  This is for LOCAL DEVELOPMENT ONLY!                            ║")
		logger.Printf("║  Everyone is logged in as: %-37s ║\n", g.nickname())
		logger.Println("║                                                                  ║")
		logger.Println("╚══════════════════════════════════════════════════════════════════╝")
	})
	return nil
}

// AuthorizeURL skips the provider and goes straight to the callback
func (g *DevGateway) AuthorizeURL(state string) string {
	return fmt.Sprintf("%s?code=dev&state=%s", g.CallbackURL, state)
}

func (g *DevGateway) Login(ctx context.Context, code string) (Profile, error) {
	if code == "" {
		return Profile{}, failed("missing authorization code", nil)
	}
	return Profile{ID: "dev", Nickname: g.nickname()}, nil
}

func (g *DevGateway) nickname() string {
	if g.Nickname == "" {
		return "개발자"
	}
	return g.Nickname
}
