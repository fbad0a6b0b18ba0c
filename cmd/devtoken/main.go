// Command devtoken mints a bearer token signed with JWT_SECRET_KEY for local
// development against the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/medstudy-backend/internal/app"
	"github.com/yungbote/medstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/services"
)

func main() {
	var (
		sub       string
		email     string
		firstName string
		lastName  string
		ttl       time.Duration
	)
	flag.StringVar(&sub, "sub", "", "user id (random when empty)")
	flag.StringVar(&email, "email", "dev@example.com", "email claim")
	flag.StringVar(&firstName, "first-name", "Dev", "first_name claim")
	flag.StringVar(&lastName, "last-name", "User", "last_name claim")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	log := logger.Nop()
	cfg, err := app.LoadConfig(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	auth, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "auth: %v\n", err)
		os.Exit(1)
	}
	if sub == "" {
		sub = uuid.NewString()
	}
	tok, err := auth.MintToken(ctxutil.RequestData{
		UserID:    sub,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mint: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
