package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/revaspay/payment-webhooks/internal/config"
	"github.com/revaspay/payment-webhooks/internal/utils"
)

// admintoken mints a bearer token for the settlement inspection API
func main() {
	cfg := config.LoadConfig()

	if err := run(os.Args[1:], cfg.Admin.JWTSecret, os.Stdout); err != nil {
		log.Fatalf("admintoken: %v", err)
	}
}

func run(args []string, secret string, out io.Writer) error {
	flags := flag.NewFlagSet("admintoken", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	subject := flags.String("subject", "", "operator identity recorded in the token")
	ttl := flags.Duration("ttl", time.Hour, "token lifetime")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if secret == "" {
		return errors.New("ADMIN_JWT_SECRET is not set")
	}
	if *subject == "" {
		return errors.New("-subject is required")
	}
	if *ttl <= 0 || *ttl > 24*time.Hour {
		return fmt.Errorf("-ttl must be between 0 and 24h, got %s", *ttl)
	}

	token, err := utils.GenerateToken(secret, *subject, true, *ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
