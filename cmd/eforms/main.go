// Command eforms drives the form builder, filler and analytics views against
// a running e-Forms API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/eforms/internal/adapters/client/rest"
	"github.com/vncsmyrnk/eforms/internal/core/domain"
	"github.com/vncsmyrnk/eforms/internal/logger"
)

const usage = `usage: eforms [flags] <command> [args]

Flags go before the command.

commands:
  create <definition.json>     build and save a new form
  show <form-id>               print a form as respondents see it
  fill <form-id> <answers.json> submit one response
  analytics <form-id>          print per-question analytics
  export <form-id>             write all responses as CSV

flags:
`

type globals struct {
	apiURL   string
	email    string
	password string
	token    string
	output   string
}

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Options{Level: "warn", Development: true})
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Error("eforms failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var g globals
	fs := flag.NewFlagSet("eforms", flag.ContinueOnError)
	fs.StringVar(&g.apiURL, "api", envOr("EFORMS_API_URL", "http://localhost:8080/api"), "API base URL")
	fs.StringVar(&g.email, "email", os.Getenv("EFORMS_EMAIL"), "Account email for owner commands")
	fs.StringVar(&g.password, "password", os.Getenv("EFORMS_PASSWORD"), "Account password for owner commands")
	fs.StringVar(&g.token, "token", os.Getenv("EFORMS_TOKEN"), "Access token, used instead of email and password")
	fs.StringVar(&g.output, "o", "", "Write export output to this file instead of stdout")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmdArgs := fs.Args()
	if len(cmdArgs) < 2 {
		fs.Usage()
		return fmt.Errorf("missing command or argument")
	}

	cmd, arg := cmdArgs[0], cmdArgs[1]
	switch cmd {
	case "create":
		client, err := g.ownerClient(ctx)
		if err != nil {
			return err
		}
		return createForm(ctx, client, arg, stdout)
	case "show":
		return showForm(ctx, g.publicClient(), arg, stdout)
	case "fill":
		if len(cmdArgs) < 3 {
			return fmt.Errorf("fill needs a form id and an answers file")
		}
		return fillForm(ctx, g.publicClient(), arg, cmdArgs[2], stdout)
	case "analytics":
		client, err := g.ownerClient(ctx)
		if err != nil {
			return err
		}
		return printAnalytics(ctx, client, arg, stdout)
	case "export":
		client, err := g.ownerClient(ctx)
		if err != nil {
			return err
		}
		return exportResponses(ctx, client, arg, g.output, stdout)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (g globals) publicClient() *rest.Client {
	return rest.New(g.apiURL)
}

// ownerClient logs in unless a token was given.
func (g globals) ownerClient(ctx context.Context) (*rest.Client, error) {
	if g.token != "" {
		return rest.New(g.apiURL, rest.WithSession(&domain.Session{AccessToken: g.token})), nil
	}
	if g.email == "" || g.password == "" {
		return nil, fmt.Errorf("owner commands need -token or -email and -password")
	}
	session, err := rest.New(g.apiURL).Login(ctx, g.email, g.password)
	if err != nil {
		return nil, err
	}
	return rest.New(g.apiURL, rest.WithSession(session)), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
