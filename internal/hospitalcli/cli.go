package hospitalcli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/phillip-england/hospitalsuite/internal/clientapp"
	"github.com/phillip-england/hospitalsuite/internal/envutil"
)

var ErrUsage = errors.New("usage")

// runClient is swapped in tests.
var runClient = func(ctx context.Context, cfg clientapp.Config) error {
	return clientapp.Run(ctx, cfg)
}

func Execute(args []string) error {
	if len(args) < 1 {
		return usageError()
	}

	switch args[0] {
	case "setup":
		return runSetup(args[1:])
	case "run":
		return runCommand(args[1:])
	default:
		return usageError()
	}
}

func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: hospitalsuite setup --api-base-url <url> [--client-addr :3000] [--env-file .env] [--force]")
	fmt.Fprintln(w, "       hospitalsuite run [--env-file .env]")
}

func usageError() error {
	return fmt.Errorf("%w: hospitalsuite <setup|run> [...]", ErrUsage)
}

func runSetup(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	apiBaseURL := fs.String("api-base-url", "", "base URL of the hospital API server")
	clientAddr := fs.String("client-addr", ":3000", "listen address for the web client")
	redisAddr := fs.String("redis-addr", "", "redis address for shared sessions (empty keeps sessions in memory)")
	envPath := fs.String("env-file", ".env", "path to .env file")
	force := fs.Bool("force", false, "overwrite existing env file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base := strings.TrimSpace(*apiBaseURL)
	if base == "" {
		return errors.New("--api-base-url is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid --api-base-url %q", base)
	}

	csrfKey, err := clientapp.NewCSRFKey()
	if err != nil {
		return err
	}

	values := map[string]string{
		"API_BASE_URL": strings.TrimRight(base, "/"),
		"CLIENT_ADDR":  *clientAddr,
		"CSRF_KEY":     csrfKey,
	}
	if strings.TrimSpace(*redisAddr) != "" {
		values["REDIS_ADDR"] = strings.TrimSpace(*redisAddr)
	}

	if err := envutil.WriteDotEnv(*envPath, values, *force); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *envPath)
	return nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	envPath := fs.String("env-file", ".env", "path to .env file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := envutil.LoadDotEnv(*envPath); err != nil {
		return fmt.Errorf("load %s: %w", *envPath, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runClient(ctx, clientapp.DefaultConfigFromEnv()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
