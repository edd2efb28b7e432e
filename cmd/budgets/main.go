package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"budgets/internal/api"
	"budgets/internal/budget"
	"budgets/internal/cache"
	"budgets/internal/config"
	"budgets/internal/core"
	"budgets/internal/localauth"
	"budgets/internal/log"
	"budgets/internal/session"
	"budgets/internal/storage"
)

// stderrNotifier is the terminal analog of the mobile alert dialog.
type stderrNotifier struct{}

func (stderrNotifier) Notify(title, message string) {
	fmt.Fprintf(os.Stderr, "\n%s\n%s\n", title, message)
}

func main() {
	// Load .env file for local development (ignore errors elsewhere)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.NewStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open local store", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	client := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout}, store, logger.WithComponent(log.ComponentAPI))
	authService := api.NewAuthService(client, store)
	budgets := budget.NewService(
		api.NewBudgetService(client),
		cache.NewLRUCache[api.Budget](cfg.BudgetCacheSize, cfg.BudgetCacheTTL),
		logger,
	)
	localAuth := localauth.NewTerminalAuthenticator(store, logger)
	manager := session.NewManager(authService, store, localAuth, budgets, stderrNotifier{}, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(os.Args) > 1 && os.Args[1] == "enroll" {
		if err := enrollPasscode(ctx, localAuth); err != nil {
			logger.Error("Passcode enrollment failed", log.FieldError, err)
			os.Exit(1)
		}
		fmt.Println("Passcode enrolled.")
		return
	}

	// Startup silent refresh; always lands on SignedOut
	manager.Verify(ctx)

	if len(os.Args) > 1 && os.Args[1] == "logout" {
		manager.Logout(ctx)
		fmt.Println("Signed out.")
		return
	}

	if !manager.TryLocalAuthentication(ctx) {
		if err := interactiveLogin(ctx, manager); err != nil {
			logger.Error("Login failed", log.FieldError, err)
			os.Exit(1)
		}
	}

	if manager.State() != session.SignedIn {
		fmt.Fprintln(os.Stderr, "Not signed in.")
		os.Exit(1)
	}

	if err := printMonth(ctx, budgets); err != nil {
		logger.Error("Failed to load budget", log.FieldError, err)
		os.Exit(1)
	}
}

func interactiveLogin(ctx context.Context, manager *session.Manager) error {
	reader := bufio.NewReader(os.Stdin)

	for attempt := 0; attempt < 3; attempt++ {
		fmt.Fprint(os.Stderr, "Email: ")
		email, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}

		result := manager.Login(ctx, session.LoginRequest{
			Email:    strings.TrimSpace(email),
			Password: string(password),
		})
		switch {
		case result.EmailError != "":
			fmt.Fprintln(os.Stderr, result.EmailError)
		case result.PasswordError != "":
			fmt.Fprintln(os.Stderr, result.PasswordError)
		case result.VerificationEmailSent:
			return confirmEmail(ctx, manager, reader)
		case result.Valid:
			return nil
		default:
			return fmt.Errorf("login did not succeed")
		}
	}
	return fmt.Errorf("too many failed attempts")
}

func confirmEmail(ctx context.Context, manager *session.Manager, reader *bufio.Reader) error {
	fmt.Fprint(os.Stderr, "A confirmation code was sent to your email. Code: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	code, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return fmt.Errorf("invalid code: %w", err)
	}
	if !manager.ConfirmEmailVerification(ctx, code) {
		return fmt.Errorf("code not accepted")
	}
	return nil
}

func enrollPasscode(ctx context.Context, localAuth *localauth.TerminalAuthenticator) error {
	fmt.Fprint(os.Stderr, "New passcode: ")
	passcode, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	return localAuth.Enroll(ctx, string(passcode))
}

func printMonth(ctx context.Context, budgets *budget.Service) error {
	today := core.Today(time.Now())

	summary, err := budgets.Summarize(ctx, today.Year(), today.Month())
	if err != nil {
		return err
	}
	dueToday, err := budgets.DueToday(ctx, today)
	if err != nil {
		return err
	}

	fmt.Printf("%s %d\n", time.Month(summary.Month), summary.Year)
	fmt.Printf("  In:  %s\n", summary.MoneyIn.Format())
	fmt.Printf("  Out: %s\n", summary.MoneyOut.Format())
	fmt.Printf("  Net: %s %s\n", summary.Net.Sign, summary.Net.Amount.Format())

	if len(dueToday) == 0 {
		fmt.Println("Nothing due today.")
		return nil
	}
	fmt.Println("Due today:")
	for _, item := range dueToday {
		fmt.Printf("  [%s] %s  %s\n", item.Kind, item.Event.Title, item.Event.Amount.Format())
	}
	return nil
}
