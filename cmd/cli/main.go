package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/mauv0809/paddio-admin/internal/database"
	"github.com/mauv0809/paddio-admin/internal/metrics"
	"github.com/mauv0809/paddio-admin/internal/paddio"
	"github.com/mauv0809/paddio-admin/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL  string
	verbose bool
)

var (
	errNotLoggedIn  = errors.New("no hay una sesión iniciada, ejecutá `paddio-admin-cli login`")
	errAccessDenied = errors.New("acceso denegado: la cuenta no es super administrador")
)

var rootCmd = &cobra.Command{
	Use:   "paddio-admin-cli",
	Short: "Browse and export Paddio platform data",
	Long: `A command-line client for the Paddio super-admin dashboard: list, filter,
sort and export users, clubs, matches and reservations.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Paddio API base URL (overrides PADDIO_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// app is everything a command needs. The CLI keeps its login in the same
// session table as the server, under a fixed id.
type app struct {
	cfg      config.Config
	sessions session.SessionStore
	exports  metrics.ExportLog
	api      paddio.API
	close    func()
}

func newApp() (*app, error) {
	if apiURL != "" {
		os.Setenv("PADDIO_API_URL", apiURL)
	}
	cfg := config.Load()
	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sessions := session.New(db)
	return &app{
		cfg:      cfg,
		sessions: sessions,
		exports:  metrics.New(db),
		api:      paddio.NewClient(cfg.APIURL, cfg.Resources, sessions.Credentials(session.CLISessionID)),
		close:    teardown,
	}, nil
}

// withApp runs fn with a fresh app and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return describe(fn(cmd.Context(), a))
	}
}

// requireSuperAdmin returns the logged-in user or why there is none.
func (a *app) requireSuperAdmin(ctx context.Context) (*paddio.CurrentUser, error) {
	sess, err := a.sessions.Get(ctx, session.CLISessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, errNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, errNotLoggedIn
	}
	if !sess.IsSuperAdmin() {
		return nil, errAccessDenied
	}
	return sess.User, nil
}

// describe turns API failures into the message shown to the user.
func describe(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, paddio.ErrUnauthorized) {
		return errors.New("la sesión expiró, ejecutá `paddio-admin-cli login` de nuevo")
	}
	var apiErr *paddio.APIError
	if errors.As(err, &apiErr) {
		return errors.New(paddio.UserMessage(err))
	}
	return err
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func main() {
	Execute()
}
