package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/service"
	"docsign-client/internal/usecase"
	"docsign-client/internal/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:               "docsign",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Document signing client",
	Long: `Sign and verify PDF documents held by the remote signing service.

Configuration is read from config.yaml in the working directory or ./config,
and every key can be overridden from the environment (signing.base_url becomes
SIGNING_BASE_URL).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s)", version.Version, version.Commit)

	if err := rootCmd.Execute(); err != nil {
		_, message := entity.Classify(err)
		fmt.Fprintln(os.Stderr, "Error:", message)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every exchange with the signing service")
}

// client is what a command needs from the running application
type client struct {
	Auth      usecase.AuthUsecase
	Keys      usecase.KeyUsecase
	Lifecycle usecase.LifecycleUsecase
	Notifier  *usecase.Notifier
	Logger    *zap.Logger
}

// withClient starts the application core for the duration of fn. The stored
// session, if any, is restored before fn runs.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client) error) error {
	var c client

	app := fx.New(
		service.Core,
		fx.NopLogger,
		fx.Decorate(func(log *zap.Logger) *zap.Logger {
			if verbose {
				return log
			}
			return log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
		}),
		fx.Populate(&c.Auth, &c.Keys, &c.Lifecycle, &c.Notifier, &c.Logger),
	)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	startCtx, cancel := context.WithTimeout(ctx, fx.DefaultTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	return fn(ctx, &c)
}
