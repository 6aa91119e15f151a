package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spacesedan/factcheck/config"
	"github.com/spacesedan/factcheck/internal/clients"
	"github.com/spacesedan/factcheck/internal/logging"
	"github.com/spacesedan/factcheck/internal/models"
	"github.com/spacesedan/factcheck/internal/sentiment"
	"github.com/spacesedan/factcheck/internal/submission"
)

var (
	envName string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "factcheck",
	Short: "Check whether a news article looks fake or real",
	Long: `factcheck sends article text to a fake news prediction service and shows
the predicted label with its confidence.

Run without arguments to start the interactive interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv(envName)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		// the interactive UI owns the terminal, so logs go to a file or nowhere
		var logOut io.Writer = cmd.ErrOrStderr()
		if cmd == cmd.Root() && cfg.Log.File == "" {
			logOut = io.Discard
		}
		if _, err := logging.InitLogger(cfg.Log, logOut); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment file to load from config/envs (defaults to $APP_ENV or dev)")
	rootCmd.AddCommand(checkCmd, healthCmd)
}

// newClassifier picks the prediction backend named in the configuration.
func newClassifier(cfg *config.Config) submission.Classifier {
	if cfg.Predict.Backend == config.BACKEND_OPENAI {
		return clients.NewOpenAIClassifier(cfg.OpenAI, cfg.Predict.Timeout)
	}
	return clients.NewPredictClient(cfg.Predict)
}

func newController(classifier submission.Classifier, view submission.View) *submission.Controller {
	return submission.NewController(classifier, view,
		submission.WithToneAnalyzer(sentiment.NewAnalyzer()))
}

// reportError prints err unless a view already showed it as a notification.
func reportError(w io.Writer, err error) {
	var (
		validation *models.ValidationError
		service    *models.ServiceError
		transport  *models.TransportError
	)
	if errors.As(err, &validation) || errors.As(err, &service) || errors.As(err, &transport) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Debug("[Main] Command failed", slog.String("error", err.Error()))
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
