package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacesedan/factcheck/config"
	"github.com/spacesedan/factcheck/internal/clients"
	"github.com/spacesedan/factcheck/internal/monitoring"
	"github.com/spacesedan/factcheck/internal/render"
)

var (
	checkFile   string
	checkFormat string
)

var checkCmd = &cobra.Command{
	Use:   "check [text...]",
	Short: "Classify one article and print the result",
	Long: `Classify one article. The text comes from the arguments, from --file, or
from standard input when neither is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(checkFormat)
		if err != nil {
			return err
		}

		text, err := readInput(args, checkFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		view := render.NewWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, cfg.UI.MarkdownStyle)
		controller := newController(newClassifier(cfg), view)
		defer controller.Close()

		_, err = controller.Submit(cmd.Context(), text)
		return err
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the prediction service once",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Predict.Backend != config.BACKEND_HTTP {
			return fmt.Errorf("health is only available for the http backend, not %q", cfg.Predict.Backend)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 3*cfg.Predict.Timeout)
		defer cancel()

		status := monitoring.Probe(ctx, clients.NewPredictClient(cfg.Predict))
		fmt.Fprintln(cmd.OutOrStdout(), status.String())
		if status != monitoring.StatusReady {
			return errors.New(status.String())
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "read the article from a file")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "o", "text", "output format: text, markdown, html or json")
}

func readInput(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case len(args) > 0 && file != "":
		return "", errors.New("pass the article as arguments or with --file, not both")
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(io.LimitReader(stdin, clients.MAX_RESPONSE_BYTES))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
}
