// cmd/tools/askdata-cli/ask.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	translateprompt "askdata/internal/assistant/translate-prompt"
	"askdata/internal/bootstrap"
	apperrors "askdata/internal/common/errors"
	"askdata/internal/common/logger"
)

type askOptions struct {
	temperature float64
	feedback    string
	verbose     bool
}

func newAskCmd() *cobra.Command {
	opts := &askOptions{}
	cmd := &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Translate a question to SQL, run it and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().Float64Var(&opts.temperature, "temperature", translateprompt.DefaultTemperature, "Sampling temperature (0.1 - 1.0)")
	cmd.Flags().StringVar(&opts.feedback, "feedback", "", "Record feedback for the answer: yes or no")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline events to stderr")
	return cmd
}

func runAsk(ctx context.Context, question string, opts *askOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewNoOpLogger()
	if opts.verbose {
		log = logger.NewStructured(cfg.Logging.Level, "console")
	}

	container, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer container.Close()

	sess, _ := container.Sessions.GetOrCreate("")
	view, err := container.Controller.Submit(ctx, sess, question, opts.temperature)
	if err != nil {
		return fmt.Errorf("%s", apperrors.UserMessage(err))
	}
	renderSubmit(os.Stdout, view)

	if opts.feedback == "" {
		return nil
	}
	fb, err := container.Controller.SubmitFeedback(ctx, sess, opts.feedback)
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, apperrors.UserMessage(err))
		return err
	}
	color.New(color.FgGreen).Fprintln(os.Stdout, fb.Message)
	return nil
}
