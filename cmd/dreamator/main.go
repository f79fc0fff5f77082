package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/basel-ax/dreamator/internal/config"
	"github.com/basel-ax/dreamator/internal/domain"
	"github.com/basel-ax/dreamator/internal/logging"
)

var (
	cfg       *config.Config
	modelFlag string
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "dreamator",
	Short: "Generate AI images from text prompts",
	Long: `Dreamator turns a text prompt into AI-generated images, lets you refine
them with follow-up edits, and keeps every result in a local gallery.

Without a subcommand an interactive session is started.

Examples:
  dreamator
  dreamator generate --model anime "a cat on a rooftop"
  dreamator gallery
  dreamator serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logging.Init(cfg.LogLevel)
		return nil
	},
	RunE: runSession,
}

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a batch of images for a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List previously generated images, newest first",
	RunE:  runGallery,
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available styles",
	RunE:  runStyles,
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive session",
	RunE:  runSession,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE:  runServe,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Generate images for the configured prompts on a cron schedule",
	RunE:  runSchedule,
}

func init() {
	generateCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Style to generate with (see `dreamator styles`)")
	rootCmd.AddCommand(generateCmd, galleryCmd, stylesCmd, sessionCmd, serveCmd, scheduleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("Received signal, initiating shutdown...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rt, err := newRuntime(ctx, cfg, writerSharer{w: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	defer rt.Close()

	model := modelFlag
	if model == "" {
		model = cfg.DefaultModel
	}

	images, err := rt.controller.Generate(ctx, strings.Join(args, " "), model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, img := range images {
		fmt.Fprintf(out, "[%d] seed=%d model=%s\n    %s\n", i+1, img.Settings.Seed, img.Settings.Model, img.URL)
	}
	return nil
}

func runGallery(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rt, err := newRuntime(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	printGallery(cmd.OutOrStdout(), rt.controller.State().Gallery)
	return nil
}

func runStyles(cmd *cobra.Command, args []string) error {
	catalog, err := domain.LoadCatalog(cfg.StylesPath)
	if err != nil {
		return err
	}

	printStyles(cmd.OutOrStdout(), catalog.List())
	return nil
}
