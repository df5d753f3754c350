package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-headline-sync/internal/browser"
	"go-headline-sync/internal/config"
	"go-headline-sync/internal/logging"
	"go-headline-sync/internal/reporter"
	"go-headline-sync/internal/runlog"
	"go-headline-sync/internal/workflow"
	"go-headline-sync/utils"
)

var (
	configPath  string
	headline    string
	headless    bool
	interactive string
	debug       bool
	noHistory   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "headline-sync",
		Short: "Log into the job portal and re-save the resume headline",
		Long: `headline-sync opens a browser, logs into the job portal, replaces the
resume headline with the configured text and saves it, so the profile shows
as recently updated.

Credentials come from NAUKRI_EMAIL and NAUKRI_PASSWORD (or a .env file).

Example:
  headline-sync --headline "Senior Go Engineer | Distributed Systems"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "YAML config file")
	rootCmd.Flags().StringVar(&headline, "headline", "", "Headline text (overrides config and RESUME_HEADLINE)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "Run the browser without a window")
	rootCmd.Flags().StringVar(&interactive, "interactive", "", "Wait for a human on challenges: auto, always or never")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Debug logging, including the browser fingerprint chosen")
	rootCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not read or write the run history")

	if err := rootCmd.Execute(); err != nil {
		log.Errorf("❌ %v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration problems and 1 for everything else.
func exitCode(err error) int {
	if workflow.IsKind(err, workflow.KindConfig) ||
		errors.Is(err, config.ErrInvalid) ||
		errors.Is(err, config.ErrMissingCredentials) {
		return 2
	}
	return 1
}

func flagOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		if headline != "" {
			cfg.Headline = headline
		}
		if cmd.Flags().Changed("headless") {
			cfg.Headless = headless
		}
		if interactive != "" {
			cfg.Interactive = interactive
		}
	}
}

func run(cmd *cobra.Command, _ []string) error {
	//load config
	cfg, err := config.Load(configPath, flagOverrides(cmd))
	if err != nil {
		return err
	}

	closer, err := logging.Setup(cfg.LogLevel, debug, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	log.Infof("🔧 Config loaded. Headline: %q, headless=%v", cfg.Headline, cfg.Headless)

	//stop on Ctrl+C, and never run longer than run_timeout
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	fd := os.Stdin.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	manual := cfg.InteractiveEnabled(tty)
	log.Debugf("Interactive challenge handling: %v (mode=%s, tty=%v)", manual, cfg.Interactive, tty)

	var history *runlog.History
	if !noHistory {
		history = runlog.Open(cfg.HistoryPath)
		if last, ok := history.LastSuccess(); ok {
			log.Infof("📋 Last successful sync: %s", time.UnixMilli(last.Timestamp).Format("2006-01-02 15:04"))
		}
	}

	shots := utils.NewScreenShotDebugger(cfg.ScreenshotDir)
	wf := workflow.New(cfg, config.NewEnvCredentials(), browser.NewLauncher(cfg),
		workflow.WithObserver(logging.NewObserver(log.StandardLogger())),
		workflow.WithInteractive(manual),
		workflow.WithFailureHook(func(s workflow.Session, stage workflow.State, err error) {
			_, _ = shots.CaptureAndLog(s, stage.String(), "Capturing page at failure")
		}),
	)

	log.Info("🚀 Starting headline sync...")
	res, runErr := wf.Run(ctx)

	if history != nil {
		if err := history.Append(runlog.FromResult(res, runErr)); err != nil {
			log.Warnf("⚠️ Failed to record run history: %v", err)
		}
	}
	notify(cfg, res, runErr)

	if runErr != nil {
		return runErr
	}
	if res.Verified {
		log.Infof("✨ Headline saved and verified in %s", res.Duration().Round(time.Second))
	} else {
		log.Infof("✨ Headline saved (not verified) in %s", res.Duration().Round(time.Second))
	}
	return nil
}

// notify sends the outcome to Telegram when it is configured; failures are only logged.
func notify(cfg *config.Config, res workflow.Result, runErr error) {
	if !cfg.TelegramEnabled() {
		return
	}
	tg, err := reporter.NewTelegramReporter(cfg)
	if err != nil {
		log.Warnf("⚠️ %v", err)
		return
	}
	if err := reporter.SendResult(tg, cfg.Headline, res, runErr); err != nil {
		log.Warnf("⚠️ Failed to send Telegram notification: %v", err)
		return
	}
	log.Info("🤖 Telegram notification sent")
}
