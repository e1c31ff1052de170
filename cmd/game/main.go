package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/blockcatch/internal/audio"
	"github.com/tomz197/blockcatch/internal/client"
	"github.com/tomz197/blockcatch/internal/config"
	"github.com/tomz197/blockcatch/internal/draw"
	"github.com/tomz197/blockcatch/internal/tui"
)

const (
	envLogFile  = "BLOCKCATCH_LOG"
	envLogLevel = "BLOCKCATCH_LOG_LEVEL"
)

func main() {
	renderer := flag.String("renderer", "tui", "terminal frontend: tui or ansi")
	dev := flag.Bool("dev", false, "play the short rules")
	mute := flag.Bool("mute", false, "start with sound off")
	flag.Parse()

	if err := run(*renderer, *dev, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(renderer string, dev, mute bool) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	base := config.Default()
	if dev {
		base = config.Dev()
	}
	settings, err := config.FromEnv(base)
	if err != nil {
		return err
	}

	sound := audio.NewSoundManager(settings.MasterVolume)
	defer sound.Cleanup()
	if mute {
		sound.ToggleMute()
	}

	opts := client.Options{
		Settings:    settings,
		Audio:       sound,
		Logger:      logger,
		IdleTimeout: -1, // only remote players are disconnected
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "renderer", renderer, "goal", settings.ScoreThreshold, "seconds", settings.MaxSeconds)
	switch renderer {
	case "tui":
		return tui.Run(ctx, opts)
	case "ansi":
		return runANSI(ctx, opts)
	default:
		return fmt.Errorf("unknown renderer %q", renderer)
	}
}

// runANSI plays on stdin/stdout switched to raw mode.
func runANSI(ctx context.Context, opts client.Options) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return client.Run(ctx, os.Stdin, os.Stdout, draw.StdoutSize, opts)
}

// newLogger writes to the file named by BLOCKCATCH_LOG so the terminal stays
// clean, or nowhere if it is unset.
func newLogger() (*log.Logger, func(), error) {
	level := log.InfoLevel
	if v := config.GetEnv(envLogLevel, ""); v != "" {
		l, err := log.ParseLevel(v)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", envLogLevel, err)
		}
		level = l
	}

	path := config.GetEnv(envLogFile, "")
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "blockcatch",
	})
	return logger, func() { _ = f.Close() }, nil
}
