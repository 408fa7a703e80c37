// Package main provides the player entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/wavbox/internal/app/shell"
	"github.com/osa030/wavbox/internal/app/transport"
	"github.com/osa030/wavbox/internal/app/waveform"
	"github.com/osa030/wavbox/internal/infra/audio"
	"github.com/osa030/wavbox/internal/infra/config"
	"github.com/osa030/wavbox/internal/infra/logger"
	"github.com/osa030/wavbox/internal/infra/wavfile"
)

var (
	app        = kingpin.New("wavbox", "wavbox terminal WAV player")
	configPath = app.Flag("config", "Path to config file (default: built-in settings)").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr, silenced while the player is on screen)").String()

	playCmd  = app.Command("play", "Play a WAV file (default)").Default()
	playFile = playCmd.Arg("file", "File to open on start").String()

	infoCmd  = app.Command("info", "Print track details and waveform, then exit")
	infoFile = infoCmd.Arg("file", "File to inspect").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  "warn",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	logCloser, err := logger.Init(loggerConfig)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logCloser.Close()

	zlog.Debug().Msgf("Loading config from %q", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Error().Msgf("Failed to load config: %v", err)
		os.Exit(1)
	}

	switch command {
	case infoCmd.FullCommand():
		err = info(cfg, *infoFile, os.Stdout)
	default:
		err = play(cfg, *playFile)
	}
	if err != nil {
		zlog.Error().Msgf("%v", err)
		logCloser.Close()
		os.Exit(1)
	}
}

// info prints a summary of path.
func info(cfg *config.Config, path string, out io.Writer) error {
	tr, err := wavfile.NewDecoder(cfg.Player.FilePattern).Load(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open %s", path)
	}

	fmt.Fprintf(out, "File:        %s\n", tr.Path)
	fmt.Fprintf(out, "Sample rate: %d Hz\n", tr.SampleRate)
	fmt.Fprintf(out, "Channels:    %d\n", tr.Channels)
	fmt.Fprintf(out, "Bit depth:   %d\n", tr.BitDepth)
	fmt.Fprintf(out, "Frames:      %d\n", tr.Frames())
	fmt.Fprintf(out, "Length:      %s (%.3fs)\n", shell.FormatTime(tr.LengthSeconds()), tr.LengthSeconds())

	th := waveform.NewThumbnail(tr, cfg.Waveform.Resolution)
	for _, row := range th.Render(cfg.Display.Width, cfg.Waveform.Height) {
		fmt.Fprintln(out, row)
	}
	return nil
}

// play runs the interactive player. Using a separate function ensures
// defer statements are executed even when returning with an error.
func play(cfg *config.Config, path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tr := audio.NewTransport(cfg.Audio.SampleRate)
	output, err := audio.NewOutput(cfg.Audio.Output.Type, cfg.Audio.Output.Settings, tr)
	if err != nil {
		return errors.Wrap(err, "failed to open audio output")
	}
	defer func() {
		if err := output.Close(); err != nil {
			zlog.Warn().Msgf("Failed to close audio output: %v", err)
		}
	}()

	timer := shell.NewTickTimer(cfg.TickInterval())
	ctrl := transport.NewController(tr, wavfile.NewDecoder(cfg.Player.FilePattern), timer)
	defer ctrl.Close()

	chooser := shell.NewPicker(cfg.Player.StartDir, cfg.Display.PickerHeight)
	model := shell.New(
		ctx,
		ctrl,
		timer,
		tr.Changes(),
		chooser,
		waveform.NewCache(cfg.Waveform.CacheSize, cfg.Waveform.Resolution),
		shell.Options{
			Pattern:    cfg.Player.FilePattern,
			Width:      cfg.Display.Width,
			WaveHeight: cfg.Waveform.Height,
			File:       path,
		},
	)

	zlog.Debug().Msgf("Starting player: output=%s rate=%d", cfg.Audio.Output.Type, cfg.Audio.SampleRate)
	// The program owns the terminal; stderr logging would tear the screen.
	if *logfile == "" {
		prev := zlog.Logger
		zlog.Logger = zerolog.Nop()
		defer func() { zlog.Logger = prev }()
	}

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "player error")
	}
	zlog.Debug().Msg("Player stopped")
	return nil
}
