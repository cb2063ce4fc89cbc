package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/mategen/cache"
	"github.com/domino14/mategen/config"
	"github.com/domino14/mategen/incubator"
	"github.com/domino14/mategen/solver"
)

var (
	GitVersion string
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}

	var logger zerolog.Logger
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

// openAudit opens the audit log. With no path the audit output is dropped.
func openAudit(path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return zerolog.New(zerolog.SyncWriter(f)).With().Timestamp().Logger(), f, nil
}

func main() {
	started := time.Now()

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.GetBool(config.ConfigDebug))
	log.Info().Str("version", GitVersion).Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid-config")
	}

	audit, closer, err := openAudit(cfg.LogPath(started))
	if err != nil {
		log.Fatal().Err(err).Msg("could not open audit log")
	}
	defer closer.Close()

	opts := incubator.Options{
		Mode:     incubator.Mode(cfg.GetString(config.ConfigMode)),
		Inputs:   cfg.Inputs(),
		Mate:     cfg.GetInt(config.ConfigMate),
		OutDir:   cfg.GetString(config.ConfigOutDir),
		Threads:  cfg.GetInt(config.ConfigThreads),
		Progress: cfg.GetBool(config.ConfigProgress),
		Audit:    audit,
	}
	var solutions *cache.Solutions
	if opts.Mode == incubator.ModeKifu {
		scfg, err := solver.ReadConfig(cfg.GetString(config.ConfigSolverConfig))
		if err != nil {
			log.Fatal().Err(err).Msg("could not read solver config")
		}
		log.Info().Str("solver", scfg.String()).Msg("solver-config")
		solutions = cache.NewSolutions(solver.NewRunner(scfg, cfg.GetBool(config.ConfigVerbose)))
		opts.Solver = solutions
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inc := incubator.New(opts)
	if err := inc.Run(ctx); err != nil {
		var u *incubator.Unrecoverable
		if errors.As(err, &u) && u.Stage != incubator.StageCheck {
			log.Error().Str("dest", inc.Dest()).Msg("partial output may remain; remove it before retrying")
		}
		closer.Close()
		log.Fatal().Err(err).Msg("run failed")
	}
	ev := log.Info().Str("dest", inc.Dest()).Dur("elapsed", time.Since(started))
	if solutions != nil {
		ev = ev.Int("solved", solutions.Len()).Int("cache-hits", solutions.Hits())
	}
	ev.Msg("finished")
}
