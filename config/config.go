package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigMode         = "mode"
	ConfigInput        = "input"
	ConfigProgress     = "progress"
	ConfigLog          = "log"
	ConfigMate         = "mate"
	ConfigSolverConfig = "solver-config"
	ConfigVerbose      = "verbose"
	ConfigDebug        = "debug"
	ConfigThreads      = "threads"
	ConfigOutDir       = "outdir"
)

// LogDateTime in the log path is replaced by the start time of the run.
const LogDateTime = "<DATETIME>"

var ErrBadConfig = errors.New("bad configuration")

type Config struct {
	*viper.Viper
}

// Load reads flags from args. Every flag can also be set from the
// environment as MATEGEN_<FLAG>, with dashes turned into underscores; a
// flag given on the command line wins.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()

	fs := pflag.NewFlagSet("mategen", pflag.ContinueOnError)
	fs.String(ConfigMode, "kifu", "where positions come from: kifu or snapshot")
	fs.StringSlice(ConfigInput, []string{"kifu"}, "kifu directories, or snapshot files/directories; repeat or separate with commas")
	fs.Bool(ConfigProgress, false, "log stage progress")
	fs.String(ConfigLog, "", "audit log path; "+LogDateTime+" is replaced by the UTC start time")
	fs.IntP(ConfigMate, "m", 3, "produce mate(N-1) positions from mateN positions")
	fs.String(ConfigSolverConfig, "", "solver config file")
	fs.Bool(ConfigVerbose, false, "log every solver invocation")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigThreads, runtime.NumCPU(), "number of files loaded at once")
	fs.String(ConfigOutDir, ".", "directory receiving mate<N-1>.txt")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.SetEnvPrefix("mategen")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c.BindPFlags(fs)
}

// Inputs returns the input groups in order, with comma lists split.
func (c *Config) Inputs() []string {
	parts := lo.FlatMap(c.GetStringSlice(ConfigInput), func(s string, _ int) []string {
		return strings.Split(s, ",")
	})
	return lo.Compact(lo.Map(parts, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

// LogPath is the audit log path for a run started at now, or "" if the
// audit log is off.
func (c *Config) LogPath(now time.Time) string {
	return strings.ReplaceAll(c.GetString(ConfigLog), LogDateTime,
		now.UTC().Format("20060102150405"))
}

func (c *Config) Validate() error {
	switch m := c.GetString(ConfigMode); m {
	case "kifu", "snapshot":
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrBadConfig, m)
	}
	if len(c.Inputs()) == 0 {
		return fmt.Errorf("%w: no input", ErrBadConfig)
	}
	if c.GetInt(ConfigThreads) < 1 {
		return fmt.Errorf("%w: threads must be positive", ErrBadConfig)
	}
	return nil
}

// SanitizedSettings is every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
