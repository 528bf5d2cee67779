package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"numduel/internal/factory"
)

type Config struct {
	bind              string
	port              int
	storageType       string
	redisURL          string
	maxRounds         int
	selectionTimeout  time.Duration
	graceWindow       time.Duration
	inactivityTimeout time.Duration
	logLevel          string
	logFormat         string
	version           bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.storageType != factory.StorageTypeMemory && c.storageType != factory.StorageTypeRedis {
		return fmt.Errorf("invalid storage type %q (must be %q or %q)",
			c.storageType, factory.StorageTypeMemory, factory.StorageTypeRedis)
	}
	if c.storageType == factory.StorageTypeRedis && c.redisURL == "" {
		return fmt.Errorf("--redis-url is required when --storage is %q", factory.StorageTypeRedis)
	}
	if c.maxRounds < 1 {
		return fmt.Errorf("invalid max rounds (must be at least 1): %d", c.maxRounds)
	}
	switch c.logFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q (must be \"json\" or \"text\")", c.logFormat)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("NUMDUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "numduel",
		Short:         "Real-time two-player number duel server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: NUMDUEL_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: NUMDUEL_PORT)")
	fs.StringVar(&cfg.storageType, "storage", factory.StorageTypeMemory, "storage backend, memory or redis (env: NUMDUEL_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL (env: NUMDUEL_REDIS_URL)")
	fs.IntVar(&cfg.maxRounds, "max-rounds", 1, "rounds per match (env: NUMDUEL_MAX_ROUNDS)")
	fs.DurationVar(&cfg.selectionTimeout, "selection-timeout", 30*time.Second, "time allowed to pick a secret number (env: NUMDUEL_SELECTION_TIMEOUT)")
	fs.DurationVar(&cfg.graceWindow, "grace-window", 60*time.Second, "time a disconnected player keeps their seat (env: NUMDUEL_GRACE_WINDOW)")
	fs.DurationVar(&cfg.inactivityTimeout, "inactivity-timeout", 10*time.Minute, "time before idle parties are swept (env: NUMDUEL_INACTIVITY_TIMEOUT)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn or error (env: NUMDUEL_LOG_LEVEL)")
	fs.StringVar(&cfg.logFormat, "log-format", "json", "log format: json or text (env: NUMDUEL_LOG_FORMAT)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: NUMDUEL_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("numduel v{{.Version}}\n")
	cmd.SilenceUsage = true

	return cmd
}
