package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harishgm1236-debug/interview-text/config"
)

const (
	app = "interview-eval"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "interview-eval scores spoken and written interview answers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"speech.api_key":  "GEMINI_API_KEY",
		"database.url":    "EVAL_DATABASE_URL",
		"events.nats_url": "EVAL_NATS_URL",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			fmt.Fprintf(os.Stderr, "binding %s environment variable: %v\n", env, err)
			os.Exit(1)
		}
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is config/$CONFIG_ENV/config.yaml or config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// loadConfig reads the config file and lays environment overrides on top.
func loadConfig() (*config.Root, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("speech.api_key"); v != "" {
		cfg.Speech.APIKey = v
	}
	if v := viper.GetString("database.url"); v != "" {
		cfg.Database.URL = v
	}
	if v := viper.GetString("events.nats_url"); v != "" {
		cfg.Events.NATSURL = v
	}
	return cfg, nil
}

// newLogger honours --json and --debug, then the configured level.
func newLogger(cfg *config.Root) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if viper.GetBool("json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level := logrus.InfoLevel
	if cfg != nil {
		if l, err := logrus.ParseLevel(cfg.Pipeline.LogLvl); err == nil {
			level = l
		}
	}
	if viper.GetBool("debug") {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

// setup is shared by every command that needs configuration.
func setup() (*config.Root, *logrus.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, newLogger(nil), fmt.Errorf("loading config: %w", err)
	}
	return cfg, newLogger(cfg), nil
}
