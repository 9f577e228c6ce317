package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/internal/config"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "mathscroll",
		Short: "Render narrated math tutorial scenes",
		Long: `mathscroll runs the built-in tutorial scripts against a virtual scene
clock and writes each recording through the configured backends.

Configuration is read from --config, else .mathscroll/config.yaml, else
~/.config/mathscroll/config.yaml. Every key can be overridden with a
MATHSCROLL_ environment variable, e.g. MATHSCROLL_LAYOUT_SCALE=1.5.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: .mathscroll/config.yaml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config")
	pf.StringP("out", "o", "", "output directory")
	pf.StringSliceP("backend", "b", nil, "recording backends (storyboard, trace)")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("output.dir", pf.Lookup("out"))
	_ = a.v.BindPFlag("output.backends", pf.Lookup("backend"))
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))

	root.AddCommand(
		newListCmd(a),
		newRenderCmd(a),
		newDiffCmd(),
		newInitCmd(a),
	)
	return root
}

// loadConfig reads the dotenv file, the config file and the environment,
// then installs the command logger.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", a.envFile, err)
		}
	}

	v := a.v
	config.SetDefaults(v)
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case a.cfgFile != "":
		v.SetConfigFile(a.cfgFile)
	case fileExists(config.DefaultPath):
		v.SetConfigFile(config.DefaultPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mathscroll"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})
	mathscroll.SetLogger(slog.New(handler))
	mathscroll.Logger().Debug("config loaded", "file", v.ConfigFileUsed(), "backends", cfg.Output.Backends)
	return nil
}

// reload re-reads the config file after a change on disk.
func (a *app) reload() error {
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Long: `Write the default configuration to --config, or to
.mathscroll/config.yaml. An existing file is left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.cfgFile
			if path == "" {
				path = config.DefaultPath
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
