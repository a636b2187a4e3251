package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/philipparndt/gomap/internal/config"
	"github.com/philipparndt/gomap/internal/logging"
	"github.com/philipparndt/gomap/internal/ui"
	"github.com/philipparndt/gomap/version"
)

const appID = "com.github.philipparndt.gomap"

var (
	configPath string
	logLevel   string
	noWatch    bool
)

var rootCmd = &cobra.Command{
	Use:   "gomap [image]",
	Short: "Raster map viewer with distance and azimuth measurement",
	Long: `GoMap shows a raster map image that can be panned and zoomed with mouse,
wheel and touch gestures. In measurement mode two points can be placed and
dragged to read the distance and azimuth between them.`,
	Args:          cobra.MaximumNArgs(1),
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runView,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the map when the file changes")
}

// Root returns the root command so binaries can register subcommands
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// LoadConfig reads the configuration file selected by --config and applies
// the command-line overrides
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if noWatch {
		cfg.Viewer.WatchFile = false
	}
	return cfg, nil
}

// Setup loads the configuration and builds the logger. The closer flushes
// the log file, if any.
func Setup() (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := Setup()
	if err != nil {
		return err
	}
	defer closer.Close()

	viewer := ui.NewViewer(app.NewWithID(appID), cfg, logger)
	defer viewer.Close()

	if len(args) == 1 {
		if err := viewer.Open(args[0]); err != nil {
			return err
		}
	}

	viewer.ShowAndRun()
	return nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gomap", "config.yaml")
}
