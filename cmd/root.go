package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/pattern-sonar/logging"
	"github.com/RyanBlaney/pattern-sonar/pattern/config"
)

var (
	configFile string
	logLevel   string
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pattern-sonar",
	Short: "Spectral classification of binary bit patterns",
	Long: `pattern-sonar encodes a byte as a short binary time series, computes its
frequency fingerprint with a sparse DTFT, and recovers the byte by
nearest-neighbor matching against a precomputed reference dictionary.

Key features:
- Trigonometric lookup table with linear interpolation
- Direct DTFT evaluation at a fixed, sparse frequency grid
- Split-range dual-worker transform for large grids
- Offline reference dictionary generation`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Accept snake_case spellings of the kebab-case flags
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/pattern-sonar/pattern-sonar.yaml)")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored log output")

	rootCmd.PersistentFlags().Bool("parallel", true,
		"enable the split-range parallel transform for large grids")
	rootCmd.PersistentFlags().Int("parallel-threshold", 128,
		"minimum grid size before the parallel transform is used")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("parallel", rootCmd.PersistentFlags().Lookup("parallel"))
	viper.BindPFlag("parallel_threshold", rootCmd.PersistentFlags().Lookup("parallel-threshold"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pattern-sonar"))
		}
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("pattern-sonar")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PATTERN_SONAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// A missing config file is fine; flags and defaults carry everything
	if err := viper.ReadInConfig(); err == nil {
		logging.Debug("config file loaded", logging.Fields{
			"file": viper.ConfigFileUsed(),
		})
	}
}

func setDefaults() {
	defaults := config.Default()
	viper.SetDefault("pattern_bits", defaults.PatternBits)
	viper.SetDefault("repetitions", defaults.Repetitions)
	viper.SetDefault("grid_points", defaults.GridPoints)
	viper.SetDefault("table_size", defaults.TableSize)
	viper.SetDefault("parallel", defaults.Parallel)
	viper.SetDefault("parallel_threshold", defaults.ParallelThreshold)
	viper.SetDefault("log_level", "info")
}

func setupLogging() {
	logging.SetLevel(logging.ParseLevel(viper.GetString("log_level")))
	if noColor {
		logging.DisableColors()
	}
}

// loadConfig materializes the pipeline configuration from viper's merged
// file/env/flag view
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseByteValue parses a byte argument in decimal, hex (0x4F) or binary
// (0b01001111) notation
func parseByteValue(arg string) (byte, error) {
	value, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q: %w", arg, err)
	}
	return byte(value), nil
}

// formatBits renders a bit pattern as a 0b string, MSB first
func formatBits(bits []byte) string {
	var sb strings.Builder
	sb.WriteString("0b")
	for _, b := range bits {
		if b != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
