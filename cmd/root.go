package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/farolescolar/farol/internal/contract"
	"github.com/farolescolar/farol/internal/store"
	"github.com/farolescolar/farol/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profile holds profiling configuration.
var profile = &contract.ProfileConfig{}

// storeManager is the global record store manager instance.
var storeManager contract.StoreManager

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if !profile.Enabled {
		return nil
	}

	cpuFile, err := os.Create(profile.Prefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	contract.Logger().Info().
		Str("cpu_profile", profile.Prefix+".cpu.prof").
		Str("mem_profile", profile.Prefix+".mem.prof").
		Msg("Profiling enabled")
	return nil
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profile.Prefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	contract.Logger().Info().Str("prefix", profile.Prefix).Msg("Profiling complete, analyze with 'go tool pprof'")
	return nil
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "farol",
	Short:              "Classify school indicators as green, yellow or red.",
	Long:               `Farol turns raw school indicator records into traffic-light matrices, gap rankings and attention lists.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setConfigSource points viper at an explicit config file or the default search paths.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".farol") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // Look in the current directory
	viper.AddConfigPath("$HOME") // Look in the home directory
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env is fine; variables may come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn("Could not load .env file", err)
	}

	setConfigSource()

	viper.SetEnvPrefix("FAROL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("metric", schema.FrequencyMetric)
	viper.SetDefault("order", schema.AscendingOrder)
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("db-backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-format", contract.ConsoleLogFormat)
	viper.SetDefault("max-red", contract.DefaultMaxRed)
}

// loadConfig merges defaults, file, env and flags into cfg and configures the logger.
func loadConfig() error {
	profilePrefix := viper.GetString("profile")
	if err := contract.ProcessProfilingConfig(profile, profilePrefix); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	contract.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}
	return nil
}

// sharedSetup loads the configuration and opens the record store.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if err := store.InitStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper loads the configuration without touching the record store.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return loadConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global record store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
