package main

import (
	"fmt"
	"os"

	"github.com/ctxkeeper/ctxkeeper/internal/commands"
	"github.com/ctxkeeper/ctxkeeper/internal/config"
	"github.com/ctxkeeper/ctxkeeper/internal/core"
	"github.com/ctxkeeper/ctxkeeper/internal/styles"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var BUILD_VERSION = "dev"

func main() {
	logger, logLevel, err := initializeLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() // Flush any buffered log entries

	cfg, err := config.NewLoader(logger).LoadDefaultConfigPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}
	applyLogLevel(logLevel, cfg.LogLevel)

	logger.Info("-------- new ctxkeeper invocation --------", zap.Any("args", os.Args))

	rootCmd := commands.NewRootCmd(cfg, logger, BUILD_VERSION)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, styles.ERROR("ERROR: "+err.Error()))
		os.Exit(1)
	}
}

func initializeLogger() (*zap.Logger, zap.AtomicLevel, error) {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	// Logs go to file only: stdout belongs to the hook and update output
	// consumed by the external assistant.

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	return logger, logLevel, nil
}

func applyLogLevel(logLevel zap.AtomicLevel, configured string) {
	if configured == "" {
		return
	}
	if level, err := zapcore.ParseLevel(configured); err == nil {
		logLevel.SetLevel(level)
	}
}
