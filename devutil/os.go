package devutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/ARCJ137442/NAR-dev-util/devutil/log"
	"github.com/ARCJ137442/NAR-dev-util/devutil/runtime"
	"github.com/ARCJ137442/NAR-dev-util/devutil/zap"
)

// GetenvOrDefault returns the trimmed value of key, or defaultValue when it is unset or blank.
func GetenvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	return value
}

// GetenvBoolOrDefault parses key with strconv.ParseBool, or returns defaultValue.
func GetenvBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(GetenvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}

	return value
}

// GetenvIntOrDefault parses key as a base-10 int64, or returns defaultValue.
func GetenvIntOrDefault(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(GetenvOrDefault(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// Environment reads ENV, then GO_ENV, defaulting to development.
func Environment() zap.Environment {
	env := GetenvOrDefault("ENV", GetenvOrDefault("GO_ENV", string(zap.EnvironmentDevelopment)))

	return zap.Environment(strings.ToLower(env))
}

// ConfigureFromEnv applies the process-wide settings found in the environment
// and returns a logger built from them.
//
//   - ENV / GO_ENV = production enables runtime.SetProductionMode.
//   - LOG_LEVEL selects the logger level. An invalid value keeps the
//     environment default; the parse error is returned with the logger.
//   - OTEL_LIBRARY_NAME overrides the otelzap instrumentation scope.
//
// An unknown environment falls back to a stdlib GoLogger at info level.
func ConfigureFromEnv() (log.Logger, error) {
	env := Environment()
	runtime.SetProductionMode(env == zap.EnvironmentProduction)

	cfg := zap.Config{
		Environment:     env,
		Level:           GetenvOrDefault("LOG_LEVEL", ""),
		OTelLibraryName: GetenvOrDefault("OTEL_LIBRARY_NAME", ""),
	}

	logger, err := zap.New(cfg)
	if err == nil {
		return logger, nil
	}

	if cfg.Level != "" {
		cfg.Level = ""

		if fallback, fallbackErr := zap.New(cfg); fallbackErr == nil {
			return fallback, err
		}
	}

	return log.NewGoLogger(log.LevelInfo), err
}
