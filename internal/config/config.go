package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/mcp-findoc-extractor/internal/extraction"
	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultWorkers     = 4

	// MaxTolerance bounds both cross-check tolerances
	MaxTolerance = 0.5

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "FINDOC"
)

// ErrVersionRequested is returned by LoadFromFlags when --version is given
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the extraction server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Directory containing the reports the server may read
	Directory string

	// Extraction configuration
	RulesFile        string  // optional YAML rules extending the built-in library
	BalanceTolerance float64 // relative tolerance of the balance identity
	RatioTolerance   float64 // relative tolerance of ratio consistency checks
	Workers          int     // documents processed concurrently in batches

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum report file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	tol := extraction.DefaultTolerances()
	return &Config{
		Mode:             ModeStdio, // Default to stdio mode for MCP compatibility
		Host:             DefaultHost,
		Port:             DefaultPort,
		Directory:        currentDir,
		BalanceTolerance: tol.Balance,
		RatioTolerance:   tol.Ratio,
		Workers:          DefaultWorkers,
		Version:          "1.0.0",
		ServerName:       "mcp-findoc-extractor",
		LogLevel:         DefaultLogLevel,
		MaxFileSize:      DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("rules", cfg.RulesFile)
	viper.SetDefault("tolerance", cfg.BalanceTolerance)
	viper.SetDefault("ratio_tolerance", cfg.RatioTolerance)
	viper.SetDefault("workers", cfg.Workers)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.Directory, "Directory containing PDF and text reports")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum report file size in bytes")
	pflag.String("rules", cfg.RulesFile, "YAML file with additional extraction rules")
	pflag.Float64("tolerance", cfg.BalanceTolerance, "Relative tolerance for assets = liabilities + net worth")
	pflag.Float64("ratio-tolerance", cfg.RatioTolerance, "Relative tolerance for ratio consistency checks")
	pflag.Int("workers", cfg.Workers, "Documents processed concurrently in batch extraction")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("rules", pflag.Lookup("rules"))
	_ = viper.BindPFlag("tolerance", pflag.Lookup("tolerance"))
	_ = viper.BindPFlag("ratio_tolerance", pflag.Lookup("ratio-tolerance"))
	_ = viper.BindPFlag("workers", pflag.Lookup("workers"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFinDoc Extractor - A Model Context Protocol server that extracts "+
			"structured financial records from credit reports\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                           "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/reports                    "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --rules=extra-rules.yaml                  "+
			"# extend the built-in pattern library\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081  # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_MODE             Server mode\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_HOST             Server host\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_PORT             Server port\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_DIR              Report directory\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_LOGLEVEL         Log level\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_MAXFILESIZE      Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_RULES            Rules file\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_TOLERANCE        Balance tolerance\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_RATIO_TOLERANCE  Ratio tolerance\n")
		fmt.Fprintf(os.Stderr, "  FINDOC_WORKERS          Batch workers\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.Directory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.RulesFile = viper.GetString("rules")
	cfg.BalanceTolerance = viper.GetFloat64("tolerance")
	cfg.RatioTolerance = viper.GetFloat64("ratio_tolerance")
	cfg.Workers = viper.GetInt("workers")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Directory == "" {
		return errors.New("report directory cannot be empty")
	}

	// Create the report directory if it doesn't exist
	if _, err := os.Stat(c.Directory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.Directory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create report directory %s: %w", c.Directory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access report directory %s: %w", c.Directory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.BalanceTolerance <= 0 || c.BalanceTolerance > MaxTolerance {
		return fmt.Errorf("balance tolerance must be in (0, %g], got %g", MaxTolerance, c.BalanceTolerance)
	}
	if c.RatioTolerance <= 0 || c.RatioTolerance > MaxTolerance {
		return fmt.Errorf("ratio tolerance must be in (0, %g], got %g", MaxTolerance, c.RatioTolerance)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	if c.RulesFile != "" {
		info, err := os.Stat(c.RulesFile)
		if err != nil {
			return fmt.Errorf("cannot access rules file %s: %w", c.RulesFile, err)
		}
		if info.IsDir() {
			return fmt.Errorf("rules file %s is a directory", c.RulesFile)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Library returns the built-in pattern library, extended by the rules file
// when one is configured
func (c *Config) Library() (*patterns.Library, error) {
	if c.RulesFile == "" {
		return patterns.Default(), nil
	}

	lib, err := patterns.LoadFile(c.RulesFile, patterns.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file: %w", err)
	}
	return lib, nil
}

// EngineOptions returns the extraction options for this configuration
func (c *Config) EngineOptions() extraction.Options {
	return extraction.Options{
		Tolerances: extraction.Tolerances{
			Balance: c.BalanceTolerance,
			Ratio:   c.RatioTolerance,
		},
	}
}

// NewEngine builds the extraction engine this configuration describes
func (c *Config) NewEngine() (*extraction.Engine, error) {
	lib, err := c.Library()
	if err != nil {
		return nil, err
	}
	return extraction.NewEngine(lib, c.EngineOptions()), nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Directory: %s, LogLevel: %s, MaxFileSize: %d, "+
		"Rules: %q, Tolerance: %g, RatioTolerance: %g, Workers: %d}",
		c.Mode, c.Host, c.Port, c.Directory, c.LogLevel, c.MaxFileSize,
		c.RulesFile, c.BalanceTolerance, c.RatioTolerance, c.Workers)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
