// Package config assembles the application configuration from four
// sources with the priority CLI flags > environment > JSON config file >
// defaults. The per-resource API base URLs live here on purpose: the
// backend deployments disagree about base paths and ports, so the
// contract location is configuration, never a hardcoded guess.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings of the client and the stub server.
type Config struct {
	UsersAPIBase      string        `env:"USERS_API_BASE" json:"users_api_base" validate:"url"`
	CartsAPIBase      string        `env:"CARTS_API_BASE" json:"carts_api_base" validate:"url"`
	CartItemsAPIBase  string        `env:"CART_ITEMS_API_BASE" json:"cart_items_api_base" validate:"url"`
	CategoriesAPIBase string        `env:"CATEGORIES_API_BASE" json:"categories_api_base" validate:"url"`
	ItemsAPIBase      string        `env:"ITEMS_API_BASE" json:"items_api_base" validate:"url"`
	LogLevel          string        `env:"LOG_LEVEL" json:"log_level" validate:"loglevel"`
	SessionFileName   string        `env:"SESSION_FILE" json:"session_file" validate:"filepath"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
	PageSize          int           `env:"PAGE_SIZE" json:"page_size" validate:"gte=1"`
	StubRunAddr       string        `env:"STUB_ADDRESS" json:"stub_address" validate:"hostname_port"`
	ConfigFileName    string        `env:"CONFIG" json:"-"`
}

var defaultConfig = Config{
	UsersAPIBase:      "http://localhost:8080/api/users",
	CartsAPIBase:      "http://localhost:8080/api/shopping-carts",
	CartItemsAPIBase:  "http://localhost:8080/api/cart-items",
	CategoriesAPIBase: "http://localhost:8080/api/categories",
	ItemsAPIBase:      "http://localhost:8080/api/items",
	LogLevel:          "info",
	SessionFileName:   "session.json",
	RequestTimeout:    30 * time.Second,
	PageSize:          10,
	StubRunAddr:       ":8080",
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

func applyDefaults(target *Config, defaults Config) {
	*target = defaults
}

func applyNonZero(target *Config, source Config) {
	if source.UsersAPIBase != "" {
		target.UsersAPIBase = source.UsersAPIBase
	}
	if source.CartsAPIBase != "" {
		target.CartsAPIBase = source.CartsAPIBase
	}
	if source.CartItemsAPIBase != "" {
		target.CartItemsAPIBase = source.CartItemsAPIBase
	}
	if source.CategoriesAPIBase != "" {
		target.CategoriesAPIBase = source.CategoriesAPIBase
	}
	if source.ItemsAPIBase != "" {
		target.ItemsAPIBase = source.ItemsAPIBase
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.SessionFileName != "" {
		target.SessionFileName = source.SessionFileName
	}
	if source.RequestTimeout != 0 {
		target.RequestTimeout = source.RequestTimeout
	}
	if source.PageSize != 0 {
		target.PageSize = source.PageSize
	}
	if source.StubRunAddr != "" {
		target.StubRunAddr = source.StubRunAddr
	}
	if source.ConfigFileName != "" {
		target.ConfigFileName = source.ConfigFileName
	}
}

func applyJSONFile(target *Config, fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	var fromFile Config
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return err
	}

	applyNonZero(target, fromFile)

	return nil
}

// InitOption customizes the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command-line flags parsing.
// Tests use it to keep the global flag set untouched.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds the configuration. A `.env` file is loaded first when
// present, then defaults are overlaid with the JSON config file (path
// from the CONFIG variable or the -c flag), the environment, and the
// flags, in that order of increasing priority. The result is validated
// before being returned.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	cfg := &Config{}
	applyDefaults(cfg, defaultConfig)

	var fromFlags Config
	setFlags := map[string]bool{}
	if !options.disableFlagsParsing {
		flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
		flags.StringVar(&fromFlags.UsersAPIBase, "users-api", "", "base URL of the users API")
		flags.StringVar(&fromFlags.CartsAPIBase, "carts-api", "", "base URL of the shopping carts API")
		flags.StringVar(&fromFlags.CartItemsAPIBase, "cart-items-api", "", "base URL of the cart items API")
		flags.StringVar(&fromFlags.CategoriesAPIBase, "categories-api", "", "base URL of the categories API")
		flags.StringVar(&fromFlags.ItemsAPIBase, "items-api", "", "base URL of the items API")
		flags.StringVar(&fromFlags.LogLevel, "l", "", "logger level")
		flags.StringVar(&fromFlags.SessionFileName, "f", "", "JSON file name with the persisted session")
		flags.DurationVar(&fromFlags.RequestTimeout, "t", 0, "timeout applied to every backend call")
		flags.IntVar(&fromFlags.PageSize, "p", 0, "page size for category browsing")
		flags.StringVar(&fromFlags.StubRunAddr, "a", "", "address and port to run the stub server")
		flags.StringVar(&fromFlags.ConfigFileName, "c", "", "path to a JSON config file")
		if err := flags.Parse(os.Args[1:]); err != nil {
			return nil, err
		}
		flags.Visit(func(f *flag.Flag) {
			setFlags[f.Name] = true
		})
	}

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, err
	}

	configFileName := fromEnv.ConfigFileName
	if setFlags["c"] {
		configFileName = fromFlags.ConfigFileName
	}
	if configFileName != "" {
		if err := applyJSONFile(cfg, configFileName); err != nil {
			return nil, err
		}
	}

	applyNonZero(cfg, fromEnv)
	applyNonZero(cfg, fromFlags)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
