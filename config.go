package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Nils-Coding/orderflow-dashboard/service"
	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/joho/godotenv"
)

// Config is the configuration struct for the service.
type Config struct {
	// Mode selects between the chart and report modes.
	Mode string
	// Symbols represents the tracked symbols.
	Symbols []string
	// Resolution is the candle resolution.
	Resolution string
	// Date is the charted session date.
	Date string
	// Start is the first report date, inclusive.
	Start string
	// End is the last report date, inclusive.
	End string
	// OrderflowAPIURL is the orderflow service endpoint.
	OrderflowAPIURL string
	// OrderflowAPIKey is the orderflow service API Key.
	OrderflowAPIKey string
	// ReportPath is the report file destination.
	ReportPath string
	// WatchMinutes regenerates the report every provided minutes when set.
	WatchMinutes int
	// DatabaseEndpoint is the report run database endpoint.
	DatabaseEndpoint string
	// DatabaseUser is the report run database user.
	DatabaseUser string
	// DatabasePass is the report run database user pass.
	DatabasePass string

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if len(cfg.Symbols) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no symbols provided for dashboard service"))
	}
	if cfg.OrderflowAPIURL == "" {
		errs = errors.Join(errs, fmt.Errorf("orderflow api url cannot be an empty string"))
	}
	if cfg.OrderflowAPIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("orderflow api key cannot be an empty string"))
	}
	if _, err := shared.ParseResolution(cfg.Resolution); err != nil {
		errs = errors.Join(errs, err)
	}

	switch cfg.Mode {
	case service.ChartMode:
		if _, err := time.Parse(shared.DateLayout, cfg.Date); err != nil {
			errs = errors.Join(errs, fmt.Errorf("parsing chart date: %w", err))
		}
	case service.ReportMode:
		if _, err := shared.DateRange(cfg.Start, cfg.End); err != nil {
			errs = errors.Join(errs, err)
		}
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown dashboard mode: %q", cfg.Mode))
	}

	return errs
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() == reflect.String {
			var def []string
			if defValue != "" {
				def = strings.Split(defValue, ",")
			}
			flag.Func(name, usage, func(s string) error {
				*value.(*[]string) = strings.Split(s, ",")
				return nil
			})
			// Set default if not provided via flag
			if len(def) > 0 {
				*value.(*[]string) = def
			}
		} else {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// aliasEnv copies the orderflow service's conventional environment variables
// to their flag names so they serve as flag defaults.
func aliasEnv() {
	aliases := map[string]string{
		"ORDERFLOW_API_URL": "orderflowapiurl",
		"ORDERFLOW_API_KEY": "orderflowapikey",
	}

	for env, name := range aliases {
		if v := os.Getenv(env); v != "" && os.Getenv(name) == "" {
			os.Setenv(name, v)
		}
	}
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	aliasEnv()

	// Register command line arguments using loaded environment variables as defaults.
	err = cfg.registerFlag("mode", &cfg.Mode, "the dashboard mode, chart or report")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("symbols", &cfg.Symbols, "the tracked symbols")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("resolution", &cfg.Resolution, "the candle resolution, 1m or 1s")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("date", &cfg.Date, "the charted session date")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("start", &cfg.Start, "the first report date")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("end", &cfg.End, "the last report date")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("orderflowapiurl", &cfg.OrderflowAPIURL, "the orderflow api url")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("orderflowapikey", &cfg.OrderflowAPIKey, "the orderflow api key")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("reportpath", &cfg.ReportPath, "the report file destination")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("watchminutes", &cfg.WatchMinutes, "the report regeneration interval in minutes")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("databaseendpoint", &cfg.DatabaseEndpoint, "the report run database endpoint")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("databaseuser", &cfg.DatabaseUser, "the report run database user")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("databasepass", &cfg.DatabasePass, "the report run database pass")
	if err != nil {
		return err
	}

	// Parse command-line flags.
	flag.Parse()

	if cfg.Mode == "" {
		cfg.Mode = service.ChartMode
	}
	if cfg.Resolution == "" {
		cfg.Resolution = shared.OneMinute.String()
	}
	if cfg.ReportPath == "" {
		cfg.ReportPath = "volatility_report.html"
	}

	return cfg.Validate()
}
