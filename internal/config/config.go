package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	totemsconfig "github.com/totemlabs/totems-engine/modules/totems/config"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
	"github.com/totemlabs/totems-engine/pkg/middleware/requestcontext"
	"github.com/totemlabs/totems-engine/pkg/middleware/requestlogger"
)

var (
	parseOnce sync.Once
	config    = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServer{
			Port: 8080,
		},
		Modules: Modules{
			Totems: totemsconfig.Config{
				Database:    "memory",
				APIHandlers: []string{"http"},
			},
		},
	}
)

type Config struct {
	Logger     logger.Config `mapstructure:"logger"`
	HTTPServer HTTPServer    `mapstructure:"http_server"`
	Modules    Modules       `mapstructure:"modules"`
}

type HTTPServer struct {
	Port      int                               `mapstructure:"port"`
	Logger    requestlogger.Config              `mapstructure:"logger"`
	RequestIP requestcontext.WithClientIPConfig `mapstructure:"request_ip"`
}

type Modules struct {
	Totems totemsconfig.Config `mapstructure:"totems"`
}

// BindPFlag binds a cobra flag to a configuration key. Must be called before
// Parse.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Failed to bind flag to configuration", slogx.String("key", key), slogx.Error(err))
	}
}

// Parse reads the configuration file (./config.yaml if none given) and the
// environment, unmarshals into Config, and memoizes the result.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))
	parseOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotFound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotFound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
	})
	return *config
}

// Load returns the parsed configuration, parsing with defaults if Parse was
// never called.
func Load() Config {
	return Parse("")
}
