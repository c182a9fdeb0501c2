package config

import "github.com/totemlabs/totems-engine/internal/postgres"

type Config struct {
	Database    string          `mapstructure:"database"` // Database to store totem events. `postgres` | `memory`
	Postgres    postgres.Config `mapstructure:"postgres"`
	APIHandlers []string        `mapstructure:"api_handlers"` // e.g. `http`
	Market      MarketConfig    `mapstructure:"market"`
}

// MarketConfig overrides the protocol fee parameters. Values are decimal
// strings in wei scale; empty values fall back to the launch defaults.
type MarketConfig struct {
	MinBaseFee string `mapstructure:"min_base_fee"`
	BurnedFee  string `mapstructure:"burned_fee"`
}
