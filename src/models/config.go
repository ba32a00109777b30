package models

// MConfig Structure
type MConfig struct {
	Name     string          `yaml:"name"`
	Host     string          `yaml:"host"`
	Port     int             `yaml:"port"`
	LogLevel string          `yaml:"log_level"`
	Provider MProviderConfig `yaml:"provider"`
	Feed     MFeedConfig     `yaml:"feed"`
	Sink     MSinkConfig     `yaml:"sink"`
	Client   MClientConfig   `yaml:"client"`
}

// MProviderConfig selects and tunes the upstream market/account provider.
type MProviderConfig struct {
	Kind    string   `yaml:"kind"` // "sim" is the only built-in provider
	Seed    int64    `yaml:"seed"`
	Symbols []string `yaml:"symbols"`
}

// MFeedConfig tunes the polling engine.
type MFeedConfig struct {
	PriceIntervalSeconds float64 `yaml:"price_interval_seconds"`
	TradeIntervalSeconds float64 `yaml:"trade_interval_seconds"`
	DealLookbackHours    int     `yaml:"deal_lookback_hours"`  // reconciler closing-deal window
	ReplayLookbackDays   int     `yaml:"replay_lookback_days"` // replay service deal window
	HistoryCap           int     `yaml:"history_cap"`          // bounded history buffers
	RespectMarketHours   bool    `yaml:"respect_market_hours"`
}

// MSinkConfig selects the downstream sink for the forwarder binary.
type MSinkConfig struct {
	Type     string          `yaml:"type"` // kafka | postgres | sqlite | redis | csv | none
	Kafka    MKafkaConfig    `yaml:"kafka"`
	Postgres MPostgresConfig `yaml:"postgres"`
	SQLite   MSQLiteConfig   `yaml:"sqlite"`
	Redis    MRedisConfig    `yaml:"redis"`
	CSV      MCSVConfig      `yaml:"csv"`
}

type MKafkaConfig struct {
	BrokerURL string `yaml:"broker_url"`
	Topic     string `yaml:"topic"`
}

type MPostgresConfig struct {
	ConnectionString string `yaml:"connection_string"`
}

type MSQLiteConfig struct {
	Path string `yaml:"path"`
}

type MRedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

type MCSVConfig struct {
	Dir string `yaml:"dir"`
}

// MClientConfig tunes the forwarder's reconnection driver.
type MClientConfig struct {
	ServerURL         string         `yaml:"server_url"`
	Symbols           []string       `yaml:"symbols"`
	IncludeTrades     bool           `yaml:"include_trades"`
	HeartbeatSeconds  int            `yaml:"heartbeat_seconds"`
	Backoff           MBackoffConfig `yaml:"backoff"`
}

// MBackoffConfig is the reconnect backoff policy.
type MBackoffConfig struct {
	InitialSeconds float64 `yaml:"initial_seconds"`
	Factor         float64 `yaml:"factor"`
	MaxSeconds     float64 `yaml:"max_seconds"`
}
