package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "ESCROW_CONFIG_FILE"

type topics struct {
	ProductCreated string `mapstructure:"product_created"`
	CartUpdated    string `mapstructure:"cart_updated"`
	EscrowSettled  string `mapstructure:"escrow_settled"`
	OrderPlaced    string `mapstructure:"order_placed"`
}

type consumers struct {
	SellerRevenueGroup string `mapstructure:"seller_revenue_group"`
}

type brokerTLS struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

func (t brokerTLS) Enabled() bool {
	return t.CAFile != "" && t.CertFile != "" && t.KeyFile != ""
}

type broker struct {
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	TLS                brokerTLS `mapstructure:"tls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
}

type storage struct {
	Mode   string `mapstructure:"mode"`
	SQLDB  string `mapstructure:"sql_db"`
	KVPath string `mapstructure:"kv_path"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	Storage        storage    `mapstructure:"storage"`
	Broker         broker     `mapstructure:"broker"`
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q

	StorageConfig:
	Mode=%q
	SQLDB=%q
	KVPath=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		ProductCreated=%q
		CartUpdated=%q
		EscrowSettled=%q
		OrderPlaced=%q
	Consumers:
		SellerRevenueGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.Storage.Mode,
		c.Storage.SQLDB,
		c.Storage.KVPath,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.ProductCreated,
		c.Broker.Topics.CartUpdated,
		c.Broker.Topics.EscrowSettled,
		c.Broker.Topics.OrderPlaced,
		c.Broker.Consumers.SellerRevenueGroup,
	)
}
