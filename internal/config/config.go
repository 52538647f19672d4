package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/constants"
	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

/*
init : 設置 viper watch 與 onConfigChange
read : 一般讀取, 需要讀寫鎖
.env 不存在時只吃環境變數與預設值
*/
var configSingleton *ConfigSingleTon
var muonce sync.Once

// 設定檔位置, 可由環境變數覆蓋
const ConfigPathEnv = "CAFE_ERP_CONFIG"

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ModulerName string `mapstructure:"MODULER_NAME"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// 有設定且 KAFKA_BROKERS 不為空時, log 同時送到此 topic
	LogKafkaTopic string `mapstructure:"LOG_KAFKA_TOPIC"`

	DbDriver   string `mapstructure:"DB_DRIVER"`
	SqlitePath string `mapstructure:"SQLITE_PATH"`
	DbName     string `mapstructure:"POSTGRES_DB"`
	DbHost     string `mapstructure:"POSTGRES_HOST"`
	DbPort     string `mapstructure:"POSTGRES_PORT"`
	DbUser     string `mapstructure:"POSTGRES_USER"`
	DbPas      string `mapstructure:"POSTGRES_PASSWORD"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	StockCacheTTL time.Duration `mapstructure:"STOCK_CACHE_TTL"`

	KafkaBrokers    []string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string   `mapstructure:"KAFKA_ORDER_TOPIC"`

	AdvisorURL           string        `mapstructure:"ADVISOR_URL"`
	AdvisorAPIKey        string        `mapstructure:"ADVISOR_API_KEY"`
	AdvisorModel         string        `mapstructure:"ADVISOR_MODEL"`
	AdvisorTimeout       time.Duration `mapstructure:"ADVISOR_TIMEOUT"`
	AdvisorRatePerMinute int           `mapstructure:"ADVISOR_RATE_PER_MINUTE"`

	// 每個 client IP 的 API 限流, 0 代表不限
	APIRatePerSecond int `mapstructure:"API_RATE_PER_SECOND"`
	APIRateBurst     int `mapstructure:"API_RATE_BURST"`

	SeedFile string `mapstructure:"SEED_FILE"`
}

func (c *Config) IsDebug() bool {
	return constants.ENV(c.Env) == constants.Debug
}

func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.Config
}

func initConfig() {
	if configSingleton == nil {
		muonce.Do(func() {
			configSingleton = &ConfigSingleTon{}
			path := configPath()
			v := viper.New()
			cf, err := loadConfig(v, path)
			if err != nil {
				log.Fatalf("error read config: %s", err)
			}
			configSingleton.Config = cf

			if _, err := os.Stat(path); err != nil {
				return
			}
			v.WatchConfig()
			v.OnConfigChange(func(e fsnotify.Event) {
				cf, err := loadConfig(v, path)
				if err != nil {
					log.Printf("failed to reload config file %s: %s", e.Name, err)
					return
				}
				configSingleton.mu.Lock()
				configSingleton.Config = cf
				configSingleton.mu.Unlock()
			})
		})
	}
}

// LoadConfig 讀取指定路徑設定, 不使用單例
// 單純回傳錯誤, 由外部決定要不要Fatal
func LoadConfig(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if !constants.IsValidDBDriver(cf.DbDriver) {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cf.DbDriver)
	}
	return cf, nil
}

// 每個 key 都要有預設值, AutomaticEnv 才能在 Unmarshal 時被讀到
func setDefaults(v *viper.Viper) {
	v.SetDefault("MODULER_NAME", "cafe_erp")
	v.SetDefault("ENV", string(constants.Debug))
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_KAFKA_TOPIC", "")
	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("DB_DRIVER", string(constants.DriverSqlite))
	v.SetDefault("SQLITE_PATH", "cafe_erp.db")
	v.SetDefault("POSTGRES_DB", "cafe_erp")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "")
	v.SetDefault("POSTGRES_PASSWORD", "")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("STOCK_CACHE_TTL", constants.DefaultStockCacheTTL)

	v.SetDefault("KAFKA_BROKERS", []string{})
	v.SetDefault("KAFKA_ORDER_TOPIC", constants.DefaultOrderTopic)

	v.SetDefault("ADVISOR_URL", "")
	v.SetDefault("ADVISOR_API_KEY", "")
	v.SetDefault("ADVISOR_MODEL", "")
	v.SetDefault("ADVISOR_TIMEOUT", constants.DefaultAdvisorTimeout)
	v.SetDefault("ADVISOR_RATE_PER_MINUTE", 10)

	v.SetDefault("API_RATE_PER_SECOND", 20)
	v.SetDefault("API_RATE_BURST", 40)

	v.SetDefault("SEED_FILE", "")
}

func configPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return ".env"
}
