package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	Data        Data        `json:"data"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	Feed        Feed        `json:"feed"`
	Events      Events      `json:"events"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RabbitMQ    RabbitMQ    `json:"rabbitMQ"`
	Storage     Storage     `json:"storage"`
	Cors        Cors        `json:"cors"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Psql  Db `json:"psql"`
	MySql Db `json:"mysql"`
	Mongo Db `json:"mongo"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	URI      string `json:"uri"`
}

// Data selects the engagement/video store: mongo, postgres, mssql or memory.
type Data struct {
	Source string `json:"source"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	DB       int    `json:"db"`
}

type Logger struct {
	Format string `json:"format"`
}

type Feed struct {
	DefaultPageSize      int `json:"defaultPageSize"`
	MaxPageSize          int `json:"maxPageSize"`
	SearchPageSize       int `json:"searchPageSize"`
	CountCacheTTLSeconds int `json:"countCacheTTLSeconds"`
}

// Events selects the broker engagement events go to: pubsub, servicebus,
// rabbitmq, or empty for in-process only.
type Events struct {
	Driver string `json:"driver"`
	Topic  string `json:"topic"`
}

type Pubsub struct {
	ProjectID       string `json:"projectID"`
	CredentialsFile string `json:"credentialsFile"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
}

type RabbitMQ struct {
	URL string `json:"url"`
}

type Storage struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
	Bucket    string `json:"bucket"`
	UseSSL    bool   `json:"useSSL"`
	PublicURL string `json:"publicURL"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

var C Config

func init() {
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initFeed(&C)
	initIntegrations(&C)
	logger.SetFormat(C.Logger.Format)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		C.Data.Source = v
	}
	if C.Data.Source == "" {
		C.Data.Source = "mongo"
	}
	C.Data.Source = strings.ToLower(C.Data.Source)

	setIfEmpty(&C.Database.Psql.Name, os.Getenv("DB_NAME"))
	setIfEmpty(&C.Database.Psql.Host, os.Getenv("DB_HOST"))
	setIfEmpty(&C.Database.Psql.Port, os.Getenv("DB_PORT"))
	setIfEmpty(&C.Database.Psql.User, os.Getenv("DB_USER"))
	setIfEmpty(&C.Database.Psql.Password, os.Getenv("DB_PASSWORD"))

	setIfEmpty(&C.Database.Mssql.Name, os.Getenv("MSSQL_DB_NAME"))
	setIfEmpty(&C.Database.Mssql.Host, os.Getenv("MSSQL_HOST"))
	setIfEmpty(&C.Database.Mssql.Port, os.Getenv("MSSQL_PORT"))
	setIfEmpty(&C.Database.Mssql.User, os.Getenv("MSSQL_USER"))
	setIfEmpty(&C.Database.Mssql.Password, os.Getenv("MSSQL_PASSWORD"))
	setIfEmpty(&C.Database.Mssql.Port, "1433")

	setIfEmpty(&C.Database.MySql.Name, os.Getenv("MYSQL_DB_NAME"))
	setIfEmpty(&C.Database.MySql.Host, os.Getenv("MYSQL_HOST"))
	setIfEmpty(&C.Database.MySql.Port, os.Getenv("MYSQL_PORT"))
	setIfEmpty(&C.Database.MySql.User, os.Getenv("MYSQL_USER"))
	setIfEmpty(&C.Database.MySql.Password, os.Getenv("MYSQL_PASSWORD"))

	setIfEmpty(&C.Database.Mongo.URI, os.Getenv("MONGO_URI"))
	setIfEmpty(&C.Database.Mongo.Name, os.Getenv("MONGO_DB_NAME"))
	setIfEmpty(&C.Database.Mongo.Name, "shahmeer")
	setIfEmpty(&C.Database.Mongo.Host, "localhost")
	setIfEmpty(&C.Database.Mongo.Port, "27017")

	logger.GetLogger().WithField("source", C.Data.Source).Info("Data source configured")
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// APP_PORT -> PORT -> config -> 5000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 5000
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			C.App.TLSEnabled = b
		}
	}
	setIfEmpty(&C.App.TLSCertFile, os.Getenv("TLS_CERT_FILE"))
	setIfEmpty(&C.App.TLSKeyFile, os.Getenv("TLS_KEY_FILE"))
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; bearer tokens will be rejected. Provide SECRET_KEY via environment.")
	}
	if len(C.Cors.AllowOrigins) == 0 {
		C.Cors.AllowOrigins = []string{"https://shahmeer-project.netlify.app", "http://localhost:3000"}
	}
}

func initFeed(C *Config) {
	if C.Feed.DefaultPageSize <= 0 {
		C.Feed.DefaultPageSize = 10
	}
	if C.Feed.MaxPageSize <= 0 {
		C.Feed.MaxPageSize = 100
	}
	if C.Feed.SearchPageSize <= 0 {
		C.Feed.SearchPageSize = 10
	}
	if C.Feed.CountCacheTTLSeconds <= 0 {
		C.Feed.CountCacheTTLSeconds = 30
	}
}

func initIntegrations(C *Config) {
	setIfEmpty(&C.RedisClient.Host, os.Getenv("REDIS_HOST"))
	setIfEmpty(&C.RedisClient.Port, os.Getenv("REDIS_PORT"))
	setIfEmpty(&C.RedisClient.Username, os.Getenv("REDIS_USERNAME"))
	setIfEmpty(&C.RedisClient.Password, os.Getenv("REDIS_PASSWORD"))

	if v := os.Getenv("EVENTS_DRIVER"); v != "" {
		C.Events.Driver = v
	}
	C.Events.Driver = strings.ToLower(C.Events.Driver)
	setIfEmpty(&C.Events.Topic, "video-engagement")
	setIfEmpty(&C.Pubsub.ProjectID, os.Getenv("PUBSUB_PROJECT_ID"))
	setIfEmpty(&C.Pubsub.CredentialsFile, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	setIfEmpty(&C.ServiceBus.Namespace, os.Getenv("SERVICEBUS_NAMESPACE"))
	setIfEmpty(&C.RabbitMQ.URL, os.Getenv("RABBITMQ_URL"))

	setIfEmpty(&C.Storage.Endpoint, os.Getenv("STORAGE_ENDPOINT"))
	setIfEmpty(&C.Storage.AccessKey, os.Getenv("STORAGE_ACCESS_KEY"))
	setIfEmpty(&C.Storage.SecretKey, os.Getenv("STORAGE_SECRET_KEY"))
	setIfEmpty(&C.Storage.Bucket, os.Getenv("STORAGE_BUCKET"))
	setIfEmpty(&C.Storage.Bucket, "videos")
	setIfEmpty(&C.Storage.PublicURL, os.Getenv("STORAGE_PUBLIC_URL"))
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
