package config

import (
	"time"

	"github.com/op/go-logging"
	"github.com/spf13/viper"
)

var log = logging.MustGetLogger("config")

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Offline   OfflineConfig
	Events    EventsConfig
	Store     StoreConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// PrinterConfig selects the receipt printer transport. The transport is fixed
// for the life of the process.
type PrinterConfig struct {
	Name          string
	Type          string
	USBPath       string
	BluetoothPath string
	Host          string
	Port          int
	SendTimeout   time.Duration
	MaxAttempts   int
	AutoDrain     bool
}

// OfflineConfig controls the local sale queue used while the store database is unreachable.
type OfflineConfig struct {
	QueuePath    string
	MaxEntries   int
	SyncInterval time.Duration
	ProbeTimeout time.Duration
}

type EventsConfig struct {
	URL      string
	Exchange string
}

// StoreConfig is the receipt header used until settings are saved for a location.
type StoreConfig struct {
	Name              string
	Address           string
	Phone             string
	TaxID             string
	Footer            string
	DigitalReceiptURL string
	PaperWidth        int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warningf(".env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "repairpos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "repairpos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_NAME", "front")
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_BLUETOOTH_PATH", "/dev/rfcomm0")
	viper.SetDefault("PRINTER_HOST", "")
	viper.SetDefault("PRINTER_PORT", 9100)
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("PRINTER_SEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("PRINTER_MAX_ATTEMPTS", 3)
	viper.SetDefault("PRINTER_AUTO_DRAIN", true)
	viper.SetDefault("OFFLINE_QUEUE_PATH", "./storage/offline_queue.db")
	viper.SetDefault("OFFLINE_MAX_ENTRIES", 5000)
	viper.SetDefault("OFFLINE_SYNC_INTERVAL_SECONDS", 30)
	viper.SetDefault("OFFLINE_PROBE_TIMEOUT_SECONDS", 2)
	viper.SetDefault("EVENTS_AMQP_URL", "")
	viper.SetDefault("EVENTS_EXCHANGE", "pos.events")
	viper.SetDefault("STORE_NAME", "Repair Shop")
	viper.SetDefault("STORE_FOOTER", "Thank you for your business!")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Name:          viper.GetString("PRINTER_NAME"),
			Type:          viper.GetString("PRINTER_TYPE"),
			USBPath:       viper.GetString("PRINTER_USB_PATH"),
			BluetoothPath: viper.GetString("PRINTER_BLUETOOTH_PATH"),
			Host:          viper.GetString("PRINTER_HOST"),
			Port:          viper.GetInt("PRINTER_PORT"),
			SendTimeout:   time.Duration(viper.GetInt("PRINTER_SEND_TIMEOUT_SECONDS")) * time.Second,
			MaxAttempts:   viper.GetInt("PRINTER_MAX_ATTEMPTS"),
			AutoDrain:     viper.GetBool("PRINTER_AUTO_DRAIN"),
		},
		Offline: OfflineConfig{
			QueuePath:    viper.GetString("OFFLINE_QUEUE_PATH"),
			MaxEntries:   viper.GetInt("OFFLINE_MAX_ENTRIES"),
			SyncInterval: time.Duration(viper.GetInt("OFFLINE_SYNC_INTERVAL_SECONDS")) * time.Second,
			ProbeTimeout: time.Duration(viper.GetInt("OFFLINE_PROBE_TIMEOUT_SECONDS")) * time.Second,
		},
		Events: EventsConfig{
			URL:      viper.GetString("EVENTS_AMQP_URL"),
			Exchange: viper.GetString("EVENTS_EXCHANGE"),
		},
		Store: StoreConfig{
			Name:              viper.GetString("STORE_NAME"),
			Address:           viper.GetString("STORE_ADDRESS"),
			Phone:             viper.GetString("STORE_PHONE"),
			TaxID:             viper.GetString("STORE_TAX_ID"),
			Footer:            viper.GetString("STORE_FOOTER"),
			DigitalReceiptURL: viper.GetString("STORE_DIGITAL_RECEIPT_URL"),
			PaperWidth:        viper.GetInt("PRINTER_WIDTH"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
