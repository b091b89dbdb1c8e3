package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreBackendSheets   = "sheets"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	StorageBackendLocal = "local"
	StorageBackendMinio = "minio"
	StorageBackendGCS   = "gcs"

	MQBackendNone     = "none"
	MQBackendRabbitMQ = "rabbitmq"
	MQBackendPubSub   = "pubsub"
)

type Config struct {
	ServerPort     int
	JWTSecret      string
	LogLevel       string
	StoreBackend   string
	Sheets         SheetsConfig
	Database       DatabaseConfig
	SMTP           SMTPConfig
	Report         ReportConfig
	StorageBackend string
	StoragePrefix  string
	Local          LocalConfig
	Minio          MinioConfig
	GCS            GCSConfig
	MQBackend      string
	MQChannel      string
	RabbitMQ       RabbitMQConfig
	PubSub         PubSubConfig
}

// SheetsConfig points at the spreadsheet holding the six KMA tables.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	SenderEmail string
	SenderName  string
}

// ReportConfig holds the report delivery settings. An empty Recipients
// list disables the email step.
type ReportConfig struct {
	Recipients []string
}

type LocalConfig struct {
	Dir string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int

	// BindingKey filters which event types the consumer queue receives.
	BindingKey string
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "kma"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "kma_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	smtpUser := getEnv("SMTP_USER", "")
	smtpConfig := SMTPConfig{
		Host:        getEnv("SMTP_HOST", ""),
		Port:        getEnvInt("SMTP_PORT", 587),
		User:        smtpUser,
		Password:    getEnv("SMTP_PASSWORD", ""),
		SenderEmail: getEnv("SMTP_SENDER_EMAIL", smtpUser),
		SenderName:  getEnv("SMTP_SENDER_NAME", "KMA App"),
	}

	return Config{
		ServerPort:   getEnvInt("SERVER_PORT", 8080),
		JWTSecret:    strings.TrimSpace(getEnv("JWT_SECRET", "")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StoreBackendSheets)),
		Sheets: SheetsConfig{
			SpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
			CredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),
		},
		Database: dbConfig,
		SMTP:     smtpConfig,
		Report: ReportConfig{
			Recipients: getEnvList("REPORT_RECIPIENTS"),
		},
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendLocal)),
		StoragePrefix:  getEnv("STORAGE_PREFIX", "reports"),
		Local: LocalConfig{
			Dir: getEnv("LOCAL_STORAGE_DIR", "."),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "kma-reports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
		MQBackend: strings.ToLower(getEnv("MQ_BACKEND", MQBackendNone)),
		MQChannel: getEnv("MQ_CHANNEL", "inspection.completed"),
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 0),
			BindingKey:      getEnv("RABBITMQ_BINDING_KEY", "#"),
		},
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    getEnv("PUBSUB_CREDENTIALS_FILE", ""),
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
	}
}

// Validate checks that the selected backends have what they need.
func (c Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case StoreBackendSheets:
		if strings.TrimSpace(c.Sheets.SpreadsheetID) == "" {
			errs = append(errs, errors.New("SHEETS_SPREADSHEET_ID is required for the sheets store"))
		}
	case StoreBackendPostgres, StoreBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.StorageBackend {
	case StorageBackendLocal, StorageBackendMinio, StorageBackendGCS:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	switch c.MQBackend {
	case MQBackendNone, MQBackendRabbitMQ, MQBackendPubSub:
	default:
		errs = append(errs, fmt.Errorf("unknown MQ_BACKEND %q", c.MQBackend))
	}

	if len(c.Report.Recipients) > 0 && strings.TrimSpace(c.SMTP.Host) == "" {
		errs = append(errs, errors.New("SMTP_HOST is required when REPORT_RECIPIENTS is set"))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(valueStr)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping blank entries.
func getEnvList(key string) []string {
	raw := getEnv(key, "")
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
