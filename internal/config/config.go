// Package config loads settings from the environment, an optional .env file
// and an optional config file.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/muhammadolammi/careermatchworker/internal/storage"
	"github.com/spf13/viper"
)

// Defaults for the optional worker settings.
const (
	DefaultWorkers         = 3
	DefaultQueueName       = "sessions"
	DefaultUpdatesExchange = "session_updates"
)

// Worker holds the infrastructure settings needed by the queue consumer.
type Worker struct {
	DBURL           string `mapstructure:"db_url" validate:"required"`
	RabbitMQURL     string `mapstructure:"rabbitmq_url" validate:"required"`
	R2AccountID     string `mapstructure:"r2_account_id" validate:"required"`
	R2Bucket        string `mapstructure:"r2_bucket" validate:"required"`
	R2AccessKey     string `mapstructure:"r2_access_key" validate:"required"`
	R2SecretKey     string `mapstructure:"r2_secret_key" validate:"required"`
	Workers         int    `mapstructure:"workers" validate:"min=1"`
	QueueName       string `mapstructure:"queue_name" validate:"required"`
	UpdatesExchange string `mapstructure:"updates_exchange" validate:"required"`
}

type Config struct {
	Debug       bool   `mapstructure:"debug"`
	JSON        bool   `mapstructure:"json"`
	CatalogFile string `mapstructure:"catalog_file"`
	Worker      `mapstructure:",squash"`
}

var keys = []string{
	"db_url",
	"rabbitmq_url",
	"r2_account_id",
	"r2_bucket",
	"r2_access_key",
	"r2_secret_key",
	"workers",
	"queue_name",
	"updates_exchange",
	"catalog_file",
}

// LoadDotEnv reads .env into the process environment when the file exists.
// Variables already set win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Bind registers defaults and environment variables on v. Each key reads
// the upper-cased variable of the same name.
func Bind(v *viper.Viper) error {
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("queue_name", DefaultQueueName)
	v.SetDefault("updates_exchange", DefaultUpdatesExchange)

	for _, key := range keys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return fmt.Errorf("binding %s environment variable: %w", strings.ToUpper(key), err)
		}
	}
	return nil
}

// Load binds v and decodes it. It does not validate; commands validate the
// sections they need.
func Load(v *viper.Viper) (*Config, error) {
	if err := Bind(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		return strings.ToUpper(name)
	})
	return v
}

// Validate reports every missing or invalid worker setting by its
// environment variable name.
func (w Worker) Validate() error {
	err := validate.Struct(w)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s failed on %s=%s", fe.Field(), fe.Tag(), fe.Param()))
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(invalid, ", "))
	}
	return fmt.Errorf("worker config: %s", strings.Join(parts, "; "))
}

func (w Worker) R2() storage.R2Config {
	return storage.R2Config{
		AccountID: w.R2AccountID,
		Bucket:    w.R2Bucket,
		AccessKey: w.R2AccessKey,
		SecretKey: w.R2SecretKey,
	}
}
