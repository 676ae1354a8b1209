package notifier

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	WebhookURL string        `envconfig:"WEBHOOK_URL"`
	Timeout    time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
	RetryCount int           `envconfig:"WEBHOOK_RETRY_COUNT" default:"2"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
