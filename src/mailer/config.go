package mailer

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	From        string   `envconfig:"EMAIL_FROM"`
	Password    string   `envconfig:"EMAIL_PASSWORD"`
	To          []string `envconfig:"EMAIL_TO"`
	SMTPAddress string   `envconfig:"EMAIL_SMTP_ADDRESS" default:"smtp.gmail.com"`
	SMTPPort    int      `envconfig:"EMAIL_SMTP_PORT" default:"465"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
