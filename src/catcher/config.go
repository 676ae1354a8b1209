package catcher

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Limit          int  `envconfig:"REPORT_LIMIT" default:"24"`
	SkipFrames     int  `envconfig:"REPORT_SKIP_FRAMES" default:"0"`
	WrapSkipFrames int  `envconfig:"REPORT_WRAP_SKIP_FRAMES" default:"1"`
	Rich           bool `envconfig:"REPORT_RICH" default:"true"`
	Colors         bool `envconfig:"REPORT_COLORS" default:"true"`
	Raises         bool `envconfig:"REPORT_RAISES" default:"false"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
