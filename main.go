package main

import (
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"

	"prettytrace/src/catcher"
	"prettytrace/src/database"
	"prettytrace/src/mailer"
	"prettytrace/src/notifier"
	"prettytrace/src/repository"
	"prettytrace/src/server"
)

var (
	PORT     = os.Getenv("SERVER_PORT")
	APP_NAME = os.Getenv("APP_NAME")
)

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel // safe fallback
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()

	c := catcher.New(catcher.GetConfig())
	// Recover must be deferred directly so it can intercept the panic.
	defer c.Recover(nil)

	dbConfig := database.GetConfig()
	if dbConfig.EnableDB {
		if err := database.InitMainDB(); err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
	}

	var reports *repository.ReportRepository
	if dbConfig.EnableDB {
		reports = repository.NewReportRepository()
		c.AddHandler(reports.HandleReport)
	}

	// Optional collaborators. Each validates its own config eagerly and is
	// only attached when actually configured.
	if mailConfig := mailer.GetConfig(); mailConfig.From != "" {
		m, err := mailer.NewMailer(mailConfig)
		if err != nil {
			logger.WithError(err).Fatal("Invalid mailer configuration")
		}
		c.AddHandler(m.HandleReport)
	}
	if hookConfig := notifier.GetConfig(); hookConfig.WebhookURL != "" {
		n, err := notifier.NewNotifier(hookConfig)
		if err != nil {
			logger.WithError(err).Fatal("Invalid notifier configuration")
		}
		c.AddHandler(n.HandleReport)
	}

	srv := server.NewServer(c, reports)
	c.AddHandler(srv.Hub().HandleReport)

	port := PORT
	if port == "" {
		port = server.GetConfig().Port
	}
	srv.Start(port)
}
