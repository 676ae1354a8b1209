package serve

import (
	"os"

	logger "github.com/sirupsen/logrus"

	"prettytrace/src/catcher"
	"prettytrace/src/database"
	"prettytrace/src/mailer"
	"prettytrace/src/notifier"
	"prettytrace/src/repository"
	"prettytrace/src/server"
)

// Service wires the catcher, its report handlers and the HTTP surface from
// environment configuration, the same way the root entrypoint does.
type Service struct{}

func (s *Service) Start() error {
	c := catcher.New(catcher.GetConfig())

	dbConfig := database.GetConfig()
	var reports *repository.ReportRepository
	if dbConfig.EnableDB {
		if err := database.InitMainDB(); err != nil {
			return err
		}
		reports = repository.NewReportRepository()
		c.AddHandler(reports.HandleReport)
	}

	if mailConfig := mailer.GetConfig(); mailConfig.From != "" {
		m, err := mailer.NewMailer(mailConfig)
		if err != nil {
			return err
		}
		c.AddHandler(m.HandleReport)
	}
	if hookConfig := notifier.GetConfig(); hookConfig.WebhookURL != "" {
		n, err := notifier.NewNotifier(hookConfig)
		if err != nil {
			return err
		}
		c.AddHandler(n.HandleReport)
	}

	srv := server.NewServer(c, reports)
	c.AddHandler(srv.Hub().HandleReport)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = server.GetConfig().Port
	}

	logger.WithField("port", port).Info("Starting report server")
	srv.Start(port)
	return nil
}
