package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"prettytrace/cmd/demo"
	"prettytrace/cmd/serve"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "prettytrace CMD"
	app.Usage = "The prettytrace command line interface"

	app.Commands = []cli.Command{
		demoCMD,
		serveCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	demoCMD = cli.Command{
		Name:        "demo",
		Usage:       "run the error report demo",
		Action:      demoAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Raise a three-level division-by-zero failure and print its report`,
	}
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the report server",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the report HTTP server with the configured handlers`,
	}
)

func demoAction(_ *cli.Context) error {
	demo.Run()
	return nil
}

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting report server CMD")

	svc := &serve.Service{}
	if err := svc.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}
