package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("menuctl failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "menuctl",
		Usage: "check, publish and import the restaurant menu sheet",
		Commands: []*cli.Command{
			checkCommand(),
			importCommand(),
			publishCommand(),
			hashPasswordCommand(),
		},
	}
}
