package main

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aryy8/yatriguard/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment defaults")
	}
	cli.Execute()
}
