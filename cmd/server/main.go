package main

import (
	"github.com/papermind-ai/papermind/internal/server"
	"github.com/papermind-ai/papermind/internal/util"
	"github.com/papermind-ai/papermind/pkg/logger"
	"github.com/papermind-ai/papermind/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
