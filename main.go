package main

import (
	"fmt"
	"os"

	"github.com/tridis/config"
	"github.com/tridis/lib/logger"
	"github.com/tridis/redis/server"
	"github.com/tridis/tcp"
)

var banner = `
  ______     _     ___
 /_  __/____(_)___/ (_)____
  / / / ___/ / __  / / ___/
 / / / /  / / /_/ / (__  )
/_/ /_/  /_/\__,_/_/____/
`

var defaultProperties = &config.ServerProperties{
	Bind:                 "0.0.0.0",
	Port:                 6389,
	MaxClients:           1000,
	Databases:            16,
	SlowLogLogSlowerThan: -1,
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func main() {
	print(banner)
	logger.Setup(&logger.Settings{
		Path:       "logs",
		Name:       "tridis",
		Ext:        "log",
		TimeFormat: "2006-01-02",
	})

	configFilename := os.Getenv("CONFIG")
	if configFilename == "" {
		if fileExists("tridis.conf") {
			config.SetupConfig("tridis.conf")
		} else {
			config.Properties = defaultProperties
		}
	} else {
		config.SetupConfig(configFilename)
	}

	tcpServerConfig := &tcp.Config{
		Address: fmt.Sprintf("%s:%d", config.Properties.Bind, config.Properties.Port),
	}

	err := tcp.ListenAndServeWithSignal(tcpServerConfig, server.MakeHandler())
	if err != nil {
		logger.Error(err)
	}
}
