package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/langsoc/coursebot/core/cmd"
	"github.com/langsoc/coursebot/internal/bot"
	"github.com/langsoc/coursebot/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
