package cmd

import (
	"log"

	"github.com/spf13/viper"
	"github.com/spigell/careerfit/internal/logger"
	"go.uber.org/zap"
)

// setup builds the logger and decodes the config shared by every command.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting with config",
		zap.String("version", version),
		zap.Bool("fast_mode", config.FastMode),
		zap.String("ai_provider", config.AI.Provider),
		zap.Bool("research", config.Research.Enabled),
		zap.Bool("vision_ocr", config.Extract.VisionOCR),
	)

	return logger, config
}
