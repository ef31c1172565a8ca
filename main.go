package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"taskminder/db"
	"taskminder/keeper"
	"taskminder/reminder"
	"taskminder/tgbot"
)

// Config is read from the JSON file named by the CONFIG_FILE environment
// variable.
type Config struct {
	TgToken   string `json:"TgToken"`
	ChatID    int64  `json:"ChatID"`
	DBConnStr string `json:"DBConnStr"`
	TimeZone  string `json:"TimeZone"`
}

// getLogger creates a logger in global namespace
func getLogger() (*zap.SugaredLogger, func() error) {
	logger, _ := zap.NewDevelopment(zap.Fields(zap.String("ns", "taskminder")))

	log := logger.Sugar()
	return log, logger.Sync
}

// readConfig reads and validates configuration from the given file
func readConfig(cfgFile string) (*Config, error) {
	raw, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "couldn't unmarshal configuration")
	}

	switch {
	case cfg.TgToken == "":
		return nil, errors.New("configuration is missing TgToken")
	case cfg.ChatID == 0:
		return nil, errors.New("configuration is missing ChatID")
	case cfg.DBConnStr == "":
		return nil, errors.New("configuration is missing DBConnStr")
	}

	return &cfg, nil
}

func main() {
	logger, syncLogs := getLogger()
	defer syncLogs()

	cfgFile, ok := os.LookupEnv("CONFIG_FILE")
	if !ok {
		logger.Fatalf("Configuration file name isn't set")
	}

	cfg, err := readConfig(cfgFile)
	if err != nil {
		logger.Fatalw("Couldn't read configuration", "file", cfgFile, "err", err)
	}

	loc := time.UTC
	if cfg.TimeZone != "" {
		loc, err = time.LoadLocation(cfg.TimeZone)
		if err != nil {
			logger.Errorw("failed loading location; using UTC time zone", "err", err)
			loc = time.UTC
		}
	}

	ctx := context.Background()

	d, err := db.New(ctx, cfg.DBConnStr, logger)
	if err != nil {
		logger.Fatalw("failed to initialize database", "err", err)
	}
	defer d.Close()

	b, err := tgbot.NewTBot(cfg.TgToken, cfg.ChatID, logger)
	if err != nil {
		logger.Fatalw("failed to initialize Telegram Bot", "err", err)
	}

	mgr := reminder.NewManager(b, logger)

	k, err := keeper.New(ctx, d, mgr, loc, logger)
	if err != nil {
		logger.Fatalw("failed to initialize task keeper", "err", err)
	}
	b.SetKeeper(k)

	mgr.Run()
	k.RunResets(ctx)

	b.Run()
}
