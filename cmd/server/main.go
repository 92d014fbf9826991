package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/C6OI/protanki-server/internal/battle"
	"github.com/C6OI/protanki-server/internal/config"
	"github.com/C6OI/protanki-server/internal/garage"
	"github.com/C6OI/protanki-server/internal/maps"
	"github.com/C6OI/protanki-server/internal/server"
	"github.com/C6OI/protanki-server/internal/version"
	"github.com/C6OI/protanki-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var configDir string
	flag.StringVar(&configDir, "config", ".", "Directory with server.cfg.json")
	flag.Parse()

	logger.Log.Info("Starting ProTanki Server...")
	logger.Log.Info(version.String())

	if err := config.Load(configDir); err != nil {
		logger.Log.Fatal("Config error:", err)
	}

	serverCfg := config.Server()
	battleCfg := config.Battle()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Инициализация ядра
	// Все зависимости собираются здесь и прокидываются явно.
	mapRegistry := maps.NewRegistry()
	users := garage.NewStore()
	registry := server.NewRegistry()

	battles := battle.NewService(ctx, registry, mapRegistry, battle.Settings{
		Fund:               battleCfg.Fund,
		ScoreLimit:         battleCfg.ScoreLimit,
		TimeLimit:          battleCfg.TimeLimit,
		SuicideRestartTime: battleCfg.SuicideRestartTime,
	})

	// Дефолтная битва, чтобы клиентам было куда заходить сразу после старта.
	if _, err := battles.CreateBattle(battleCfg.DefaultTitle, battleCfg.DefaultMap, battle.ModeDeathmatch); err != nil {
		logger.Log.Fatal("Failed to create default battle:", err)
	}

	dispatcher := battle.NewDispatcher(battles)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(dispatcher, users, registry, serverCfg.Port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error:", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	battles.Close()

	logger.Log.Info("Done.")
}
