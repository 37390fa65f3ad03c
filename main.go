package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wfunc/wordchain/ai"
	"github.com/wfunc/wordchain/broadcast"
	"github.com/wfunc/wordchain/config"
	"github.com/wfunc/wordchain/game"
	"github.com/wfunc/wordchain/logger"
	"github.com/wfunc/wordchain/monitor"
	"github.com/wfunc/wordchain/rules"
	"github.com/wfunc/wordchain/score"
	"github.com/wfunc/wordchain/server"
	"github.com/wfunc/wordchain/session"
	"github.com/wfunc/wordchain/words"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Load the dictionary
	dict, err := words.NewDictionary(cfg.Words.File)
	if err != nil {
		logger.Log.Fatalf("Failed to load word list: %v", err)
	}
	logger.Log.Infof("Loaded %d words from %s", dict.Len(), cfg.Words.File)

	// Open the score store
	store, err := openStore(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to open score store: %v", err)
	}
	defer store.Close()

	// Pick the bot move provider
	var provider game.MoveProvider
	if cfg.AI.APIKey != "" {
		provider = ai.NewClient(cfg.AI)
		logger.Log.Infof("Bot moves served by %s", cfg.AI.Model)
	} else {
		provider = ai.NewLocal(dict, time.Now().UnixNano())
		logger.Log.Info("No AI API key configured, bot moves served from the dictionary")
	}

	// Wire the engine to its transport
	sessionManager := session.NewManager()
	broadcaster := broadcast.NewRoomBroadcaster(sessionManager)

	engine := game.NewEngine(game.Options{
		TurnSeconds: cfg.Game.TurnSeconds,
		MinTurnTime: cfg.Game.MinTurnTime,
		MaxTurnTime: cfg.Game.MaxTurnTime,
		MaxBots:     cfg.Game.MaxBots,
		Scoring: rules.Scoring{
			LongWordLen:   cfg.Game.LongWordLen,
			LongWordBonus: cfg.Game.LongWordBonus,
			StreakMin:     cfg.Game.StreakMin,
			StreakBonus:   cfg.Game.StreakBonus,
			ComboStep:     cfg.Game.ComboStep,
			ComboBonus:    cfg.Game.ComboBonus,
		},
		ThinkDelay: time.Duration(cfg.AI.ThinkDelayMS) * time.Millisecond,
	}, dict, store, broadcaster, provider)

	// Monitoring
	mon := monitor.NewMonitor("wordchain")
	engine.SetCollector(mon)
	mon.StartServer(cfg.Server.MetricsAddress)

	// Gateway
	gateway := server.NewGateway(
		cfg.Server.HTTPAddress,
		cfg.Server.RPCAddress,
		cfg.Server.CommandPrefix,
		engine,
		sessionManager,
		store,
		dict,
		mon,
	)

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logger.Log.Info("Shutting down")
		gateway.Shutdown()
		store.Close()
		logger.Sync()
		os.Exit(0)
	}()

	logger.Log.Infof("Starting word chain server on %s", cfg.Server.HTTPAddress)
	if err := gateway.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

// openStore selects the score backend from configuration.
func openStore(cfg *config.Config) (score.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return score.NewPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
	case "gorm":
		return score.NewGormPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
	default:
		return score.NewFileStore(cfg.Scores.File)
	}
}
