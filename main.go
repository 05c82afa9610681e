package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"chatwheel/cogs"
	"chatwheel/games/roulette"
	"chatwheel/utils"
)

var botStatus atomic.Value

func main() {
	botStatus.Store("starting")

	cfg := utils.LoadConfig()
	logger, err := utils.NewLogger(cfg.ServiceName, cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	utils.RegisterMetrics(reg)

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("store setup failed", zap.Error(err))
	}
	defer store.Close()
	logger.Info("store connected", zap.Bool("postgres", cfg.DatabaseURL != ""))

	var history roulette.History = store
	if cfg.RedisAddr != "" {
		rdb, err := utils.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, keeping draw history in the store", zap.Error(err))
		} else {
			defer rdb.Close()
			history = utils.NewRedisHistory(rdb, cfg.ServiceName+":draws")
		}
	}

	var publisher utils.Publisher = utils.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kp := utils.NewKafkaPublisher(utils.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		defer kp.Close()
		publisher = kp
	}

	// A single SQLite process is the only writer, so reads can be cached.
	var accounts utils.AccountStore = store
	if cfg.DatabaseURL == "" {
		cache := utils.NewAccountCache(30*time.Second, time.Minute, logger)
		defer cache.Close()
		accounts = utils.NewCachedStore(store, cache)
	}

	engine := roulette.NewEngine(roulette.NewRandomWheel(cfg.WheelSeed), history)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: utils.NewHealthRouter(utils.HealthDeps{
			ServiceName: cfg.ServiceName,
			Status:      func() string { return botStatus.Load().(string) },
			Ping:        store.Ping,
			History:     history,
			Gatherer:    reg,
		}),
	}
	go func() {
		logger.Info("health server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	if cfg.BotToken == "" {
		logger.Warn("BOT_TOKEN not set, chat bot will not connect")
		botStatus.Store("no_token")
		<-stop
		shutdown(srv, logger)
		return
	}

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		logger.Fatal("failed to create discord session", zap.Error(err))
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildVoiceStates

	casino := cogs.NewCasino(cogs.CasinoOptions{
		Store:     accounts,
		Engine:    engine,
		Replier:   cogs.DiscordReplier{Session: session},
		Publisher: publisher,
		Rand:      roulette.NewRandomWheel(0),
		Logger:    logger,
		Prefix:    cfg.CommandPrefix,
		Timeout:   cfg.StoreTimeout,
	})
	handlers := &cogs.DiscordHandlers{Casino: casino, Allowed: cfg.ChannelAllowed, Log: logger}

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		onReady(s, r, logger)
	})
	session.AddHandler(handlers.OnMessageCreate)
	session.AddHandler(handlers.OnVoiceStateUpdate)

	if err := session.Open(); err != nil {
		botStatus.Store("connection_failed")
		logger.Error("failed to open discord connection", zap.Error(err))
		<-stop
		shutdown(srv, logger)
		return
	}
	defer session.Close()

	botStatus.Store("running")
	logger.Info("bot is now running, press CTRL+C to exit")

	<-stop
	logger.Info("gracefully shutting down")
	botStatus.Store("shutting_down")
	shutdown(srv, logger)
}

func openStore(ctx context.Context, cfg utils.Config) (utils.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if cfg.DatabaseURL != "" {
		return utils.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.ServiceName)
	}
	return utils.NewSQLiteStore(cfg.SQLitePath)
}

func onReady(s *discordgo.Session, event *discordgo.Ready, logger *zap.Logger) {
	logger.Info("discord bot logged in", zap.String("user", event.User.Username), zap.String("id", event.User.ID))
	botStatus.Store("online")

	if err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name: "Roulette | !help",
				Type: discordgo.ActivityTypeGame,
			},
		},
		Status: "online",
	}); err != nil {
		logger.Warn("failed to update status", zap.Error(err))
	}
}

func shutdown(srv *http.Server, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("health server shutdown failed", zap.Error(err))
	}
}
