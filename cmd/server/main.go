package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/auth"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/bot"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/config"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/handler"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/logger"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/middleware"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/narrative"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository/postgres"
	redisrepo "github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository/redis"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository/sqlite"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/service"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Config load failed")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Dev: cfg.Dev})

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Fatal().Err(err).Str("rulesFile", cfg.RulesFile).Msg("Rules load failed")
	}
	bot.MinAttackTroops = rules.MinAITroops
	log.Info().Str("port", cfg.Port).Str("rulesFile", cfg.RulesFile).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := postgres.Migrate(db, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	}

	// Redis
	redisClient, err := redisrepo.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Enable Redis keyspace notifications for timer expiry events.
	if err := redisClient.Underlying().ConfigSet(context.Background(), "notify-keyspace-events", "Ex").Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to set Redis keyspace notifications (timer expiry falls back to polling)")
	}

	// Local save slots
	var saveStore *sqlite.Store
	if cfg.SavePath != "" {
		saveStore, err = sqlite.Open(cfg.SavePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SavePath).Msg("Save store open failed")
		}
		defer saveStore.Close()
	}

	// Repos
	playerRepo := postgres.NewPlayerRepo(db)
	campaignRepo := postgres.NewCampaignRepo(db)
	turnRepo := postgres.NewTurnRepo(db)

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)
	wsHub := handler.NewHub()

	// Services
	narrator := narrative.NewService(
		narrative.NewClient(cfg.NarrativeAPIKey, cfg.NarrativeAPIURL, cfg.NarrativeModel),
		rules, kingdoms.NewSeededRand(),
	)
	engineCfg := service.EngineConfig{Rules: rules, AI: bot.NewGenerator(), Narrator: narrator}
	locks := &service.Locks{}

	campaignSvc := service.NewCampaignService(campaignRepo, turnRepo, redisClient, locks)
	if saveStore != nil {
		campaignSvc.SetSaveStore(saveStore)
	}
	orderSvc := service.NewOrderService(campaignRepo, turnRepo, redisClient, locks, engineCfg, wsHub)
	turnSvc := service.NewTurnService(campaignRepo, turnRepo, redisClient, locks, engineCfg, wsHub)

	timerListener := service.NewTimerListener(redisClient.Underlying(), turnSvc, turnRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(jwtMgr, playerRepo)
	playerHandler := handler.NewPlayerHandler(playerRepo)
	campaignHandler := handler.NewCampaignHandler(campaignSvc, cfg.TurnDuration)
	orderHandler := handler.NewOrderHandler(orderSvc)
	turnHandler := handler.NewTurnHandler(turnSvc)
	wsHandler := handler.NewWSHandler(wsHub, jwtMgr, campaignSvc)

	// Router
	mux := http.NewServeMux()
	authMw := auth.Middleware(jwtMgr)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth (public)
	mux.HandleFunc("POST /auth/guest", authHandler.GuestLogin)
	mux.HandleFunc("POST /auth/refresh", authHandler.RefreshToken)

	// Protected API routes
	api := http.NewServeMux()
	api.HandleFunc("GET /players/me", playerHandler.GetMe)
	api.HandleFunc("PATCH /players/me", playerHandler.UpdateMe)

	api.HandleFunc("GET /factions", campaignHandler.ListFactions)
	api.HandleFunc("GET /catalog", campaignHandler.Catalog)
	api.HandleFunc("POST /campaigns", campaignHandler.CreateCampaign)
	api.HandleFunc("GET /campaigns", campaignHandler.ListCampaigns)
	api.HandleFunc("GET /campaigns/{id}", campaignHandler.GetCampaign)
	api.HandleFunc("DELETE /campaigns/{id}", campaignHandler.DeleteCampaign)
	api.HandleFunc("GET /campaigns/{id}/world", campaignHandler.World)
	api.HandleFunc("GET /campaigns/{id}/turns", campaignHandler.ListTurns)
	api.HandleFunc("GET /campaigns/{id}/battles", campaignHandler.ListBattles)
	api.HandleFunc("GET /campaigns/{id}/chronicle", campaignHandler.Chronicle)
	api.HandleFunc("POST /campaigns/{id}/saves", campaignHandler.SaveGame)
	api.HandleFunc("POST /campaigns/{id}/saves/{slot}/load", campaignHandler.LoadGame)
	api.HandleFunc("GET /saves", campaignHandler.ListSaves)
	api.HandleFunc("DELETE /saves/{slot}", campaignHandler.DeleteSave)

	api.HandleFunc("POST /campaigns/{id}/orders", orderHandler.IssueOrder)
	api.HandleFunc("POST /campaigns/{id}/search", orderHandler.Search)
	api.HandleFunc("POST /campaigns/{id}/diplomacy/alliance", orderHandler.FormAlliance)
	api.HandleFunc("POST /campaigns/{id}/diplomacy/war", orderHandler.DeclareWar)
	api.HandleFunc("POST /campaigns/{id}/prisoners/{gid}/persuade", orderHandler.Persuade)
	api.HandleFunc("POST /campaigns/{id}/prisoners/{gid}/bribe", orderHandler.Bribe)
	api.HandleFunc("POST /campaigns/{id}/tavern", orderHandler.Tavern)
	api.HandleFunc("POST /campaigns/{id}/market", orderHandler.BuyItem)
	api.HandleFunc("POST /campaigns/{id}/garrisons/{sub}", orderHandler.AssignGarrison)
	api.HandleFunc("DELETE /campaigns/{id}/garrisons/{sub}", orderHandler.RecallGarrison)

	api.HandleFunc("POST /campaigns/{id}/end-turn", turnHandler.EndTurn)
	api.HandleFunc("GET /campaigns/{id}/duel", turnHandler.PendingDuel)
	api.HandleFunc("POST /campaigns/{id}/duel", turnHandler.SubmitDuel)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	root := middleware.Chain(mux, middleware.Recover, middleware.Logger, middleware.CORS(cfg.CORSOrigins), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Rehydrate Redis from Postgres after a restart.
	if err := turnSvc.RecoverActiveCampaigns(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to recover active campaigns (non-fatal)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go timerListener.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
