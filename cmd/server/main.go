package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sanadhub/donations-backend/internal/auth"
	"github.com/sanadhub/donations-backend/internal/config"
	"github.com/sanadhub/donations-backend/internal/database"
	"github.com/sanadhub/donations-backend/internal/handler"
	"github.com/sanadhub/donations-backend/internal/middleware"
	"github.com/sanadhub/donations-backend/internal/queue"
	"github.com/sanadhub/donations-backend/internal/repository"
	"github.com/sanadhub/donations-backend/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	campaigns := repository.NewCampaignRepo(db)
	cases := repository.NewCaseRepo(db)
	donations := repository.NewDonationRepo(db)
	emergency := repository.NewEmergencyRepo(db)
	ads := repository.NewAdRepo(db)
	partners := repository.NewPartnerRepo(db)
	support := repository.NewSupportRepo(db)
	settings := repository.NewSettingsRepo(db)
	reports := repository.NewReportRepo(db)

	codec := auth.NewCodec(cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)
	authSvc := auth.NewService(users, tokens, codec, auditRepo, cfg.BcryptCost)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}
	rlCfg := config.LoadRateLimitConfig()

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, authSvc, users),
		Users:     handler.NewUserHandler(users, tokens, cfg.BcryptCost),
		Campaigns: handler.NewCampaignHandler(campaigns),
		Cases:     handler.NewCaseHandler(cases, partners),
		Donations: handler.NewDonationHandler(donations, campaigns, cases, emergency, auditRepo),
		Emergency: handler.NewEmergencyHandler(emergency),
		Ads:       handler.NewAdHandler(ads),
		Partners:  handler.NewPartnerHandler(partners),
		Support:   handler.NewSupportHandler(support, campaigns, auditRepo),
		Audit:     handler.NewAuditHandler(auditRepo),
		Reports:   handler.NewReportHandler(reports),
		Settings:  handler.NewSettingsHandler(settings),
		Health:    handler.Health(db),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, h, codec, middleware.RateLimit(rlCfg, rdb))

	go func() {
		if err := queue.StartDonationConsumer(); err != nil {
			log.Printf("donation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
