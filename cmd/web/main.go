package main

import (
	"os"

	"github.com/vivienda/bienesraices/internal/auth"
	"github.com/vivienda/bienesraices/internal/config"
	"github.com/vivienda/bienesraices/internal/logger"
	"github.com/vivienda/bienesraices/internal/notify"
	"github.com/vivienda/bienesraices/internal/property"
	"github.com/vivienda/bienesraices/internal/store"
	"github.com/vivienda/bienesraices/internal/web"
)

func main() {
	log := logger.New("web")

	cfg, err := config.Load()
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}

	db, err := store.Open(cfg.Persistence)
	if err != nil {
		log.Errorf("open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := store.Migrate(db, cfg.Persistence.Driver); err != nil {
		log.Errorf("run migrations: %v", err)
		os.Exit(1)
	}

	users := store.NewUsers(db)
	props := store.NewProperties(db)
	msgs := store.NewMessages(db)
	catalog := store.NewCatalog(db)

	tokens := auth.NewTokenService(
		[]byte(cfg.Auth.SigningKey),
		cfg.Auth.TokenExpiration,
		cfg.Auth.Issuer,
		log.Named("tokens"),
	)

	mailer := notify.NewMailer(cfg.Email, cfg.HTTP.BaseURL, log.Named("mailer"))
	accounts := auth.NewAccounts(users, tokens, mailer, cfg.Auth.BCryptCost).
		WithLogger(log.Named("accounts"))

	assets, err := property.NewDirAssets(cfg.Uploads.Dir)
	if err != nil {
		log.Errorf("prepare uploads dir: %v", err)
		os.Exit(1)
	}

	engine := property.NewEngine(props, msgs, assets, log.Named("properties"))

	srv, err := web.New(web.Options{
		Config:   cfg,
		Accounts: accounts,
		Engine:   engine,
		Catalog:  catalog,
		Props:    props,
		Logger:   log.Named("http"),
	})
	if err != nil {
		log.Errorf("build server: %v", err)
		os.Exit(1)
	}

	log.Infof("listening on %s", cfg.HTTP.Address)
	if err := srv.Listen(); err != nil {
		log.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}
