package main

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/medifront/frontdesk-backend/config"
	"github.com/medifront/frontdesk-backend/internal/routes"
	"github.com/medifront/frontdesk-backend/pkg/logger"
	"github.com/medifront/frontdesk-backend/pkg/storage/mariadb"
)

func main() {
	cfg := config.LoadConfig()
	db := mariadb.Connect()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	routes.Init(e, db)

	log := logger.L()
	log.Info().Str("port", cfg.Port).Msg("front-desk server listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
