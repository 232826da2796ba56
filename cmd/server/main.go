package main

import (
	"context"
	"net/http"
	"net/http/cookiejar"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/cinefront/cinefront/internal/auth"
	"github.com/cinefront/cinefront/internal/catalog"
	"github.com/cinefront/cinefront/internal/config"
	"github.com/cinefront/cinefront/internal/gateway"
	"github.com/cinefront/cinefront/internal/handler"
	"github.com/cinefront/cinefront/internal/repository"
	"github.com/cinefront/cinefront/internal/router"
	"github.com/cinefront/cinefront/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	log := logrus.New()
	if cfg.Env == "dev" {
		log.SetLevel(logrus.DebugLevel)
	}

	// One cookie jar shared by the gateway and the refresh
	// coordinator: the httpOnly refresh marker set at sign-in must be
	// visible to the refresh call.
	jar, err := cookiejar.New(nil)
	if err != nil {
		log.WithError(err).Fatal("creating cookie jar")
	}
	backendHTTP := &http.Client{Jar: jar, Timeout: cfg.HTTPTimeout}

	store := session.NewStore()
	coord := auth.NewCoordinator(cfg.APIBaseURL, backendHTTP, store, log)
	gw := gateway.New(cfg.APIBaseURL, backendHTTP, store, coord,
		gateway.WithLogger(log),
		gateway.WithAuthExpiredHook(func() {
			// The UI polls /api/session; an expired session simply
			// reads as signed out there, so the hook only records it.
			log.Info("session expired, sign-in required")
		}),
	)
	authSvc, err := auth.NewService(gw, store, jar, cfg.APIBaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("configuring auth service")
	}
	catalogClient := catalog.New(cfg.CatalogBaseURL, cfg.CatalogToken, cfg.CatalogAccountID,
		&http.Client{Timeout: cfg.HTTPTimeout})
	repo := repository.NewShowtimeRepo(gw)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, coord, store))
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalogClient))
	router.RegisterShowtimes(e, handler.NewShowtimeHandler(repo, store, catalogClient))

	// The access credential lives only in memory, so every start
	// begins signed out until the marker cookie is exchanged.  Run it
	// concurrently with serving: the UI observes isRefreshing and
	// defers auth-dependent rendering until it settles.
	go coord.RefreshOnStart(context.Background())

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("front door listening")
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
