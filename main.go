package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"jnbvisualizer/audit"
	"jnbvisualizer/backup"
	"jnbvisualizer/config"
	"jnbvisualizer/designs"
	"jnbvisualizer/feed"
	_ "jnbvisualizer/format/dst"
	_ "jnbvisualizer/format/pes"
	adminHandlers "jnbvisualizer/handlers/admin"
	designHandlers "jnbvisualizer/handlers/api/designs"
	proofHandlers "jnbvisualizer/handlers/api/proofs"
	"jnbvisualizer/handlers/auth"
	"jnbvisualizer/handlers/web"
	authMiddleware "jnbvisualizer/middleware"
	"jnbvisualizer/proofs"
	"jnbvisualizer/stores"
)

func setupRouter(cfg *config.Config, catalog *designs.Catalog, store stores.Store, svc *proofs.Service, log *audit.Log) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Origin", "Host", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/designs", designHandlers.HandleList(catalog))
		r.Get("/designs/info", designHandlers.HandleInfo(svc))
		r.Get("/preview.png", proofHandlers.HandlePreview(svc))
		r.Post("/proofs", proofHandlers.HandleSave(svc))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", auth.HandleLogin(cfg))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.AdminAuth(cfg))
			r.Get("/proofs", adminHandlers.HandleListProofs(store))
			r.Get("/proofs/{proofID}/download", adminHandlers.HandleDownload(store))
			r.Get("/backup.zip", adminHandlers.HandleBackup(cfg, catalog, log))
			r.Post("/links", adminHandlers.HandleCreateLink(catalog))
		})
	})

	r.Get("/", web.HandleHome())
	r.Get("/widget", web.HandleWidget(catalog))
	r.Get("/w/{slug}", web.HandleWidgetSlug(catalog))

	return r
}

func waitForShutdown(proofFeed *feed.Feed) {
	exit := make(chan struct{})
	signalC := make(chan os.Signal, 1)

	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range signalC {
			switch s {
			case os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	logrus.Info("Shutting down...")
	proofFeed.Close()
	os.Exit(0)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":3002", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("Cannot determine working directory: %v", err)
	}
	cfg := config.Load(baseDir)
	if err := cfg.EnsureDirs(); err != nil {
		logrus.Fatalf("Cannot create data directories: %v", err)
	}
	if cfg.JWTSecret == "" {
		logrus.Warn("JNB_JWT_SECRET is not set. Admin token login will not work; use the pw parameter.")
	}

	catalog := designs.NewCatalog(cfg.MasterDir, cfg.DesignMapPath)
	store := stores.New(cfg)
	auditLog := audit.NewLog(cfg.LogCSVPath, cfg.BackupDir)
	mirror := backup.NewMirror(cfg.MirrorDir, cfg.MirrorS3Bucket)
	if mirror.Enabled() {
		logrus.WithFields(logrus.Fields{
			"dir":    cfg.MirrorDir,
			"bucket": cfg.MirrorS3Bucket,
		}).Info("Mirror backup enabled")
	}

	proofFeed := feed.New()
	svc := proofs.NewService(cfg, catalog, store, auditLog, mirror, proofFeed)

	r := setupRouter(cfg, catalog, store, svc, auditLog)
	r.Mount("/socket.io/", proofFeed.Handler())

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := http.ListenAndServe(*listenAddress, r); err != nil {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	waitForShutdown(proofFeed)
}
