package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/toria-lab/logosurvey/internal/api"
	"github.com/toria-lab/logosurvey/internal/catalog"
	"github.com/toria-lab/logosurvey/internal/config"
	"github.com/toria-lab/logosurvey/internal/db"
	"github.com/toria-lab/logosurvey/internal/logging"
	"github.com/toria-lab/logosurvey/internal/middleware"
	"github.com/toria-lab/logosurvey/internal/services"
	"github.com/toria-lab/logosurvey/internal/sink"
	"github.com/toria-lab/logosurvey/internal/store"
)

func main() {
	cfg, err := config.Load("config")
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logging.Init(cfg.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal("failed to load catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}
	log.Info("catalog loaded",
		zap.Int("items", cat.Size()),
		zap.String("trap_item_id", cat.TrapItemID),
		zap.Int("trap_position", cat.TrapPosition))

	kv, err := db.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal("failed to open response store", zap.String("path", cfg.Store.Path), zap.Error(err))
	}
	defer func() { _ = kv.Close() }()

	responseStore := store.NewResponseStore(kv, cfg.Store.Key, log)
	webhook := sink.NewWebhookSink(cfg.Webhook.URL)
	assembler := services.NewResponseAssembler(responseStore, webhook)
	admin := services.NewAdminService(
		[]byte(cfg.Admin.PassphraseHash),
		middleware.SignAdminToken,
		time.Duration(cfg.Admin.TokenTTLHours)*time.Hour,
	)

	mux := http.NewServeMux()
	api.NewRouter(log, cat, responseStore, assembler, admin).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"name":"logosurvey"}`))
	})

	handler := middleware.NoStore(mux)

	log.Info("server listening", zap.String("addr", cfg.Server.Addr))
	if err := http.ListenAndServe(cfg.Server.Addr, handler); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
