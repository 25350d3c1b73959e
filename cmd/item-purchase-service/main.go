// Package main boots the Item Purchase Service HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/item-purchase-service/internal/backend"
	"github.com/fairyhunter13/item-purchase-service/internal/config"
	httpapi "github.com/fairyhunter13/item-purchase-service/internal/http"
	"github.com/fairyhunter13/item-purchase-service/internal/model"
	"github.com/fairyhunter13/item-purchase-service/internal/obs"
	"github.com/fairyhunter13/item-purchase-service/internal/session"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	svc := backend.NewMemory(cfg.Currency)
	seed(svc)
	reg := session.NewRegistry(cfg.SessionCap)

	app := httpapi.NewApp(cfg, svc, reg)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped", "sessions_live", reg.Count())
}

// seed loads the simulator backend with a demo catalog, accounts, and a
// manager user so the service is usable out of the box.
func seed(svc *backend.Memory) {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	svc.SeedItems([]model.Item{
		{ID: "ITM-0001", Name: "Hammer", Description: "16oz claw hammer", Type: "Tool", Family: "Hand", UnitPrice: price("10.00")},
		{ID: "ITM-0002", Name: "Drill", Description: "Cordless drill, 18V", Type: "Tool", Family: "Power", UnitPrice: price("50.00")},
		{ID: "ITM-0003", Name: "Screwdriver Set", Description: "6-piece set", Type: "Tool", Family: "Hand", UnitPrice: price("15.50")},
		{ID: "ITM-0004", Name: "Circular Saw", Description: "7-1/4 inch blade", Type: "Tool", Family: "Power", UnitPrice: price("89.99")},
		{ID: "ITM-0005", Name: "Safety Goggles", Description: "Anti-fog lenses", Type: "Safety", Family: "Protective", UnitPrice: price("7.25")},
		{ID: "ITM-0006", Name: "Work Gloves", Description: "Leather palm", Type: "Safety", Family: "Protective", UnitPrice: price("9.75")},
	})
	svc.SeedAccounts(
		model.Account{ID: "ACC-1001", Name: "Acme Construction"},
		model.Account{ID: "ACC-1002", Name: "Northside Workshop"},
	)
	svc.SeedManagers("USR-MGR-1")
	svc.SeedPicklists([]model.PicklistEntry{
		{Kind: "type", Label: "Tool", Value: "Tool"},
		{Kind: "type", Label: "Safety", Value: "Safety"},
		{Kind: "family", Label: "Hand", Value: "Hand"},
		{Kind: "family", Label: "Power", Value: "Power"},
		{Kind: "family", Label: "Protective", Value: "Protective"},
	})
	obs.Logger.Info("backend_seeded", "items", 6, "accounts", 2)
}
