// Command customer-data-agent serves the customer-data specialist over the
// agent-to-agent protocol. It owns the support database and exposes lookup,
// update, and ticketing operations.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhstoller/multi-agent-customer-service/a2a"
	"github.com/bhstoller/multi-agent-customer-service/agents/customerdata"
	"github.com/bhstoller/multi-agent-customer-service/config"
	"github.com/bhstoller/multi-agent-customer-service/logging"
	"github.com/bhstoller/multi-agent-customer-service/model/gemini"
	"github.com/bhstoller/multi-agent-customer-service/store"
)

func main() {
	cfg := config.MustNew[config.CustomerDataAgent]("")

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.LogLevel),
		Component: "customer-data-agent",
	})

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.SeedDemo(context.Background()); err != nil {
		logger.Error("failed to seed store", "error", err)
		os.Exit(1)
	}

	m := gemini.NewModel(func(o *gemini.Options) {
		o.Model = cfg.Model
		o.APIKey = cfg.GoogleAPIKey
	})

	agent := customerdata.New(m, st, func(o *customerdata.Options) { o.Logger = logger })

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	card := a2a.AgentCard{
		Name:               "customer_data",
		Description:        "Manages customer data: lookups, updates, support tickets, and interaction history.",
		URL:                fmt.Sprintf("http://%s", addr),
		Version:            "1.0.0",
		PreferredTransport: a2a.TransportJSONRPC,
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"application/json"},
		Skills: []a2a.Skill{
			{
				ID:          "customer_data_access",
				Name:        "Customer Data Access",
				Description: "Look up customers, update contact details, open tickets, and list interaction history.",
				Tags:        []string{"customers", "tickets", "database"},
				Examples: []string{
					"Get customer 42",
					"Create a high priority ticket for customer 7 about a billing error",
				},
			},
		},
	}

	srv := a2a.NewServer(card, agent.HandleMessage, func(o *a2a.ServerOptions) { o.Logger = logger })

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("customer-data agent listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
