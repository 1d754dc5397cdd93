// Command support-agent serves the general support specialist over the
// agent-to-agent protocol. It answers policy and troubleshooting questions
// and holds no state of its own.
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
	"github.com/bhstoller/multi-agent-customer-service/agents/support"
	"github.com/bhstoller/multi-agent-customer-service/config"
	"github.com/bhstoller/multi-agent-customer-service/logging"
	"github.com/bhstoller/multi-agent-customer-service/model/gemini"
)

func main() {
	cfg := config.MustNew[config.SupportAgent]("")

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.LogLevel),
		Component: "support-agent",
	})

	m := gemini.NewModel(func(o *gemini.Options) {
		o.Model = cfg.Model
		o.APIKey = cfg.GoogleAPIKey
	})

	agent := support.New(m, func(o *support.Options) { o.Logger = logger })

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	card := a2a.AgentCard{
		Name:               "support_agent",
		Description:        "Handles general support questions: policies, troubleshooting, and product guidance.",
		URL:                fmt.Sprintf("http://%s", addr),
		Version:            "1.0.0",
		PreferredTransport: a2a.TransportJSONRPC,
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain"},
		Skills: []a2a.Skill{
			{
				ID:          "customer_support",
				Name:        "Customer Support",
				Description: "Answer policy questions, troubleshoot common issues, and guide customers.",
				Tags:        []string{"support", "faq", "troubleshooting"},
				Examples: []string{
					"What is the refund policy?",
					"My device will not turn on, what should I try?",
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
		logger.Info("support agent listening", "addr", addr)
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
