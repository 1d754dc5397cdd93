// Command router answers customer-service queries by coordinating the
// specialist agents. Pass a query with -query for one-shot mode, or run
// without flags for an interactive prompt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bhstoller/multi-agent-customer-service/a2a"
	"github.com/bhstoller/multi-agent-customer-service/config"
	"github.com/bhstoller/multi-agent-customer-service/logging"
	"github.com/bhstoller/multi-agent-customer-service/model/gemini"
	"github.com/bhstoller/multi-agent-customer-service/router"
)

func main() {
	query := flag.String("query", "", "one-shot query to process")
	flag.Parse()

	cfg := config.MustNew[config.Router]("")

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.LogLevel),
		Component: "router",
	})

	m := gemini.NewModel(func(o *gemini.Options) {
		o.Model = cfg.Model
		o.APIKey = cfg.GoogleAPIKey
	})

	client := a2a.NewClient(func(o *a2a.ClientOptions) {
		o.Timeout = cfg.CallTimeout
		o.Logger = logger
	})

	registry := router.NewRegistry(
		router.Endpoint{Name: router.AgentCustomerData, URL: cfg.CustomerDataURL},
		router.Endpoint{Name: router.AgentSupport, URL: cfg.SupportURL},
	)

	orch := router.NewOrchestrator(
		router.NewPlanner(m, func(o *router.PlannerOptions) { o.Logger = logger }),
		client,
		registry,
		func(o *router.OrchestratorOptions) { o.Logger = logger },
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *query != "" {
		answer, err := orch.ProcessQuery(ctx, *query)
		if err != nil {
			logger.Error("query processing failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(answer)
		return
	}

	fmt.Println("Customer service router. Type a query, or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		answer, err := orch.ProcessQuery(ctx, line)
		if err != nil {
			logger.Error("query processing failed", "error", err)
			continue
		}
		fmt.Println(answer)
	}
}
