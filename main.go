package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaot623/docchat/config"
	"github.com/xiaot623/docchat/internal/adapter/llm"
	"github.com/xiaot623/docchat/internal/service"
	"github.com/xiaot623/docchat/internal/store"
	transport "github.com/xiaot623/docchat/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting document assistant...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Completion endpoint: %s (deployment %s)", cfg.EndpointURL, cfg.DeploymentName)
	log.Printf("Search index: %s", cfg.IndexName)

	// Initialize store; a failed connection degrades to disabled mode
	// instead of blocking startup.
	history := store.Connect(context.Background(), cfg)
	defer history.Close()

	// Initialize completion client
	llmClient := llm.NewCompletionClient(cfg.EndpointURL, cfg.DeploymentName, cfg.APIVersion, cfg.AzureOpenAIAPIKey, cfg.LLMTimeout)

	// Initialize service
	svc := service.New(history, llmClient, cfg)

	// Create server
	e := transport.NewServer(svc, cfg.AllowedOrigins)

	if cfg.WarmUpOnStart {
		go func() {
			if svc.WarmUp(context.Background()) {
				log.Printf("INFO: warm-up on start completed")
			}
		}()
	}

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Server stopped")
}
