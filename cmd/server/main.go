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

	"github.com/shopspring/decimal"

	httpadapter "github.com/fintrack/networth-backend/internal/adapter/http"
	"github.com/fintrack/networth-backend/internal/adapter/repository/postgres"
	"github.com/fintrack/networth-backend/internal/usecase/account"
	"github.com/fintrack/networth-backend/internal/usecase/grid"
	"github.com/fintrack/networth-backend/internal/usecase/valueentry"
)

const defaultHTTPAddr = ":8080"

func main() {
	// Money fields render as JSON numbers, matching the API contract
	decimal.MarshalJSONWithoutQuotes = true

	// 1. Setup Database
	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost" // Default for local run without docker
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "networth"
		}

		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to apply database schema: %v", err)
	}

	// 2. Initialize Repositories (Postgres)
	accountRepo := postgres.NewAccountRepository(db)
	entryRepo := postgres.NewValueEntryRepository(db)

	// 3. Initialize Services (Use Cases)
	gridService := grid.NewGridService(accountRepo, entryRepo)
	entryService := valueentry.NewValueEntryService(accountRepo, entryRepo)
	accountService := account.NewAccountService(accountRepo, entryRepo)

	// 4. Start HTTP Server
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = defaultHTTPAddr
	}

	server := httpadapter.New()
	handlers := httpadapter.NewHandlers(gridService, entryService, accountService)
	httpadapter.RegisterRoutes(server.Echo(), handlers)
	httpadapter.RegisterHealth(server.Echo())

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.Echo().Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(server)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *httpadapter.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Echo().Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("HTTP server stopped")
}
