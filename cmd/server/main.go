package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-lending-server/internal/config"
	"github.com/jrsteele09/go-lending-server/server"
	"github.com/jrsteele09/go-lending-server/store/memory"
	"github.com/jrsteele09/go-lending-server/store/postgres"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	stores, err := openStores(c)
	if err != nil {
		return fmt.Errorf("openStores: %w", err)
	}

	handler, err := server.New(c, stores)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// openStores picks the persistence layer: Postgres when DATABASE_URL is
// set, otherwise the in-memory stores.
func openStores(c config.Config) (server.Stores, error) {
	databaseURL := c.GetDatabaseURL()
	if databaseURL == "" {
		log.Printf("No DATABASE_URL configured, using in-memory stores\n")
		return server.Stores{
			Users: memory.NewUserRepo(),
			Books: memory.NewBookRepo(),
			Loans: memory.NewLoanRepo(),
		}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		return server.Stores{}, fmt.Errorf("postgres.Connect: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		return server.Stores{}, fmt.Errorf("postgres.Migrate: %w", err)
	}

	return server.Stores{
		Users: postgres.NewUserRepo(pool),
		Books: postgres.NewBookRepo(pool),
		Loans: postgres.NewLoanRepo(pool),
	}, nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
