// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/auth"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/config"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/handlers"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/history"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/match"
	"github.com/majakthesecond-sys/USA-TANK-V4-5/internal/middleware"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	auth.Init()

	var recorder match.Recorder
	if cfg.RedisAddr != "" {
		pub, err := history.NewPublisher(cfg.RedisAddr, cfg.HistoryQueue, logger)
		if err != nil {
			log.Fatalf("history publisher: %v", err)
		}
		defer pub.Close()
		recorder = pub
		logger.Infof("match history queued to redis at %s", cfg.RedisAddr)
	}

	m := match.NewMatchmaker(logger, cfg.MatchWindow, recorder)

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	mux.HandleFunc("/health", handlers.HealthHandler)
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.MatchWSHandler(logger, m),
	)))

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("Running on %s", cfg.Addr)
		errc <- server.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		log.Fatalf("server exited: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
}
