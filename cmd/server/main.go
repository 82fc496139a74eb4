// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/codeduel-gg/server/internal/engine"
	"github.com/codeduel-gg/server/internal/history"
	"github.com/codeduel-gg/server/internal/judge"
	"github.com/codeduel-gg/server/internal/middleware"
	"github.com/codeduel-gg/server/internal/problems"
	"github.com/codeduel-gg/server/internal/ws"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	repo := problemRepository(ctx, logger)
	judgeSvc := judge.NewService(logger, judge.NewClientFromEnv(logger))
	registry := ws.NewRegistry(logger)

	eng := engine.New(logger, registry, judgeSvc, repo)
	wireHistory(ctx, logger, eng)

	go eng.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "CodeDuel API"})
	})
	mux.Handle("/ws", middleware.LogMiddleware(logger)(ws.Handler(logger, eng, registry)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	server := &http.Server{Addr: addr, Handler: mux}
	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		logger.Fatalf("server exited: %v", err)
	case <-ctx.Done():
		logger.Info("terminating")
		server.Close()
	}
}

// problemRepository prefers the Postgres-backed problem set when
// DATABASE_URL is configured and reachable, otherwise serves the built-in
// problems.
func problemRepository(ctx context.Context, logger *logrus.Logger) problems.Repository {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return problems.NewStaticRepository()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Warnf("problem database unavailable, using built-in problems: %v", err)
		return problems.NewStaticRepository()
	}
	repo, err := problems.NewPostgresRepository(ctx, pool)
	if err != nil {
		logger.Warnf("problem database unusable, using built-in problems: %v", err)
		pool.Close()
		return problems.NewStaticRepository()
	}
	logger.Info("serving problems from database")
	return repo
}

// wireHistory attaches the optional Redis match-history publisher.
func wireHistory(ctx context.Context, logger *logrus.Logger, eng *engine.Engine) {
	if os.Getenv("REDIS_ADDR") == "" {
		return
	}
	recorder, err := history.NewRecorderFromEnv(ctx, logger)
	if err != nil {
		logger.Warnf("match history disabled: %v", err)
		return
	}
	logger.Info("match history recorder enabled")
	eng.OnMatchFinished = func(res engine.MatchResult) {
		rec := history.MatchRecord{
			LobbyID:         res.LobbyID,
			LobbyName:       res.LobbyName,
			WinnerID:        res.WinnerID,
			WinnerName:      res.WinnerName,
			DurationSeconds: res.Duration.Seconds(),
			FinishedAt:      res.FinishedAt.Unix(),
		}
		for _, s := range res.Scores {
			rec.Scores = append(rec.Scores, history.MatchScore{
				ParticipantID: s.ParticipantID,
				Name:          s.Name,
				TestsPassed:   s.TestsPassed,
				TotalTests:    s.TotalTests,
				Completed:     s.Completed,
			})
		}
		recorder.Publish(ctx, rec)
	}
}
