// internal/history/history.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list finished-match records are pushed onto.
var DefaultQueueName = "codeduel_matches"

// MatchScore is one member's final line in a MatchRecord.
type MatchScore struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	TestsPassed   int    `json:"tests_passed"`
	TotalTests    int    `json:"total_tests"`
	Completed     bool   `json:"completed"`
}

// MatchRecord is the JSON document describing one finished match.
type MatchRecord struct {
	LobbyID         string       `json:"lobby_id"`
	LobbyName       string       `json:"lobby_name"`
	WinnerID        string       `json:"winner_id"`
	WinnerName      string       `json:"winner_name"`
	DurationSeconds float64      `json:"duration_seconds"`
	FinishedAt      int64        `json:"finished_at"`
	Scores          []MatchScore `json:"scores"`
}

// Recorder pushes finished-match records onto a Redis queue for downstream
// consumers. It is entirely optional; matches are never blocked or failed
// over a publish error.
type Recorder struct {
	log   *logrus.Logger
	rdb   *redis.Client
	queue string
}

// NewRecorderFromEnv connects a Recorder using REDIS_ADDR, REDIS_DB and
// HISTORY_QUEUE_NAME. Returns an error when Redis is unreachable; callers
// run without history in that case.
func NewRecorderFromEnv(ctx context.Context, log *logrus.Logger) (*Recorder, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, fmt.Errorf("history: REDIS_ADDR not set")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		fmt.Sscanf(v, "%d", &db)
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("history: connect redis at %s: %w", addr, err)
	}

	queue := os.Getenv("HISTORY_QUEUE_NAME")
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Recorder{log: log, rdb: rdb, queue: queue}, nil
}

// Publish serializes the record and pushes it onto the queue. Failures are
// logged and swallowed.
func (r *Recorder) Publish(ctx context.Context, rec MatchRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		r.log.Warnf("history: marshal match record for %s: %v", rec.LobbyID, err)
		return
	}
	if err := r.rdb.RPush(ctx, r.queue, data).Err(); err != nil {
		r.log.Warnf("history: publish match record for %s: %v", rec.LobbyID, err)
	}
}

// Close releases the Redis connection.
func (r *Recorder) Close() error {
	return r.rdb.Close()
}
