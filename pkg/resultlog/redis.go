// Package resultlog publishes batch outcomes to Redis so an external
// orchestrator can poll for the last state or subscribe to events.
package resultlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/queuebridge/sqlbridge/pkg/handler"
)

// BatchResult is the payload published after a batch finishes.
//
// Redis keys:
//
//	SET  sqlbridge:batch:<name>:state  <JSON>  EX <ttl>  — for GET polling
//	PUB  sqlbridge:batch:<name>                          — for pub/sub routing
type BatchResult struct {
	BatchName  string    `json:"batch_name"`
	Table      string    `json:"table,omitempty"`
	Status     string    `json:"status"` // "success" | "partial" | "failed"
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`
	Rows       int       `json:"rows"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Error      *string   `json:"error,omitempty"`
}

// Config configures the Redis publisher.
type Config struct {
	Address  string
	Password string
	DB       int

	// TTL of the state key in seconds. Zero keeps the key forever.
	TTL int
}

// Publisher publishes batch results to Redis. The connection is
// established lazily on first publish.
type Publisher struct {
	client *redis.Client
	config Config
}

// NewPublisher creates a publisher from configuration.
func NewPublisher(config Config) *Publisher {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return &Publisher{client: client, config: config}
}

// Publish records the outcome of one batch:
//   - SET sqlbridge:batch:<name>:state <JSON> EX <ttl>  → for polling
//   - PUBLISH sqlbridge:batch:<name> <JSON>             → for pub/sub
//
// Called regardless of outcome. execErr is the batch-level error; nil
// with a clean report means success, a report with per-row failures
// publishes as "partial".
func (p *Publisher) Publish(ctx context.Context, batchName, tableName string, report *handler.BatchReport, duration time.Duration, execErr error) error {
	payload, err := json.Marshal(buildResult(batchName, tableName, report, duration, execErr))
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	ttl := time.Duration(p.config.TTL) * time.Second

	// SET key with TTL — the orchestrator can GET the last state
	if err := p.client.Set(ctx, StateKey(batchName), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}

	// PUBLISH event — the orchestrator can SUBSCRIBE for routing
	if err := p.client.Publish(ctx, EventChannel(batchName), payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}

	return nil
}

func buildResult(batchName, tableName string, report *handler.BatchReport, duration time.Duration, execErr error) BatchResult {
	result := BatchResult{
		BatchName:  batchName,
		Table:      tableName,
		FinishedAt: time.Now().UTC(),
		DurationMs: duration.Milliseconds(),
	}

	if report != nil {
		result.Rows = report.Total
		result.Succeeded = report.Succeeded
		result.Failed = report.Failed()
	}

	switch {
	case execErr != nil:
		result.Status = "failed"
		errStr := execErr.Error()
		result.Error = &errStr
	case result.Failed > 0:
		result.Status = "partial"
	default:
		result.Status = "success"
	}
	return result
}

// StateKey returns the Redis key holding the last state of a batch.
func StateKey(batchName string) string {
	return fmt.Sprintf("sqlbridge:batch:%s:state", batchName)
}

// EventChannel returns the pub/sub channel of a batch.
func EventChannel(batchName string) string {
	return fmt.Sprintf("sqlbridge:batch:%s", batchName)
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
