// Package scheduler provides a Redis-backed delayed task queue. Tasks are
// members of a sorted set scored by their due time. Claiming a due task bumps
// its score by a lease TTL instead of removing it, so tasks claimed by a
// worker that dies resurface once the lease runs out. Delivery is therefore
// at-least-once and handlers must be idempotent.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tasksKey = "scheduler:tasks"

// Atomically extends the lease of every due task and returns them. Claimed
// tasks stay in the set until the worker acknowledges them with ZREM.
var claimDueTasks = redis.NewScript(`
	local due = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", 0, ARGV[2])

	for _, member in ipairs(due) do
		redis.call("ZADD", KEYS[1], "XX", ARGV[3], member)
	end

	return due
`)

type Task struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Data     json.RawMessage `json:"data"`
	Attempts int             `json:"attempts"`
}

type Handler func(ctx context.Context, data json.RawMessage) error

type RedisScheduler struct {
	redis    redis.UniversalClient
	logger   *slog.Logger
	handlers map[string]Handler

	pollInterval time.Duration
	leaseTTL     time.Duration
	retryDelay   time.Duration
	maxAttempts  int
	batchSize    int
}

func NewRedisScheduler(client redis.UniversalClient, logger *slog.Logger) *RedisScheduler {
	return &RedisScheduler{
		redis:        client,
		logger:       logger,
		handlers:     make(map[string]Handler),
		pollInterval: time.Second,
		leaseTTL:     time.Minute,
		retryDelay:   30 * time.Second,
		maxAttempts:  5,
		batchSize:    10,
	}
}

// Register binds a handler to a task name. Not safe for concurrent use with
// Run; register all handlers before starting the worker.
func (s *RedisScheduler) Register(name string, handler Handler) {
	s.handlers[name] = handler
}

func (s *RedisScheduler) Schedule(ctx context.Context, name string, data any, delay time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal task data: %w", err)
	}

	task := Task{
		ID:   uuid.New().String(),
		Name: name,
		Data: payload,
	}

	member, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	z := redis.Z{
		Score:  float64(time.Now().Add(delay).UnixMilli()),
		Member: member,
	}

	return s.redis.ZAdd(ctx, tasksKey, z).Err()
}

// Flush drops every scheduled task.
func (s *RedisScheduler) Flush(ctx context.Context) error {
	return s.redis.Del(ctx, tasksKey).Err()
}

// Run polls for due tasks until the context is cancelled.
func (s *RedisScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.processDue(ctx)
			if err != nil && ctx.Err() == nil {
				s.logger.Error("failed to poll due tasks", "error", err)
			}
		}
	}
}

func (s *RedisScheduler) processDue(ctx context.Context) error {
	now := time.Now()
	lease := now.Add(s.leaseTTL)

	cmd := claimDueTasks.Run(ctx, s.redis, []string{tasksKey}, now.UnixMilli(), s.batchSize, lease.UnixMilli())

	members, err := cmd.StringSlice()
	if err != nil {
		return fmt.Errorf("failed to run claimDueTasks script: %w", err)
	}

	for _, member := range members {
		s.dispatch(ctx, member)
	}

	return nil
}

func (s *RedisScheduler) dispatch(ctx context.Context, member string) {
	var task Task

	err := json.Unmarshal([]byte(member), &task)
	if err != nil {
		s.logger.Error("dropping malformed task", "error", err)
		s.redis.ZRem(ctx, tasksKey, member)
		return
	}

	handler, ok := s.handlers[task.Name]
	if !ok {
		s.logger.Error("dropping task with no registered handler", "task", task.Name, "task_id", task.ID)
		s.redis.ZRem(ctx, tasksKey, member)
		return
	}

	err = handler(ctx, task.Data)
	if err == nil {
		s.redis.ZRem(ctx, tasksKey, member)
		return
	}

	s.logger.Error("task handler failed",
		"task", task.Name,
		"task_id", task.ID,
		"attempt", task.Attempts+1,
		"error", err,
	)

	err = s.retry(ctx, member, task)
	if err != nil {
		s.logger.Error("failed to reschedule task", "task", task.Name, "task_id", task.ID, "error", err)
	}
}

func (s *RedisScheduler) retry(ctx context.Context, member string, task Task) error {
	task.Attempts++

	if task.Attempts >= s.maxAttempts {
		s.logger.Error("task exhausted its retries, dropping", "task", task.Name, "task_id", task.ID)
		return s.redis.ZRem(ctx, tasksKey, member).Err()
	}

	next, err := json.Marshal(task)
	if err != nil {
		return err
	}

	z := redis.Z{
		Score:  float64(time.Now().Add(s.NextRetryDelay(task.Attempts)).UnixMilli()),
		Member: next,
	}

	pipe := s.redis.TxPipeline()
	pipe.ZRem(ctx, tasksKey, member)
	pipe.ZAdd(ctx, tasksKey, z)

	_, err = pipe.Exec(ctx)

	return err
}

// NextRetryDelay backs off linearly with the attempt count.
func (s *RedisScheduler) NextRetryDelay(attempts int) time.Duration {
	return s.retryDelay * time.Duration(attempts)
}
