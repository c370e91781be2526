// Package quota implements the email-quota counter: a single cross-request
// counter persisted to Redis, updated read-modify-write with
// last-writer-wins, with opportunistic daily/monthly reset performed by
// whichever reader first observes now past the stored reset time.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "quota:email:"

// resetScript atomically reads the counter, resets it if now has passed
// the stored reset_at, increments by cost, and writes the result back —
// avoiding a read/modify/write race across concurrent requests for the
// same counter key.
// KEYS[1] = counter key
// ARGV[1] = cost (emails to add this call)
// ARGV[2] = current unix timestamp (seconds)
// ARGV[3] = window seconds (86400 for daily, 2592000 for monthly)
// ARGV[4] = limit
var resetScript = redis.NewScript(`
local key = KEYS[1]
local cost = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local limit = tonumber(ARGV[4])

local state = redis.call("HMGET", key, "count", "reset_at")
local count = tonumber(state[1])
local reset_at = tonumber(state[2])

if not count or not reset_at or now > reset_at then
    count = 0
    reset_at = now + window
end

local allowed = 0
if count + cost <= limit then
    count = count + cost
    allowed = 1
end

redis.call("HMSET", key, "count", count, "reset_at", reset_at)
redis.call("EXPIRE", key, window * 2)

return {allowed, count, reset_at}
`)

// Window selects which counter (and its reset period) a check applies to.
type Window string

const (
	WindowDaily   Window = "daily"
	WindowMonthly Window = "monthly"
)

const (
	secondsPerDay   = 86400
	secondsPerMonth = 30 * secondsPerDay
)

func windowSeconds(w Window) int64 {
	if w == WindowMonthly {
		return secondsPerMonth
	}
	return secondsPerDay
}

// Counter is the Redis-backed email-quota counter for one account.
type Counter struct {
	client *redis.Client
}

func NewCounter(addr, password string, db int) *Counter {
	return &Counter{client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})}
}

// Result reports a single Check's outcome.
type Result struct {
	Allowed bool
	Count   int64
	ResetAt time.Time
}

// Check attempts to add cost emails to accountID's window counter,
// resetting the window first if it has lapsed. Returns Allowed=false
// without error when the account is over limit — callers distinguish
// quota exhaustion from infrastructure failure via the error return.
func (c *Counter) Check(ctx context.Context, accountID string, window Window, cost int, limit int64) (Result, error) {
	key := fmt.Sprintf("%s%s:%s", keyPrefix, window, accountID)
	now := time.Now().Unix()

	res, err := resetScript.Run(ctx, c.client, []string{key}, cost, now, windowSeconds(window), limit).Result()
	if err != nil {
		return Result{}, fmt.Errorf("quota: redis error: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 3 {
		return Result{}, fmt.Errorf("quota: unexpected script response")
	}

	allowed, _ := values[0].(int64)
	count, _ := values[1].(int64)
	resetAt, _ := values[2].(int64)

	return Result{
		Allowed: allowed == 1,
		Count:   count,
		ResetAt: time.Unix(resetAt, 0).UTC(),
	}, nil
}
