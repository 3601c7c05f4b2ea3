package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by Claim when no task is pending in any band.
var ErrEmpty = errors.New("queue: no pending tasks")

// DefaultLease is how long a claimed task stays invisible to other workers.
const DefaultLease = 2 * time.Minute

const keyPrefix = "jobradar"

// Queue is a durable at-least-once work queue over Redis. Pending tasks live
// in one list per (kind, band); claimed tasks move to a lease hash scored by
// expiry, and a reaper returns expired leases to their band.
type Queue struct {
	rdb   *redis.Client
	lease time.Duration
}

// New constructs a Queue. leaseDuration <= 0 uses DefaultLease.
func New(rdb *redis.Client, leaseDuration time.Duration) *Queue {
	if leaseDuration <= 0 {
		leaseDuration = DefaultLease
	}
	return &Queue{rdb: rdb, lease: leaseDuration}
}

// Claim is a leased task. The token releases or fails exactly this claim.
type Claim struct {
	Token string
	Task  Task
}

func bandKey(kind Kind, band Band) string {
	return fmt.Sprintf("%s:queue:%s:%d", keyPrefix, kind, band)
}

func pendingKey() string { return keyPrefix + ":pending" }

func leaseDataKey() string { return keyPrefix + ":lease:data" }

func leaseExpKey() string { return keyPrefix + ":lease:exp" }

// Enqueue adds a task to its band. Idempotent: re-enqueuing a task whose
// dedup key is already pending (or currently leased) is a no-op. Returns
// true when the task was actually queued.
func (q *Queue) Enqueue(ctx context.Context, t Task) (bool, error) {
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now().UTC()
	}

	added, err := q.rdb.SAdd(ctx, pendingKey(), t.DedupKey()).Result()
	if err != nil {
		return false, fmt.Errorf("enqueue dedup check: %w", err)
	}
	if added == 0 {
		return false, nil // identical task already pending
	}

	payload, err := t.Marshal()
	if err != nil {
		return false, err
	}
	if err := q.rdb.RPush(ctx, bandKey(t.Kind, t.Band), payload).Err(); err != nil {
		// Roll back the dedup marker so the task can be enqueued again.
		_ = q.rdb.SRem(ctx, pendingKey(), t.DedupKey()).Err()
		return false, fmt.Errorf("enqueue push: %w", err)
	}
	return true, nil
}

// ClaimTask pops the next task of the given kind, serving bands in priority
// order, and opens a lease for it. Returns ErrEmpty when nothing is pending.
func (q *Queue) ClaimTask(ctx context.Context, kind Kind) (*Claim, error) {
	for _, band := range Bands() {
		payload, err := q.rdb.LPop(ctx, bandKey(kind, band)).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("claim pop: %w", err)
		}

		token := uuid.NewString()
		expiry := float64(time.Now().Add(q.lease).Unix())
		pipe := q.rdb.TxPipeline()
		pipe.HSet(ctx, leaseDataKey(), token, payload)
		pipe.ZAdd(ctx, leaseExpKey(), redis.Z{Score: expiry, Member: token})
		if _, err := pipe.Exec(ctx); err != nil {
			// Lease bookkeeping failed; put the task back at the head.
			_ = q.rdb.LPush(ctx, bandKey(kind, band), payload).Err()
			return nil, fmt.Errorf("claim lease: %w", err)
		}

		task, err := UnmarshalTask(payload)
		if err != nil {
			q.dropLease(ctx, token)
			return nil, err
		}
		return &Claim{Token: token, Task: task}, nil
	}
	return nil, ErrEmpty
}

// Ack acknowledges a completed claim: the lease is released and the dedup
// marker cleared so the task identity can be enqueued again later.
func (q *Queue) Ack(ctx context.Context, c *Claim) error {
	pipe := q.rdb.TxPipeline()
	pipe.HDel(ctx, leaseDataKey(), c.Token)
	pipe.ZRem(ctx, leaseExpKey(), c.Token)
	pipe.SRem(ctx, pendingKey(), c.Task.DedupKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ack: %w", err)
	}
	return nil
}

// Fail releases the claim and requeues the task one band lower, bumping its
// attempt counter. The dedup marker stays so duplicates cannot pile up. A
// permanently failing task settles in the lowest band — observable, never
// silently dropped.
func (q *Queue) Fail(ctx context.Context, c *Claim) error {
	q.dropLease(ctx, c.Token)

	t := c.Task
	t.Band = t.Band.Demote()
	t.Attempt++
	payload, err := t.Marshal()
	if err != nil {
		return err
	}
	if err := q.rdb.RPush(ctx, bandKey(t.Kind, t.Band), payload).Err(); err != nil {
		return fmt.Errorf("fail requeue: %w", err)
	}
	return nil
}

// ReapExpired returns every task whose lease has expired to the tail of its
// band, making it visible again (at-least-once delivery). Returns the number
// of tasks recovered.
func (q *Queue) ReapExpired(ctx context.Context) (int, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())
	tokens, err := q.rdb.ZRangeByScore(ctx, leaseExpKey(), &redis.ZRangeBy{Min: "-inf", Max: now}).Result()
	if err != nil {
		return 0, fmt.Errorf("reap scan: %w", err)
	}

	recovered := 0
	for _, token := range tokens {
		payload, err := q.rdb.HGet(ctx, leaseDataKey(), token).Result()
		if errors.Is(err, redis.Nil) {
			_ = q.rdb.ZRem(ctx, leaseExpKey(), token).Err()
			continue
		}
		if err != nil {
			return recovered, fmt.Errorf("reap read: %w", err)
		}

		task, err := UnmarshalTask(payload)
		if err != nil {
			q.dropLease(ctx, token)
			continue
		}

		pipe := q.rdb.TxPipeline()
		pipe.RPush(ctx, bandKey(task.Kind, task.Band), payload)
		pipe.HDel(ctx, leaseDataKey(), token)
		pipe.ZRem(ctx, leaseExpKey(), token)
		if _, err := pipe.Exec(ctx); err != nil {
			return recovered, fmt.Errorf("reap requeue: %w", err)
		}
		recovered++
	}
	return recovered, nil
}

// Depths reports the pending count per band for a kind, for operator
// visibility into stuck lowest-band work.
func (q *Queue) Depths(ctx context.Context, kind Kind) (map[Band]int64, error) {
	out := make(map[Band]int64, len(Bands()))
	for _, band := range Bands() {
		n, err := q.rdb.LLen(ctx, bandKey(kind, band)).Result()
		if err != nil {
			return nil, fmt.Errorf("depth %s band %d: %w", kind, band, err)
		}
		out[band] = n
	}
	return out, nil
}

func (q *Queue) dropLease(ctx context.Context, token string) {
	pipe := q.rdb.TxPipeline()
	pipe.HDel(ctx, leaseDataKey(), token)
	pipe.ZRem(ctx, leaseExpKey(), token)
	_, _ = pipe.Exec(ctx)
}
