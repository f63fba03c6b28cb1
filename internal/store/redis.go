package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by RedisReports.
const DefaultRedisPrefix = "brandcraft:"

// RedisReports stores each report in a hash that expires after TTL and keeps
// a sorted-set index scored by creation time.
type RedisReports struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

var _ ReportStore = (*RedisReports)(nil)

// NewRedisReports creates a report store on client. A zero ttl keeps reports
// until pruned.
func NewRedisReports(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisReports {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisReports{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

func (s *RedisReports) indexKey() string { return s.prefix + "reports" }

func (s *RedisReports) reportKey(id string) string { return s.prefix + "report:" + id }

// Save stores report under a new id.
func (s *RedisReports) Save(ctx context.Context, report *pipeline.FinalReport, opts ...SaveOption) (string, error) {
	data, err := EncodeReport(report)
	if err != nil {
		return "", err
	}
	o := applySaveOptions(opts)
	id := uuid.NewString()
	now := s.now().UTC()
	key := s.reportKey(id)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"title", report.Title,
			"run_id", o.runID,
			"created_at", now.Format(timeLayout),
			"report", string(data),
		)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(now.UnixNano()), Member: id})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return id, nil
}

// Get loads the report stored under id.
func (s *RedisReports) Get(ctx context.Context, id string) (*pipeline.FinalReport, error) {
	data, err := s.client.HGet(ctx, s.reportKey(id), "report").Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return DecodeReport([]byte(data))
}

// List returns report summaries, newest first. Index entries whose report has
// expired are dropped from the index.
func (s *RedisReports) List(ctx context.Context, limit int) ([]ReportSummary, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	var (
		out   []ReportSummary
		stale []any
	)
	for _, id := range ids {
		if limit > 0 && len(out) >= limit {
			break
		}
		vals, err := s.client.HMGet(ctx, s.reportKey(id), "title", "run_id", "created_at").Result()
		if err != nil {
			return nil, fmt.Errorf("read report %s: %w", id, err)
		}
		title, ok := vals[0].(string)
		if !ok {
			stale = append(stale, id)
			continue
		}
		runID, _ := vals[1].(string)
		createdAt, _ := vals[2].(string)
		out = append(out, ReportSummary{ID: id, Title: title, RunID: runID, CreatedAt: parseTime(createdAt)})
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("drop expired reports: %w", err)
		}
	}
	return out, nil
}

// Prune removes reports outside the retention policy.
func (s *RedisReports) Prune(ctx context.Context, policy RetentionPolicy, dryRun bool) (PruneResult, error) {
	if !policy.enabled() {
		return PruneResult{}, nil
	}
	all, err := s.List(ctx, 0)
	if err != nil {
		return PruneResult{}, err
	}

	res := PruneResult{Considered: len(all)}
	cutoff := policy.cutoff(s.now().UTC())
	var keys []string
	var members []any
	for i, r := range all {
		if keepDecision(policy, i, r.CreatedAt, cutoff) {
			res.Kept++
			continue
		}
		keys = append(keys, s.reportKey(r.ID))
		members = append(members, r.ID)
	}
	res.Deleted = len(members)
	if dryRun || len(members) == 0 {
		return res, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, s.indexKey(), members...)
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("prune reports: %w", err)
	}
	return res, nil
}
