package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/data/redisStore"
	"github.com/akolanti/ContractRAG/internal/data/store"
	"github.com/akolanti/ContractRAG/internal/domain/commonModels"
	"github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisStore.NewTestStore(client)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, internalStore := newRedis(t)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		JobType: jobModel.JobTypeAsk,
		Status:  jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			DocumentId: "doc-1",
			Question:   "What is the notice period?",
			TopK:       5,
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.Question != testJob.JobPayload.Question {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.Question, testJob.JobPayload.Question)
		}
		if retrievedJob.JobType != jobModel.JobTypeAsk {
			t.Errorf("JobType = %s, want Ask", retrievedJob.JobType)
		}
	})

	t.Run("TTL is applied", func(t *testing.T) {
		if ttl := mr.TTL(jobID); ttl != config.RedisJobStoreTTL {
			t.Errorf("TTL = %v, want %v", ttl, config.RedisJobStoreTTL)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Concurrent(t *testing.T) {
	_, internalStore := newRedis(t)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	if _, found := jobStore.GetJob(ctx, "race-job"); !found {
		t.Fatal("expected job after concurrent saves")
	}
}

func TestInMemoryJobStore(t *testing.T) {
	s := store.InitInMemoryJobStore()
	ctx := context.Background()
	_ = s.SaveJob(ctx, jobModel.Job{Id: "a", Status: jobModel.JobStatusQueued})

	got, found := s.GetJob(ctx, "a")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Fatalf("GetJob = %+v, %v", got, found)
	}
	s.DeleteJob(ctx, "a")
	if _, found := s.GetJob(ctx, "a"); found {
		t.Fatal("job should be gone")
	}
}

func entry(q string, at time.Time) commonModels.HistoryEntry {
	return commonModels.HistoryEntry{Question: q, Answer: "a-" + q, Strategy: commonModels.StrategyLexical, AskedAt: at}
}

func checkHistory(t *testing.T, h commonModels.HistoryStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, q := range []string{"q1", "q2", "q3", "q4", "q5", "q6"} {
		if err := h.Append(ctx, "doc-1", entry(q, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := h.Recent(ctx, "doc-1", config.HistoryWindow)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	if got[0].Question != "q6" || got[4].Question != "q2" {
		t.Errorf("order = %s..%s, want q6..q2", got[0].Question, got[4].Question)
	}

	other, _ := h.Recent(ctx, "doc-2", 5)
	if len(other) != 0 {
		t.Errorf("history leaked across documents: %v", other)
	}

	if err := h.Clear(ctx, "doc-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ = h.Recent(ctx, "doc-1", 5)
	if len(got) != 0 {
		t.Errorf("expected empty history after Clear, got %d", len(got))
	}
}

func TestRedisHistoryStore(t *testing.T) {
	mr, internalStore := newRedis(t)
	h := store.NewRedisHistoryStore(internalStore)
	checkHistory(t, h)

	_ = h.Append(context.Background(), "doc-ttl", entry("q", time.Now()))
	if ttl := mr.TTL("history:doc-ttl"); ttl != config.RedisHistoryStoreTTL {
		t.Errorf("TTL = %v, want %v", ttl, config.RedisHistoryStoreTTL)
	}
}

func TestRedisHistoryStore_KeepsOnlyRecentWindow(t *testing.T) {
	mr, internalStore := newRedis(t)
	h := store.NewRedisHistoryStore(internalStore)
	ctx := context.Background()

	base := time.Now()
	total := config.HistoryWindow * 3
	for i := 0; i < total; i++ {
		if err := h.Append(ctx, "doc-busy", entry(fmt.Sprintf("q%d", i), base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	stored, err := mr.List("history:doc-busy")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stored) != config.HistoryWindow {
		t.Errorf("stored %d entries; want %d", len(stored), config.HistoryWindow)
	}

	got, _ := h.Recent(ctx, "doc-busy", total)
	if len(got) != config.HistoryWindow {
		t.Fatalf("Recent returned %d; want %d", len(got), config.HistoryWindow)
	}
	if want := fmt.Sprintf("q%d", total-1); got[0].Question != want {
		t.Errorf("newest = %s; want %s", got[0].Question, want)
	}
}

func TestInMemoryHistoryStore(t *testing.T) {
	checkHistory(t, store.InitInMemoryHistoryStore())
}
