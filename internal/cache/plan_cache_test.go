package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"alcyxob/marathon-trainer/internal/domain"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	fail error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func testPlan(id string) *domain.TrainingPlan {
	return &domain.TrainingPlan{
		ID:         id,
		RunnerID:   "runner-1",
		Version:    3,
		TotalWeeks: 1,
		Weeks: []domain.TrainingWeek{{
			WeekNumber: 1,
			Phase:      domain.PhaseBase,
			Workouts:   []domain.Workout{{ID: "w1", Type: domain.WorkoutEasy, TotalDistanceKm: 6}},
		}},
	}
}

func TestGetOrLoadCachesAfterFirstLoad(t *testing.T) {
	c := &PlanCache{store: newMemStore(), ttl: time.Minute}
	var loads int32
	load := func(context.Context) (*domain.TrainingPlan, error) {
		atomic.AddInt32(&loads, 1)
		return testPlan("p1"), nil
	}

	for i := 0; i < 3; i++ {
		plan, err := c.GetOrLoad(context.Background(), "p1", load)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if plan.ID != "p1" || plan.Version != 3 || plan.Weeks[0].Workouts[0].ID != "w1" {
			t.Fatalf("unexpected plan: %+v", plan)
		}
	}
	if loads != 1 {
		t.Fatalf("loader called %d times, want 1", loads)
	}

	c.Invalidate(context.Background(), "p1")
	if _, err := c.GetOrLoad(context.Background(), "p1", load); err != nil {
		t.Fatalf("GetOrLoad after invalidate: %v", err)
	}
	if loads != 2 {
		t.Fatalf("loader called %d times after invalidation, want 2", loads)
	}
}

func TestGetOrLoadReturnsIndependentCopies(t *testing.T) {
	c := &PlanCache{store: newMemStore(), ttl: time.Minute}
	load := func(context.Context) (*domain.TrainingPlan, error) { return testPlan("p1"), nil }

	a, err := c.GetOrLoad(context.Background(), "p1", load)
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	a.Weeks[0].Workouts[0].Completed = true

	b, err := c.GetOrLoad(context.Background(), "p1", load)
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	if b.Weeks[0].Workouts[0].Completed {
		t.Fatalf("callers share the cached aggregate")
	}
}

func TestGetOrLoadCoalescesConcurrentMisses(t *testing.T) {
	c := NewNoopPlanCache()
	var loads int32
	release := make(chan struct{})
	load := func(context.Context) (*domain.TrainingPlan, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return testPlan("p1"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetOrLoad(context.Background(), "p1", load); err != nil {
				t.Errorf("GetOrLoad: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Fatalf("loader called %d times, want 1", n)
	}
}

func TestGetOrLoadFallsBackOnStoreError(t *testing.T) {
	s := newMemStore()
	s.fail = errors.New("connection refused")
	c := &PlanCache{store: s, ttl: time.Minute}

	plan, err := c.GetOrLoad(context.Background(), "p1", func(context.Context) (*domain.TrainingPlan, error) {
		return testPlan("p1"), nil
	})
	if err != nil || plan.ID != "p1" {
		t.Fatalf("GetOrLoad = %v, %v; want plan from loader", plan, err)
	}
}

func TestGetOrLoadPropagatesLoaderError(t *testing.T) {
	c := &PlanCache{store: newMemStore(), ttl: time.Minute}
	wantErr := errors.New("not found")

	_, err := c.GetOrLoad(context.Background(), "p1", func(context.Context) (*domain.TrainingPlan, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
