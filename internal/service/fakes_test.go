package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/marathon-trainer/internal/cache"
	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/repository"
	"alcyxob/marathon-trainer/internal/storage"
)

// memPlanRepo keeps private copies of the stored aggregates.
type memPlanRepo struct {
	mu            sync.Mutex
	plans         map[string]domain.TrainingPlan
	conflictsLeft int
	replaceCalls  int
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: map[string]domain.TrainingPlan{}}
}

func clonePlan(p domain.TrainingPlan) domain.TrainingPlan {
	out := p
	out.Weeks = make([]domain.TrainingWeek, len(p.Weeks))
	for i, w := range p.Weeks {
		w.Workouts = append([]domain.Workout(nil), w.Workouts...)
		out.Weeks[i] = w
	}
	return out
}

func (r *memPlanRepo) Create(_ context.Context, plan *domain.TrainingPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; ok {
		return repository.ErrDuplicate
	}
	if plan.Version == 0 {
		plan.Version = 1
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	r.plans[plan.ID] = clonePlan(*plan)
	return nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id string) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := clonePlan(p)
	return &c, nil
}

func (r *memPlanRepo) GetActiveByRunnerID(_ context.Context, runnerID string) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *domain.TrainingPlan
	for _, p := range r.plans {
		if p.RunnerID != runnerID || !p.IsActive {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) {
			c := clonePlan(p)
			best = &c
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

func (r *memPlanRepo) ListByRunnerID(_ context.Context, runnerID string) ([]domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.TrainingPlan{}
	for _, p := range r.plans {
		if p.RunnerID == runnerID {
			p.Weeks = nil
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPlanRepo) Replace(_ context.Context, plan *domain.TrainingPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	stored, ok := r.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return repository.ErrConflict
	}
	if stored.Version != plan.Version {
		return repository.ErrConflict
	}
	plan.Version++
	r.plans[plan.ID] = clonePlan(*plan)
	return nil
}

func (r *memPlanRepo) DeactivateOtherPlansForRunner(_ context.Context, runnerID, keepID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, p := range r.plans {
		if p.RunnerID == runnerID && id != keepID && p.IsActive {
			p.IsActive = false
			p.Version++
			r.plans[id] = p
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memPlanRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *memUserRepo) add(u domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = &u
	return u
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	c := *user
	c.ID = primitive.NewObjectID()
	r.users[c.ID] = &c
	return c.ID, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) AddRunnerToCoach(_ context.Context, coachID, runnerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	coach, ok := r.users[coachID]
	if !ok {
		return repository.ErrNotFound
	}
	coach.RunnerIDs = append(coach.RunnerIDs, runnerID)
	return nil
}

func (r *memUserRepo) GetRunnersByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if u.CoachID != nil && *u.CoachID == coachID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) SetCoachForRunner(_ context.Context, runnerID, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[runnerID]
	if !ok {
		return repository.ErrNotFound
	}
	id := coachID
	u.CoachID = &id
	return nil
}

func (r *memUserRepo) UpdateRunnerDefaults(_ context.Context, runnerID primitive.ObjectID, d domain.RunnerDefaults) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[runnerID]
	if !ok || u.Role != domain.RoleRunner {
		return repository.ErrNotFound
	}
	u.Defaults = &d
	return nil
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemStorage() *memStorage { return &memStorage{objects: map[string][]byte{}} }

func (s *memStorage) PutObject(_ context.Context, key, _ string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), body...)
	return nil
}

func (s *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://storage.test/" + key + "?expires=" + expires.String(), nil
}

func (s *memStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

var _ storage.FileStorage = (*memStorage)(nil)

// memCacheStore is an in-process cache.Store.
type memCacheStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCacheStore() *memCacheStore { return &memCacheStore{data: map[string][]byte{}} }

func (m *memCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *memCacheStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCacheStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
