package cached

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"social-network-service/internal/adapter/cache"
	domain "social-network-service/internal/domain/user"
)

type MockStore struct {
	mock.Mock
	calls atomic.Int64
}

func (m *MockStore) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.calls.Add(1)
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockStore) ListNonStaff(ctx context.Context, excludeID int64) ([]domain.User, error) {
	args := m.Called(ctx, excludeID)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockStore) TopByPosts(ctx context.Context, n int, excludeStaff bool) ([]domain.Stats, error) {
	args := m.Called(ctx, n, excludeStaff)
	return args.Get(0).([]domain.Stats), args.Error(1)
}

func setup(t *testing.T) (*UserRepository, *MockStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zaptest.NewLogger(t)
	store := new(MockStore)
	repo := NewUserRepository(store, cache.NewRedisUserCache(client, time.Minute, log), log)
	return repo, store, mr
}

func TestGetByID_SecondCallHitsCache(t *testing.T) {
	repo, store, mr := setup(t)
	ctx := context.Background()

	store.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Username: "alice"}, nil).Once()

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.True(t, mr.Exists("user:1"))

	second, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", second.Username)

	store.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestGetByID_NotFoundNotCached(t *testing.T) {
	repo, store, mr := setup(t)
	ctx := context.Background()

	store.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrNotFound)

	_, err := repo.GetByID(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists("user:9"))
}

func TestGetByID_CacheDownFallsBack(t *testing.T) {
	repo, store, mr := setup(t)
	ctx := context.Background()
	mr.Close()

	store.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil)

	u, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}

func TestGetByID_ConcurrentMissesCollapse(t *testing.T) {
	repo, store, _ := setup(t)
	ctx := context.Background()

	release := make(chan struct{})
	store.On("GetByID", ctx, int64(5)).
		Run(func(mock.Arguments) { <-release }).
		Return(&domain.User{ID: 5, Username: "eve"}, nil)

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			u, err := repo.GetByID(ctx, 5)
			assert.NoError(t, err)
			assert.Equal(t, "eve", u.Username)
		}()
	}

	// Give the workers time to pile up behind the first store call
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, store.calls.Load(), int64(workers))
	assert.GreaterOrEqual(t, store.calls.Load(), int64(1))
}

func TestGetByIDs_MixesCacheAndStore(t *testing.T) {
	repo, store, _ := setup(t)
	ctx := context.Background()

	store.On("GetByID", ctx, int64(2)).Return(&domain.User{ID: 2, Username: "bob"}, nil).Once()
	_, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)

	store.On("GetByIDs", ctx, []int64{3, 1}).Return([]domain.User{{ID: 1, Username: "alice"}, {ID: 3, Username: "carol"}}, nil).Once()

	users, err := repo.GetByIDs(ctx, []int64{3, 2, 1})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{users[0].ID, users[1].ID, users[2].ID})

	// Now fully cached
	users, err = repo.GetByIDs(ctx, []int64{1, 3})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	store.AssertNumberOfCalls(t, "GetByIDs", 1)
}

func TestGetByIDs_StoreError(t *testing.T) {
	repo, store, _ := setup(t)
	ctx := context.Background()

	store.On("GetByIDs", ctx, []int64{1}).Return(nil, errors.New("db"))

	_, err := repo.GetByIDs(ctx, []int64{1})
	assert.Error(t, err)
}

func TestWithoutCache_Delegates(t *testing.T) {
	store := new(MockStore)
	repo := NewUserRepository(store, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	store.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil).Twice()
	store.On("GetByIDs", ctx, []int64{1}).Return([]domain.User{{ID: 1}}, nil)
	store.On("ListNonStaff", ctx, int64(1)).Return([]domain.User{}, nil)
	store.On("TopByPosts", ctx, 20, true).Return([]domain.Stats{}, nil)

	_, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	_, err = repo.GetByIDs(ctx, []int64{1})
	require.NoError(t, err)
	_, err = repo.ListNonStaff(ctx, 1)
	require.NoError(t, err)
	_, err = repo.TopByPosts(ctx, 20, true)
	require.NoError(t, err)

	store.AssertExpectations(t)
}

func TestCreate_InvalidatesCachedID(t *testing.T) {
	repo, store, mr := setup(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("user:5", `{"id":5,"username":"stale"}`))

	u := &domain.User{Username: "fresh"}
	store.On("Create", ctx, u).Return(int64(5), nil).Once()

	id, err := repo.Create(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.False(t, mr.Exists("user:5"))
}
