package subscription

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "social-network-service/internal/domain/subscription"
	"social-network-service/internal/domain/user"
	"social-network-service/internal/usecase/query"
	pkgerrors "social-network-service/pkg/errors"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, s *domain.Subscription, quota int) error {
	args := m.Called(ctx, s, quota)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockRepository) ListFollowees(ctx context.Context, followerID int64, filter domain.FolloweeFilter) ([]domain.Detailed, error) {
	args := m.Called(ctx, followerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Detailed), args.Error(1)
}

func (m *MockRepository) ListFollowers(ctx context.Context, followeeID int64) ([]domain.Detailed, error) {
	args := m.Called(ctx, followeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Detailed), args.Error(1)
}

func (m *MockRepository) FolloweeIDs(ctx context.Context, followerID int64, usernames []string) ([]int64, error) {
	args := m.Called(ctx, followerID, usernames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockRepository) CountFollowees(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUsers is a mock implementation of UserDirectory
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository, *MockUsers) {
	repo := new(MockRepository)
	users := new(MockUsers)
	uc := New(repo, users, Config{Quota: 100, MaxUsernames: 10}, zaptest.NewLogger(t))
	uc.now = func() time.Time { return fixedNow }
	return uc, repo, users
}

func alice() *user.User { return &user.User{ID: 1, Username: "alice"} }
func bob() *user.User   { return &user.User{ID: 2, Username: "bob"} }

// ==================== SUBSCRIBE ====================

func TestSubscribe_Success(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("CountFollowees", ctx, int64(1)).Return(int64(3), nil)
	users.On("GetByID", ctx, int64(2)).Return(bob(), nil)
	users.On("GetByID", ctx, int64(1)).Return(alice(), nil)
	repo.On("Create", ctx, mock.MatchedBy(func(s *domain.Subscription) bool {
		return s.FollowerID == 1 && s.FolloweeID == 2 && s.CreatedAt.Equal(fixedNow)
	}), 100).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Subscription).ID = 77
	}).Return(nil)

	resp, err := uc.Subscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(77), resp.Subscription.ID)
	assert.Equal(t, "The User: alice successfully Subscribed to the User: bob", resp.Message)
	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestSubscribe_Self(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)

	for _, id := range []int64{1, 42, 1 << 40} {
		_, err := uc.Subscribe(context.Background(), SubscribeRequest{FollowerID: id, FolloweeID: id})

		var selfErr *pkgerrors.SelfSubscriptionError
		require.ErrorAs(t, err, &selfErr)
		assert.Equal(t, id, selfErr.UserID)
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSubscribe_QuotaPrecheck(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("CountFollowees", ctx, int64(1)).Return(int64(100), nil)

	_, err := uc.Subscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 2})

	var quotaErr *pkgerrors.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, "It is forbidden to have more than 100 Subscriptions", err.Error())
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscribe_QuotaRace(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("CountFollowees", ctx, int64(1)).Return(int64(99), nil)
	users.On("GetByID", ctx, int64(2)).Return(bob(), nil)
	users.On("GetByID", ctx, int64(1)).Return(alice(), nil)
	repo.On("Create", ctx, mock.Anything, 100).Return(domain.ErrQuotaExceeded)

	_, err := uc.Subscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 2})

	var quotaErr *pkgerrors.QuotaExceededError
	assert.ErrorAs(t, err, &quotaErr)
}

func TestSubscribe_UnknownFollowee(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("CountFollowees", ctx, int64(1)).Return(int64(0), nil)
	users.On("GetByID", ctx, int64(404)).Return(nil, fmt.Errorf("%w: id=404", user.ErrNotFound))

	_, err := uc.Subscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 404})

	var notFound *pkgerrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscribe_Duplicate(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("CountFollowees", ctx, int64(1)).Return(int64(1), nil)
	users.On("GetByID", ctx, int64(2)).Return(bob(), nil)
	users.On("GetByID", ctx, int64(1)).Return(alice(), nil)
	repo.On("Create", ctx, mock.Anything, 100).Return(domain.ErrAlreadySubscribed)

	_, err := uc.Subscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 2})

	var dupErr *pkgerrors.DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Contains(t, err.Error(), "already Subscribed")
}

func TestSubscribe_StoreFailure(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("CountFollowees", ctx, int64(1)).Return(int64(0), errors.New("connection reset"))

	_, err := uc.Subscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 2})
	require.Error(t, err)

	status, _ := pkgerrors.HTTPStatus(err)
	assert.Equal(t, 500, status)
}

func TestSubscribe_InvalidIDs(t *testing.T) {
	uc, _, _ := setupTestUsecase(t)

	_, err := uc.Subscribe(context.Background(), SubscribeRequest{FollowerID: 0, FolloweeID: 2})

	var validationErr *pkgerrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

// ==================== UNSUBSCRIBE ====================

func TestUnsubscribe_Success(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	users.On("GetByID", ctx, int64(2)).Return(bob(), nil)
	users.On("GetByID", ctx, int64(1)).Return(alice(), nil)
	repo.On("Delete", ctx, int64(1), int64(2)).Return(nil)

	resp, err := uc.Unsubscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 2})
	require.NoError(t, err)
	assert.Equal(t, "The User: alice successfully Unsubscribed from the User: bob", resp.Message)
}

func TestUnsubscribe_NoEdge(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	users.On("GetByID", ctx, int64(2)).Return(bob(), nil)
	users.On("GetByID", ctx, int64(1)).Return(alice(), nil)
	repo.On("Delete", ctx, int64(1), int64(2)).Return(domain.ErrNotSubscribed)

	_, err := uc.Unsubscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 2})

	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUnsubscribe_UnknownFollowee(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	users.On("GetByID", ctx, int64(9)).Return(nil, user.ErrNotFound)

	_, err := uc.Unsubscribe(ctx, SubscribeRequest{FollowerID: 1, FolloweeID: 9})

	var notFound *pkgerrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== LISTINGS ====================

func TestListFollowees_PassesParsedFilter(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expected := []domain.Detailed{{Subscription: domain.Subscription{ID: 5}}}

	repo.On("ListFollowees", ctx, int64(1), mock.MatchedBy(func(f domain.FolloweeFilter) bool {
		return assert.ObjectsAreEqual([]string{"bob", "carol"}, f.Usernames) &&
			f.Posts.Title == "go" &&
			f.Posts.From != nil && f.Posts.From.Equal(from) &&
			f.Posts.To == nil
	})).Return(expected, nil)

	items, err := uc.ListFollowees(ctx, 1, query.Params{
		Usernames: []string{"bob", "carol"},
		Title:     "go",
		StartDate: "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, expected, items)
}

func TestListFollowees_TooManyUsernames(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)

	names := make([]string, 11)
	for i := range names {
		names[i] = fmt.Sprintf("user%d", i)
	}

	_, err := uc.ListFollowees(context.Background(), 1, query.Params{Usernames: names})

	var filterErr *pkgerrors.InvalidFilterError
	require.ErrorAs(t, err, &filterErr)
	repo.AssertNotCalled(t, "ListFollowees", mock.Anything, mock.Anything, mock.Anything)
}

func TestListFollowees_MalformedDate(t *testing.T) {
	uc, _, _ := setupTestUsecase(t)

	_, err := uc.ListFollowees(context.Background(), 1, query.Params{EndDate: "31-01-2024"})

	var filterErr *pkgerrors.InvalidFilterError
	assert.ErrorAs(t, err, &filterErr)
}

func TestListFollowers(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("ListFollowers", ctx, int64(2)).Return([]domain.Detailed{}, nil)

	items, err := uc.ListFollowers(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCounts(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("CountFollowees", ctx, int64(1)).Return(int64(4), nil)
	repo.On("CountFollowers", ctx, int64(1)).Return(int64(0), errors.New("db down"))

	n, err := uc.CountFollowees(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = uc.CountFollowers(ctx, 1)
	assert.ErrorContains(t, err, "db down")
}

func TestFolloweeIDs(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("FolloweeIDs", ctx, int64(1), []string(nil)).Return([]int64{2, 3}, nil)

	ids, err := uc.FolloweeIDs(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestNew_DefaultsLimits(t *testing.T) {
	uc := New(nil, nil, Config{}, zaptest.NewLogger(t))
	assert.Equal(t, 100, uc.cfg.Quota)
	assert.Equal(t, 10, uc.cfg.MaxUsernames)
}

