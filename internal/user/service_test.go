package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/user-microservices/internal/user"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockGreetingClient struct {
	mock.Mock
}

func (m *MockGreetingClient) FetchGreeting(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func TestUserService_SaveUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockClient := new(MockGreetingClient)
	userService := user.NewService(mockRepo, mockClient)

	input := user.UserDto{Name: "Alice", Email: "alice@example.com"}

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.ID == 0 && u.Name == input.Name && u.Email == input.Email
	})).
		Return(&user.User{ID: 42, Name: input.Name, Email: input.Email}, nil).
		Once()

	saved, err := userService.SaveUser(context.Background(), input)
	require.NoError(t, err)

	diff := cmp.Diff(input, saved)
	require.Empty(t, diff, "SaveUser must echo the input DTO (-expected +got):\n%s", diff)
	require.Nil(t, saved.ID, "generated identifier must not leak into the response")

	mockRepo.AssertExpectations(t)
	mockClient.AssertNotCalled(t, "FetchGreeting", mock.Anything)
}

func TestUserService_SaveUser_PersistenceError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo, new(MockGreetingClient))

	storeErr := errors.New("connection refused")
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*user.User")).
		Return(nil, errors.Join(user.ErrPersistence, storeErr)).
		Once()

	saved, err := userService.SaveUser(context.Background(), user.UserDto{Name: "Bob", Email: "bob@example.com"})
	require.Error(t, err)
	require.ErrorIs(t, err, user.ErrPersistence)
	require.ErrorIs(t, err, storeErr)
	require.Empty(t, cmp.Diff(user.UserDto{}, saved))
	mockRepo.AssertExpectations(t)
}

func TestUserService_Test_RelaysGreeting(t *testing.T) {
	mockClient := new(MockGreetingClient)
	userService := user.NewService(new(MockUserRepository), mockClient)

	mockClient.On("FetchGreeting", mock.Anything).Return("Hello World!", nil).Once()

	greeting, err := userService.Test(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Hello World!", greeting)
	mockClient.AssertExpectations(t)
}

func TestUserService_Test_DownstreamError(t *testing.T) {
	mockClient := new(MockGreetingClient)
	userService := user.NewService(new(MockUserRepository), mockClient)

	downstreamErr := errors.New("dial tcp: connection refused")
	mockClient.On("FetchGreeting", mock.Anything).Return("", downstreamErr).Once()

	greeting, err := userService.Test(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, downstreamErr)
	require.Empty(t, greeting)
	mockClient.AssertExpectations(t)
}

func TestUserService_GetUserByID_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo, new(MockGreetingClient))

	expectedUser := user.User{ID: 7, Name: "Alice", Email: "alice@example.com"}
	mockRepo.On("GetByID", mock.Anything, int64(7)).Return(&expectedUser, nil).Once()

	foundUser, err := userService.GetUserByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Empty(t, cmp.Diff(expectedUser, *foundUser))
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo, new(MockGreetingClient))

	mockRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, user.ErrNotFound).Once()

	foundUser, err := userService.GetUserByID(context.Background(), 404)
	require.Error(t, err)
	require.ErrorIs(t, err, user.ErrNotFound)
	require.Nil(t, foundUser)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserByID_PersistenceError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo, new(MockGreetingClient))

	mockRepo.On("GetByID", mock.Anything, int64(1)).Return(nil, user.ErrPersistence).Once()

	_, err := userService.GetUserByID(context.Background(), 1)
	require.ErrorIs(t, err, user.ErrPersistence)
	require.NotErrorIs(t, err, user.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestUserService_ListUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo, new(MockGreetingClient))

	expected := []user.User{
		{ID: 1, Name: "Alice", Email: "alice@example.com"},
		{ID: 2, Name: "Bob", Email: "bob@example.com"},
	}
	mockRepo.On("List", mock.Anything).Return(expected, nil).Once()

	users, err := userService.ListUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expected, users))
	mockRepo.AssertExpectations(t)
}

func TestUserService_ListUsers_Error(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo, new(MockGreetingClient))

	mockRepo.On("List", mock.Anything).Return(nil, user.ErrPersistence).Once()

	users, err := userService.ListUsers(context.Background())
	require.ErrorIs(t, err, user.ErrPersistence)
	require.Nil(t, users)
	mockRepo.AssertExpectations(t)
}
