package auth_test

import (
	"context"
	"database/sql"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	auth "github.com/morrowern/go-authkit"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, user *auth.User, rawPassword string) (*auth.User, error) {
	args := m.Called(ctx, user, rawPassword)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

func (m *MockUserStore) CheckPassword(ctx context.Context, user *auth.User, rawPassword string) (bool, error) {
	args := m.Called(ctx, user, rawPassword)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Claims(ctx context.Context, user *auth.User) ([]auth.Claim, error) {
	args := m.Called(ctx, user)
	claims, _ := args.Get(0).([]auth.Claim)
	return claims, args.Error(1)
}

func (m *MockUserStore) Roles(ctx context.Context, user *auth.User) ([]string, error) {
	args := m.Called(ctx, user)
	roles, _ := args.Get(0).([]string)
	return roles, args.Error(1)
}

func (m *MockUserStore) AddRole(ctx context.Context, user *auth.User, role string) error {
	args := m.Called(ctx, user, role)
	return args.Error(0)
}

func (m *MockUserStore) IsInRole(ctx context.Context, user *auth.User, role string) (bool, error) {
	args := m.Called(ctx, user, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockRoleStore implements auth.RoleStore
type MockRoleStore struct {
	mock.Mock
}

func (m *MockRoleStore) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// MockLogger implements auth.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {}
func (m *MockLogger) Info(format string, args ...any)  {}
func (m *MockLogger) Warn(format string, args ...any)  {}
func (m *MockLogger) Error(format string, args ...any) {}

// MockRepositoryManager implements auth.RepositoryManager for command tests
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

func (m *MockRepositoryManager) Users() auth.Users {
	args := m.Called()
	return args.Get(0).(auth.Users)
}

func (m *MockRepositoryManager) Roles() auth.Roles {
	args := m.Called()
	return args.Get(0).(auth.Roles)
}

// MockUsers mocks the bun backed Users repository. The embedded interface
// covers the repository methods tests never touch.
type MockUsers struct {
	mock.Mock
	auth.Users
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUsers) AddRoleTx(ctx context.Context, tx bun.IDB, user *auth.User, role string) error {
	args := m.Called(ctx, tx, user, role)
	return args.Error(0)
}

// testConfig is a static auth.Config for tests
func testConfig() auth.SigningConfig {
	return auth.SigningConfig{
		SigningKey:   "test-signing-key",
		Issuer:       "test-issuer",
		Audience:     []string{"test:audience"},
		DurationDays: 7,
	}
}

// testUser builds a persisted looking user record
func testUser(username, email string) *auth.User {
	now := time.Now()
	u := &auth.User{
		ID:        uuid.New(),
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Email:     email,
		CreatedAt: &now,
	}
	return u
}
