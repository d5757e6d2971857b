package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/simple-admin/simple-admin/pkg/notification"
	"github.com/simple-admin/simple-admin/pkg/role"
)

// testHasher is a low-cost bcrypt hasher to keep the tests fast
type testHasher struct{}

func (testHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hashed), err
}

type testEnv struct {
	userService *UserService
	roleService *role.RoleService
	adminRoleID int64
	userRoleID  int64
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	roleService := role.NewRoleService(role.NewInMemoryRoleRepository())
	adminRoleID, err := roleService.CreateRole(ctx, "ROLE_ADMIN")
	require.NoError(t, err)
	userRoleID, err := roleService.CreateRole(ctx, "ROLE_USER")
	require.NoError(t, err)

	userService := NewUserService(NewInMemoryUserRepository(), roleService, testHasher{})
	return &testEnv{
		userService: userService,
		roleService: roleService,
		adminRoleID: adminRoleID,
		userRoleID:  userRoleID,
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created, err := env.userService.CreateUser(ctx, CreateUserParams{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Age:       28,
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "s3cret",
		RoleIDs:   []int64{env.adminRoleID},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := env.userService.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", found.FirstName)
	assert.Equal(t, "Lovelace", found.LastName)
	assert.Equal(t, int32(28), found.Age)
	assert.Equal(t, "ada@example.com", found.Email)
	assert.Equal(t, "ada", found.Username)

	// Never plaintext once persisted, and verifiable against the original
	assert.NotEqual(t, "s3cret", found.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(found.Password), []byte("s3cret")))
}

func TestCreateUserAttachesDefaultRole(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created, err := env.userService.CreateUser(ctx, CreateUserParams{
		Username: "nobody",
		Password: "pw",
		RoleIDs:  nil,
	})
	require.NoError(t, err)
	require.Len(t, created.Roles, 1)
	assert.Equal(t, env.adminRoleID, created.Roles[0].ID)
}

func TestCreateUserValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.userService.CreateUser(ctx, CreateUserParams{Password: "pw"})
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = env.userService.CreateUser(ctx, CreateUserParams{Username: "x"})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.userService.CreateUser(ctx, CreateUserParams{Username: "dup", Password: "pw"})
	require.NoError(t, err)

	_, err = env.userService.CreateUser(ctx, CreateUserParams{Username: "dup", Password: "pw"})
	var exists ErrUsernameAlreadyExists
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "dup", exists.Username)
}

func TestCreateUserUnknownRoleFails(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.userService.CreateUser(context.Background(), CreateUserParams{
		Username: "ghost",
		Password: "pw",
		RoleIDs:  []int64{9999},
	})
	assert.ErrorIs(t, err, role.ErrRoleNotFound)
}

func TestUpdateUserKeepsPasswordWhenEmpty(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created, err := env.userService.CreateUser(ctx, CreateUserParams{
		Username: "carol",
		Password: "original",
		RoleIDs:  []int64{env.userRoleID},
	})
	require.NoError(t, err)
	storedHash := created.Password

	// An empty password on update means "unchanged": no re-hash
	updated, err := env.userService.UpdateUser(ctx, created.ID, UpdateUserParams{
		FirstName: "Carol",
		Username:  "carol",
		Password:  "",
		RoleIDs:   []int64{env.userRoleID},
	})
	require.NoError(t, err)
	assert.Equal(t, storedHash, updated.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("original")))
}

func TestUpdateUserChangesPassword(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created, err := env.userService.CreateUser(ctx, CreateUserParams{
		Username: "dave",
		Password: "old-pw",
		RoleIDs:  []int64{env.userRoleID},
	})
	require.NoError(t, err)

	updated, err := env.userService.UpdateUser(ctx, created.ID, UpdateUserParams{
		Username: "dave",
		Password: "new-pw",
		RoleIDs:  []int64{env.userRoleID},
	})
	require.NoError(t, err)
	assert.NotEqual(t, created.Password, updated.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-pw")))
}

func TestUpdateUserReplacesRoleSet(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created, err := env.userService.CreateUser(ctx, CreateUserParams{
		Username: "erin",
		Password: "pw",
		RoleIDs:  []int64{env.adminRoleID},
	})
	require.NoError(t, err)

	_, err = env.userService.UpdateUser(ctx, created.ID, UpdateUserParams{
		Username: "erin",
		RoleIDs:  []int64{env.userRoleID},
	})
	require.NoError(t, err)

	// The role set read back equals exactly the set last attached
	found, err := env.userService.GetUserByUsername(ctx, "erin")
	require.NoError(t, err)
	require.Len(t, found.Roles, 1)
	assert.Equal(t, env.userRoleID, found.Roles[0].ID)
	assert.Equal(t, "ROLE_USER", found.Roles[0].Name)
}

func TestUpdateUserNotFound(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.userService.UpdateUser(context.Background(), 404, UpdateUserParams{Username: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	created, err := env.userService.CreateUser(ctx, CreateUserParams{Username: "gone", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, env.userService.DeleteUser(ctx, created.ID))
	require.NoError(t, env.userService.DeleteUser(ctx, created.ID))
	require.NoError(t, env.userService.DeleteUser(ctx, 12345))

	_, err = env.userService.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

type captureNotifier struct {
	types []notification.NoticeType
	to    []string
}

func (c *captureNotifier) Send(noticeType notification.NoticeType, data notification.NotificationData, _ notification.NoticeTemplate) error {
	c.types = append(c.types, noticeType)
	c.to = append(c.to, data.To)
	return nil
}

func TestUserLifecycleNotices(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	capture := &captureNotifier{}
	notified := NewUserService(NewInMemoryUserRepository(), env.roleService, testHasher{},
		WithNotifications(notification.NewNotificationManager(capture)))

	created, err := notified.CreateUser(ctx, CreateUserParams{
		Username: "heidi",
		Email:    "heidi@example.com",
		Password: "pw",
		RoleIDs:  []int64{env.userRoleID},
	})
	require.NoError(t, err)
	require.Equal(t, []notification.NoticeType{notification.WelcomeNotice}, capture.types)
	assert.Equal(t, "heidi@example.com", capture.to[0])

	// Updating without a password change sends nothing
	_, err = notified.UpdateUser(ctx, created.ID, UpdateUserParams{
		Username: "heidi",
		Email:    "heidi@example.com",
		RoleIDs:  []int64{env.userRoleID},
	})
	require.NoError(t, err)
	assert.Len(t, capture.types, 1)

	_, err = notified.UpdateUser(ctx, created.ID, UpdateUserParams{
		Username: "heidi",
		Email:    "heidi@example.com",
		Password: "new-pw",
		RoleIDs:  []int64{env.userRoleID},
	})
	require.NoError(t, err)
	require.Len(t, capture.types, 2)
	assert.Equal(t, notification.PasswordChangedNotice, capture.types[1])
}

func TestFindUsers(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		_, err := env.userService.CreateUser(ctx, CreateUserParams{Username: name, Password: "pw"})
		require.NoError(t, err)
	}

	users, err := env.userService.FindUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}
