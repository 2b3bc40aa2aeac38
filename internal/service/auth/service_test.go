package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/password"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/school-attendance-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests-32b"

type deps struct {
	store   *memory.Store
	svc     auth.AuthService
	jwt     jwt.Service
	users   user.UserRepository
	classes class.ClassRepository
}

func newDeps(t *testing.T) deps {
	t.Helper()
	store := memory.NewStore()
	jwtService, err := jwt.NewJWTService(testSecret, "15m", "720h", false)
	require.NoError(t, err)

	d := deps{
		store:   store,
		jwt:     jwtService,
		users:   memory.NewUserRepository(store),
		classes: memory.NewClassRepository(store),
	}
	d.svc = NewAuthService(store, clock.New(nil), d.users, d.classes, memory.NewRefreshTokenRepository(store), jwtService)
	return d
}

func (d deps) createUser(t *testing.T, email, plain string, role user.Role) user.User {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	u, err := d.users.Create(context.Background(), user.User{
		Email: email, PasswordHash: hash, FirstName: "Sara", LastName: "Malik", Role: role,
	})
	require.NoError(t, err)
	return u
}

var session = auth.SessionTrackingRequest{UserAgent: "test", IPAddress: "127.0.0.1"}

func TestLogin_Success(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	tch := d.createUser(t, "sara@school.com", "password123", user.RoleTeacher)
	c, err := d.classes.Create(ctx, class.Class{Name: "Grade 1", GradeLevel: "Grade 1", TeacherID: &tch.ID})
	require.NoError(t, err)

	resp, err := d.svc.Login(ctx, auth.LoginRequest{Email: " SARA@school.com", Password: "password123"}, session)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresAt, resp.AccessTokenExpiresAt)
	assert.Equal(t, tch.ID, resp.User.ID)
	assert.Equal(t, user.RoleTeacher, resp.User.Role)
	assert.Equal(t, []string{c.ID}, resp.User.AssignedClassIDs)
	assert.Equal(t, 1, d.store.Counts().Tokens)

	userID, err := d.jwt.ParseRefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, tch.ID, userID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	d.createUser(t, "admin@school.com", "password123", user.RoleAdmin)

	_, err := d.svc.Login(ctx, auth.LoginRequest{Email: "admin@school.com", Password: "wrong"}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = d.svc.Login(ctx, auth.LoginRequest{Email: "nobody@school.com", Password: "password123"}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = d.svc.Login(ctx, auth.LoginRequest{Email: "not-an-email", Password: "x"}, session)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	assert.Zero(t, d.store.Counts().Tokens)
}

func TestRefreshToken_Rotates(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	d.createUser(t, "admin@school.com", "password123", user.RoleAdmin)

	login, err := d.svc.Login(ctx, auth.LoginRequest{Email: "admin@school.com", Password: "password123"}, session)
	require.NoError(t, err)

	refreshed, err := d.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken}, session)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Nil(t, refreshed.User.AssignedClassIDs)

	_, err = d.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken}, session)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	_, err = d.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: refreshed.RefreshToken}, session)
	assert.NoError(t, err)
}

func TestRefreshToken_Rejects(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	u := d.createUser(t, "admin@school.com", "password123", user.RoleAdmin)

	_, err := d.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	access, _, err := d.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(t, err)
	_, err = d.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: access}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// signed correctly but never stored
	unknown, _, err := d.jwt.GenerateRefreshToken(u.ID)
	require.NoError(t, err)
	_, err = d.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: unknown}, session)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = d.svc.RefreshToken(ctx, auth.RefreshTokenRequest{}, session)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestLogout_Idempotent(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	d.createUser(t, "admin@school.com", "password123", user.RoleAdmin)

	login, err := d.svc.Login(ctx, auth.LoginRequest{Email: "admin@school.com", Password: "password123"}, session)
	require.NoError(t, err)

	require.NoError(t, d.svc.Logout(ctx, login.RefreshToken))
	require.NoError(t, d.svc.Logout(ctx, login.RefreshToken))
	require.NoError(t, d.svc.Logout(ctx, "unknown"))
	require.NoError(t, d.svc.Logout(ctx, ""))

	_, err = d.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken}, session)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestMe(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()
	tch := d.createUser(t, "sara@school.com", "password123", user.RoleTeacher)

	me, err := d.svc.Me(ctx, tch.ID)
	require.NoError(t, err)
	assert.Equal(t, "sara@school.com", me.Email)
	assert.NotNil(t, me.AssignedClassIDs)
	assert.Empty(t, me.AssignedClassIDs)

	_, err = d.svc.Me(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRegisterAdmin(t *testing.T) {
	d := newDeps(t)
	ctx := context.Background()

	resp, err := d.svc.RegisterAdmin(ctx, auth.RegisterAdminRequest{
		Email: "Admin@School.com", Password: "admin123", FirstName: "Ada", LastName: "Root",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, resp.Role)
	assert.Equal(t, "admin@school.com", resp.Email)

	_, err = d.svc.RegisterAdmin(ctx, auth.RegisterAdminRequest{
		Email: "admin@school.com", Password: "admin123", FirstName: "Ada", LastName: "Root",
	})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)

	login, err := d.svc.Login(ctx, auth.LoginRequest{Email: "admin@school.com", Password: "admin123"}, session)
	require.NoError(t, err)
	assert.True(t, login.RefreshTokenExpiresAt > time.Now().Unix())
}
