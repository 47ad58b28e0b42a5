package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func TestRegisterAndVerify(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "casey", "hunter2", domain.RoleRequester)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, domain.RoleRequester, user.Role)
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	verified, err := svc.Verify(ctx, "casey", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()

	_, err := svc.Register(context.Background(), "mallory", "secret", domain.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRole))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()

	_, err := svc.Register(context.Background(), "mallory", "secret", domain.Role("supervisor"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRole))
}

func TestRegisterRejectsBlankCredentials(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "   ", "secret", domain.RoleAgent)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	_, err = svc.Register(ctx, "casey", "", domain.RoleAgent)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "casey", "secret", domain.RoleRequester)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "casey", "other", domain.RoleAgent)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateUsername))
}

func TestVerifyFailureIsIndistinguishable(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "casey", "hunter2", domain.RoleRequester)
	require.NoError(t, err)

	_, wrongPassword := svc.Verify(ctx, "casey", "wrong")
	_, unknownUser := svc.Verify(ctx, "nobody", "wrong")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.True(t, apperrors.HasCode(wrongPassword, apperrors.CodeUnauthorized))
	assert.True(t, apperrors.HasCode(unknownUser, apperrors.CodeUnauthorized))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "casey", "hunter2", domain.RoleAgent)
	require.NoError(t, err)

	loggedIn, token, exp, err := svc.Login(ctx, "casey", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "casey", claims.Username)
	assert.Equal(t, domain.RoleAgent, claims.Role)
}

func TestListByRole(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a1", "secret", domain.RoleAgent)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "r1", "secret", domain.RoleRequester)
	require.NoError(t, err)

	agents, err := svc.ListByRole(ctx, domain.RoleAgent)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "a1", agents[0].Username)

	_, err = svc.ListByRole(ctx, domain.Role("ghost"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidRole))
}

func TestRegisterPublishesEvent(t *testing.T) {
	f := newFixture(t)
	recorder := &eventRecorder{}
	f.dispatcher.Subscribe(events.EventUserRegistered, recorder.record)
	svc := f.authService()

	user, err := svc.Register(context.Background(), "casey", "secret", domain.RoleRequester)
	require.NoError(t, err)

	published := recorder.all()
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.UserRegisteredPayload)
	require.True(t, ok)
	assert.Equal(t, user.ID, payload.UserID)
	assert.Equal(t, "casey", payload.Username)
}
