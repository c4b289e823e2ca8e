package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
)

func TestBootstrapDisabled(t *testing.T) {
	svc := NewBootstrapService(&userRepoStub{}, validator.New(), &recorderStub{}, false, testLogger())

	_, err := svc.CreateAdmin(context.Background(), dto.BootstrapAdminRequest{
		Name: "Admin", Email: "admin@example.com", Password: "password123",
	}, RequestMeta{})
	require.ErrorIs(t, err, ErrBootstrapDisabled)
}

func TestBootstrapCreatesAdmin(t *testing.T) {
	repo := &userRepoStub{}
	recorder := &recorderStub{}
	svc := NewBootstrapService(repo, validator.New(), recorder, true, testLogger())

	user, err := svc.CreateAdmin(context.Background(), dto.BootstrapAdminRequest{
		Name: "Admin", Email: "Admin@Example.com", Password: "password123",
	}, RequestMeta{})
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", user.Email)
	require.True(t, user.IsAdmin)

	stored := repo.users["admin@example.com"]
	require.NotNil(t, stored)
	require.NotEqual(t, "password123", stored.PasswordHash, "password must be stored hashed")
	require.Equal(t, []string{"user.create.success"}, recorder.actions())
}

func TestBootstrapRejectsShortPassword(t *testing.T) {
	recorder := &recorderStub{}
	svc := NewBootstrapService(&userRepoStub{}, validator.New(), recorder, true, testLogger())

	_, err := svc.CreateAdmin(context.Background(), dto.BootstrapAdminRequest{
		Name: "Admin", Email: "admin@example.com", Password: "short",
	}, RequestMeta{})
	require.Error(t, err)
	require.Equal(t, []string{"user.create.validation_failed"}, recorder.actions())
}

func TestBootstrapDuplicateEmail(t *testing.T) {
	repo := &userRepoStub{createErr: gorm.ErrDuplicatedKey}
	recorder := &recorderStub{}
	svc := NewBootstrapService(repo, validator.New(), recorder, true, testLogger())

	_, err := svc.CreateAdmin(context.Background(), dto.BootstrapAdminRequest{
		Name: "Admin", Email: "admin@example.com", Password: "password123",
	}, RequestMeta{})
	require.ErrorIs(t, err, ErrEmailInUse)
	require.Equal(t, []string{"user.create.email_in_use"}, recorder.actions())
}
