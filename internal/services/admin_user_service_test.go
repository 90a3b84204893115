package services

import (
	"testing"

	"github.com/minhle-dev/rentroom-backend/internal/apperr"
	"github.com/minhle-dev/rentroom-backend/internal/audit"
	"github.com/minhle-dev/rentroom-backend/internal/dto"
	"github.com/minhle-dev/rentroom-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUpdateUserRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	boss := seedUser(t, db, "boss", models.RoleSuperAdmin)
	user := seedUser(t, db, "user", models.RoleUser)

	updated, err := svc.UpdateUserRole(user.ID, boss, &dto.UpdateUserRoleRequest{
		Role: models.RoleAdmin,
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	logs := auditEntries(t, db, audit.ActionUpdateUserRole)
	require.Len(t, logs, 1)
	assert.Equal(t, user.ID, logs[0].TargetID)
}

func TestAdminCannotPromoteToSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	user := seedUser(t, db, "user", models.RoleUser)

	_, err := svc.UpdateUserRole(user.ID, admin, &dto.UpdateUserRoleRequest{
		Role: models.RoleSuperAdmin,
	}, "127.0.0.1")
	assert.True(t, apperr.IsForbidden(err))

	_, err = svc.UpdateUserRole(user.ID, admin, &dto.UpdateUserRoleRequest{
		Role: "OWNER",
	}, "127.0.0.1")
	assert.True(t, apperr.IsInvalid(err))
}

func TestAdminCannotLockAnotherAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	peer := seedUser(t, db, "peer", models.RoleAdmin)

	_, err := svc.ToggleUserLock(peer.ID, admin, &dto.ToggleUserLockRequest{
		IsLocked: true, Reason: "abuse",
	}, "127.0.0.1")
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, peer.ID).Error)
	assert.False(t, reloaded.IsLocked)
	assert.Empty(t, auditEntries(t, db, audit.ActionLockUser))
}

func TestLockAndUnlockUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	user := seedUser(t, db, "user", models.RoleUser)

	locked, err := svc.ToggleUserLock(user.ID, admin, &dto.ToggleUserLockRequest{
		IsLocked: true, Reason: "spamming reviews",
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)
	assert.Len(t, auditEntries(t, db, audit.ActionLockUser), 1)

	unlocked, err := svc.ToggleUserLock(user.ID, admin, &dto.ToggleUserLockRequest{
		IsLocked: false, Reason: "appeal accepted",
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked)
	assert.Len(t, auditEntries(t, db, audit.ActionUnlockUser), 1)
}

func TestResetUserPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminUserService(db)
	boss := seedUser(t, db, "boss", models.RoleSuperAdmin)
	user := seedUser(t, db, "user", models.RoleUser)

	// Give the user a live refresh token; a reset must revoke it.
	token := models.RefreshToken{UserID: user.ID, TokenHash: "deadbeef"}
	require.NoError(t, db.Create(&token).Error)

	err := svc.ResetUserPassword(user.ID, boss, &dto.ResetPasswordRequest{
		NewPassword: "brand-new-secret",
	}, "127.0.0.1")
	require.NoError(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(reloaded.PasswordHash), []byte("brand-new-secret")))

	var reloadedToken models.RefreshToken
	require.NoError(t, db.First(&reloadedToken, token.ID).Error)
	assert.True(t, reloadedToken.Revoked)

	assert.Len(t, auditEntries(t, db, audit.ActionResetUserPassword), 1)

	err = svc.ResetUserPassword(user.ID, boss, &dto.ResetPasswordRequest{
		NewPassword: "short",
	}, "127.0.0.1")
	assert.True(t, apperr.IsInvalid(err))
}
