package repository_test

import (
	"context"
	"testing"
	"time"

	"groupplan/internal/model"
	"groupplan/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func invitationRows(id, groupID, invitedUserID, inviterID uint, status model.InvitationStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "group_id", "invited_user_id", "inviter_id", "status", "created_at"}).
		AddRow(id, groupID, invitedUserID, inviterID, string(status), time.Now())
}

func TestInvitationRepository_Respond_Accept(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "group_invitations" SET .*status.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "group_invitations" WHERE id = .*`).
		WillReturnRows(invitationRows(3, 10, 2, 1, model.InvitationAccepted))
	mock.ExpectExec(`INSERT INTO "group_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	responded, err := invitationRepo.Respond(context.Background(), 3, 2, true)

	assert.NoError(t, err)
	assert.True(t, responded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Respond_Reject(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	// rejection only flips the status, no membership insert
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "group_invitations" SET .*status.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	responded, err := invitationRepo.Respond(context.Background(), 3, 2, false)

	assert.NoError(t, err)
	assert.True(t, responded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Respond_NotPending(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	// the status = 'pending' guard matches nothing on a second
	// response; the transaction rolls back and the caller gets false
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "group_invitations" SET .*status.*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	responded, err := invitationRepo.Respond(context.Background(), 3, 2, true)

	assert.NoError(t, err)
	assert.False(t, responded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_Respond_WrongUser(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	// invited_user_id is part of the guard, so another user's respond
	// attempt matches nothing
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "group_invitations" SET .*status.*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	responded, err := invitationRepo.Respond(context.Background(), 3, 99, true)

	assert.NoError(t, err)
	assert.False(t, responded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_FindByGroupAndUser_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	invitationRepo := repository.NewInvitationRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "group_invitations" WHERE group_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	invitation, err := invitationRepo.FindByGroupAndUser(context.Background(), 10, 2)

	assert.NoError(t, err)
	assert.Nil(t, invitation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
