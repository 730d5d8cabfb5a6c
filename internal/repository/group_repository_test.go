package repository_test

import (
	"context"
	"testing"

	"groupplan/internal/model"
	"groupplan/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestGroupRepository_Create_GrantsCreatorAdmin(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	group := &model.Group{
		Name:        "Weekend Trip",
		Description: "Planning the cabin weekend",
		CreatorID:   1,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec(`INSERT INTO "group_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := groupRepo.Create(context.Background(), group)

	assert.NoError(t, err)
	assert.Equal(t, uint(10), group.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Create_RollsBackOnMembershipFailure(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	group := &model.Group{Name: "Doomed", CreatorID: 1}

	// if the admin membership cannot be written, the group insert must
	// not survive either
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectExec(`INSERT INTO "group_members"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := groupRepo.Create(context.Background(), group)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "groups" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	group, err := groupRepo.GetByID(context.Background(), 99)

	assert.NoError(t, err)
	assert.Nil(t, group)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Delete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "groups" WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := groupRepo.Delete(context.Background(), 10)

	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_Delete_AlreadyGone(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "groups" WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := groupRepo.Delete(context.Background(), 99)

	assert.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
