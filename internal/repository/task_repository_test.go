package repository_test

import (
	"context"
	"testing"
	"time"

	"groupplan/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func taskRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "status", "priority",
		"due_date", "group_id", "subgroup_id", "creator_id",
		"created_at", "updated_at",
	})
}

func TestTaskRepository_GetByGroupID_Ordering(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	now := time.Now()
	rows := taskRows().
		AddRow(1, "due soon", "", "pending", "low", now, 10, nil, 1, now, now).
		AddRow(2, "undated high prio", "", "pending", "high", nil, 10, nil, 1, now, now)

	// due-dated tasks come before undated ones, priority breaks ties
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE group_id = .* ORDER BY due_date ASC NULLS LAST, CASE priority`).
		WillReturnRows(rows)

	tasks, err := taskRepo.GetByGroupID(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "due soon", tasks[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Assign(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectExec(`INSERT INTO task_assignments .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assigned, err := taskRepo.Assign(context.Background(), 1, 2, 3)

	assert.NoError(t, err)
	assert.True(t, assigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Assign_AlreadyAssigned(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	// ON CONFLICT DO NOTHING swallows the duplicate; zero rows means
	// the pair was already assigned
	mock.ExpectExec(`INSERT INTO task_assignments .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assigned, err := taskRepo.Assign(context.Background(), 1, 2, 3)

	assert.NoError(t, err)
	assert.False(t, assigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Unassign_NotAssigned(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "task_assignments" WHERE task_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	removed, err := taskRepo.Unassign(context.Background(), 1, 99)

	assert.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Update_ClearSubgroup(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET .*subgroup_id.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .*`).
		WillReturnRows(taskRows().AddRow(1, "task", "", "pending", "medium", nil, 10, nil, 1, now, now))

	var cleared *uint
	task, err := taskRepo.Update(context.Background(), 1, repository.TaskPatch{SubgroupID: &cleared})

	assert.NoError(t, err)
	assert.NotNil(t, task)
	assert.Nil(t, task.SubgroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "tasks" WHERE id = .*`).
		WillReturnRows(taskRows())

	task, err := taskRepo.GetByID(context.Background(), 99)

	assert.NoError(t, err)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}
