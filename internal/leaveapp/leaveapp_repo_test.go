package leaveapp_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/leaveapp"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	assert.NoError(t, err)

	return gdb, mock, func() { db.Close() }
}

func TestLeaveAppRepository_FindOngoingRecallable(t *testing.T) {
	t.Run("success excludes inactive and soft-deleted plans", func(t *testing.T) {
		gdb, mock, cleanup := setupRepoTest(t)
		defer cleanup()

		repo := leaveapp.NewRepository(gdb)

		mock.ExpectQuery(`leave_plans\.allow_recall = \$\d+ AND leave_plans\.is_active = \$\d+ AND leave_plans\.deleted_at IS NULL`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		apps, err := repo.FindOngoingRecallable(context.Background(), uuid.New().String(), date(2024, time.January, 5))

		assert.NoError(t, err)
		assert.Empty(t, apps)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
