package assessment

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func TestGetByIDMissingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepo(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "assessment"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(dbctx.New(context.Background()), uuid.New())
	if !errors.Is(err, pkgErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByUserOrdersNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepo(db, logger.Nop())

	first, second := uuid.New(), uuid.New()
	userID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "assessment" WHERE user_id = .+ ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "explanation"}).
			AddRow(first, userID, "newer").
			AddRow(second, userID, "older"))

	rows, err := repo.ListByUser(dbctx.New(context.Background()), userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != first || rows[1].Explanation != "older" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetLatestByUserMissingIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssessmentRepo(db, logger.Nop())

	mock.ExpectQuery(`ORDER BY created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetLatestByUser(dbctx.New(context.Background()), uuid.New()); !errors.Is(err, pkgErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
