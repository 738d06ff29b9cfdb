package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func fileColumns() []string {
	return []string{"id", "storage_name", "original_name", "content_type", "size", "location", "uploaded_at", "user_id"}
}

func TestCreate_AssignsIDAndTimestamp(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	uploaded := time.Now()
	mock.ExpectQuery(`INSERT INTO files`).
		WithArgs("a_1_deadbeef.pdf", "a.pdf", "application/pdf", int64(7), "uploads/1/a_1_deadbeef.pdf", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "uploaded_at"}).AddRow(int64(5), uploaded))

	r := NewPostgresRepository(db)

	file, err := r.Create(context.Background(), &models.StoredFile{
		StorageName:  "a_1_deadbeef.pdf",
		OriginalName: "a.pdf",
		ContentType:  "application/pdf",
		Size:         7,
		Location:     "uploads/1/a_1_deadbeef.pdf",
		UserID:       1,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if file.ID != 5 {
		t.Fatalf("id mismatch: got %d want 5", file.ID)
	}
	if !file.UploadedAt.Equal(uploaded) {
		t.Fatalf("uploaded_at not assigned")
	}
}

// Listing must filter by owner in the query and order newest first.
func TestListByOwner(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM files\s+WHERE user_id = \$1\s+ORDER BY uploaded_at DESC, id DESC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(fileColumns()).
			AddRow(int64(2), "b_2_cafebabe.png", "b.png", "image/png", int64(3), "uploads/1/b", now, int64(1)).
			AddRow(int64(1), "a_1_deadbeef.pdf", "a.pdf", "application/pdf", int64(7), "uploads/1/a", now.Add(-time.Minute), int64(1)))

	r := NewPostgresRepository(db)

	list, err := r.ListByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].ID != 2 || list[1].ID != 1 {
		t.Fatalf("unexpected order: %d, %d", list[0].ID, list[1].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByOwnerAndID_ScopedNotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	// the row exists for another owner; the scoped query simply has no rows
	mock.ExpectQuery(`SELECT (.+) FROM files\s+WHERE user_id = \$1 AND id = \$2`).
		WithArgs(int64(2), int64(5)).
		WillReturnError(sql.ErrNoRows)

	r := NewPostgresRepository(db)

	_, err := r.GetByOwnerAndID(context.Background(), 2, 5)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM files WHERE user_id = \$1 AND id = \$2`).
		WithArgs(int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewPostgresRepository(db)

	if err := r.Delete(context.Background(), 1, 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NoRowsIsNotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM files WHERE user_id = \$1 AND id = \$2`).
		WithArgs(int64(1), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := NewPostgresRepository(db)

	if err := r.Delete(context.Background(), 1, 99); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}
