package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error) {

	query :=
		`INSERT INTO files (storage_name, original_name, content_type, size, location, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.StorageName, file.OriginalName, file.ContentType, file.Size, file.Location, file.UserID).
		Scan(&file.ID, &file.UploadedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.StoredFile, error) {
	query :=
		`SELECT id, storage_name, original_name, content_type, size, location, uploaded_at, user_id FROM files
		 WHERE user_id = $1
		 ORDER BY uploaded_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}

	var result []*models.StoredFile

	defer rows.Close()
	for rows.Next() {
		var item = models.StoredFile{}
		err := rows.Scan(&item.ID, &item.StorageName, &item.OriginalName, &item.ContentType,
			&item.Size, &item.Location, &item.UploadedAt, &item.UserID)
		if err != nil {
			return nil, err
		}
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*models.StoredFile, error) {
	// the owner filter lives in the query itself, never applied after fetch
	query :=
		`SELECT id, storage_name, original_name, content_type, size, location, uploaded_at, user_id FROM files
		 WHERE user_id = $1 AND id = $2
		 `

	file := &models.StoredFile{}
	err := r.db.QueryRowContext(ctx, query, ownerID, id).Scan(
		&file.ID, &file.StorageName, &file.OriginalName, &file.ContentType,
		&file.Size, &file.Location, &file.UploadedAt, &file.UserID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query :=
		`DELETE FROM files WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}

	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
