package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

type InMemoryRepositoryManager struct {
	users users.Repository
	files files.Repository
}

func (m InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m InMemoryRepositoryManager) Files() files.Repository {
	return m.files
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return InMemoryRepositoryManager{
		users: users.NewInMemoryRepository(),
		files: files.NewInMemoryRepository(),
	}
}
