// Package repomanager wires the concrete repository implementations behind
// a single construction point.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filevault/internal/server/repositories/files"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Files() files.Repository
}
