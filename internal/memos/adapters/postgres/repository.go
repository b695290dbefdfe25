package postgres

import (
	"context"

	"memoboard/internal/memos/ports/repositories"
	pgdb "memoboard/pkg/db/postgres"
)

// RepositoryFactory создает репозитории поверх открытого пула соединений.
type RepositoryFactory struct {
	db *pgdb.Database
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(db *pgdb.Database) *RepositoryFactory {
	return &RepositoryFactory{db: db}
}

// MemoRepository возвращает репозиторий заметок.
func (f *RepositoryFactory) MemoRepository() repositories.MemoRepository {
	return NewMemoRepository(f.db.Pool())
}

// Store возвращает репозиторий, закрытие которого освобождает пул.
func (f *RepositoryFactory) Store() repositories.Store {
	return &store{MemoRepository: NewMemoRepository(f.db.Pool()), db: f.db}
}

type store struct {
	*MemoRepository
	db *pgdb.Database
}

func (s *store) Close(ctx context.Context) error {
	s.db.Close(ctx)
	return nil
}
