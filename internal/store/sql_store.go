package store

import (
	"context"

	"modelhub/internal/logger"
)

// SQLStore is the relational implementation of [Store]. The same code serves
// PostgreSQL and SQLite; the wrapped [DB] carries the dialect-specific
// statement builder and error classifier.
type SQLStore struct {
	db       *DB
	users    UserRepository
	models   ModelRepository
	settings SettingRepository
	hotspots HotspotRepository
}

// NewSQLStore constructs a [Store] backed by the given database connection.
func NewSQLStore(db *DB, log *logger.Logger) *SQLStore {
	return &SQLStore{
		db:       db,
		users:    NewUserRepository(db, log),
		models:   NewModelRepository(db, log),
		settings: NewSettingRepository(db, log),
		hotspots: NewHotspotRepository(db, log),
	}
}

func (s *SQLStore) Users() UserRepository       { return s.users }
func (s *SQLStore) Models() ModelRepository     { return s.models }
func (s *SQLStore) Settings() SettingRepository { return s.settings }
func (s *SQLStore) Hotspots() HotspotRepository { return s.hotspots }

// Ping implements [Store].
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements [Store].
func (s *SQLStore) Close() error {
	return s.db.Close()
}
