package config

import "os"

const databaseURLVar = "DATABASE_URL"

type StorageConfig interface {
	GetDatabaseURL() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

// GetDatabaseURL returns the Postgres connection string. When empty the
// server runs on in-memory stores.
func (Storage) GetDatabaseURL() string {
	return os.Getenv(databaseURLVar)
}
