package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartface-server-go/internal/platform/config"
	platformerrors "smartface-server-go/internal/platform/errors"
)

// Open initializes the SQLite database and migrates the schema.
func Open(cfg config.StorageConfig) (*gorm.DB, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "storage.open", "create data directory failed", err)
	}

	file := cfg.File
	if file == "" {
		file = "smartface.db"
	}
	path := filepath.Join(dir, file)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "storage.open", "open database failed", err)
	}

	if err := db.AutoMigrate(&Reminder{}, &Exchange{}); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "storage.open", "migrate schema failed", err)
	}
	return db, nil
}

// OpenMemory opens a throwaway in-memory database, used by tests. Each call
// gets its own namespace so parallel tests do not share state.
func OpenMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "storage.open", "open memory database failed", err)
	}
	if err := db.AutoMigrate(&Reminder{}, &Exchange{}); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "storage.open", "migrate schema failed", err)
	}
	return db, nil
}
