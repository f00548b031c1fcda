package db

import (
	"database/sql"
	"fmt"

	"pedidos/internal/config"
	"pedidos/internal/domain/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.StorageConfig) (*gorm.DB, error) {
	sqlDB, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return gormDB, nil
}

// Migrate はストレージと監査イベントのテーブルを作る
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(&model.StorageRecord{}, &model.AuditEvent{})
}
