package repository

import (
	"context"
	"errors"
	"time"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storage_records テーブルを使うKeyValueStore
type StorageGormRepository struct {
	db *gorm.DB
}

// DI
func NewStorageGormRepository(db *gorm.DB) *StorageGormRepository {
	return &StorageGormRepository{db: db}
}

func (r *StorageGormRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var rec model.StorageRecord

	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

// 同じkeyは上書き
func (r *StorageGormRepository) Put(ctx context.Context, key string, value []byte) error {
	rec := model.StorageRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

// 無いkeyの削除はエラーにしない
func (r *StorageGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.StorageRecord{}).Error
}
