package repository

import (
	"context"
	"errors"

	domainStorage "github.com/AzielCF/watercooler-fc/domains/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KVEntryModel struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value;type:text"`
}

func (KVEntryModel) TableName() string {
	return "watercooler_kv"
}

// GormStore keeps entries in a single key/value table on sqlite or postgres.
type GormStore struct {
	db *gorm.DB
}

var _ domainStorage.IStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (r *GormStore) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&KVEntryModel{})
}

func (r *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var m KVEntryModel
	if err := r.db.WithContext(ctx).First(&m, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Value, true, nil
}

func (r *GormStore) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&KVEntryModel{
		Key:   key,
		Value: value,
	}).Error
}

func (r *GormStore) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&KVEntryModel{}, "key = ?", key).Error
}

func (r *GormStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&KVEntryModel{}).
		Where("key LIKE ? ESCAPE '\\'", likePrefix(prefix)).
		Order("key").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

func (r *GormStore) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
