package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(driver, dsn string) (*GormStorage, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&BotState{},
		&Delivery{},
		&Setting{},
		&ScheduledJob{},
	)
}

func (s *GormStorage) GetBotState(ctx context.Context, source string) (*BotState, error) {
	var st BotState
	result := s.db.WithContext(ctx).First(&st, "source = ?", source)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &st, nil
}

func (s *GormStorage) SaveBotState(ctx context.Context, state BotState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}},
		UpdateAll: true,
	}).Create(&state).Error
}

func (s *GormStorage) GetDelivery(ctx context.Context, reportDate string) (*Delivery, error) {
	var d Delivery
	result := s.db.WithContext(ctx).
		Where("report_date = ?", reportDate).
		Order("sent_at DESC").
		First(&d)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &d, nil
}

func (s *GormStorage) SaveDelivery(ctx context.Context, d Delivery) error {
	if d.SentAt.IsZero() {
		d.SentAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(&d).Error
}

func (s *GormStorage) GetSetting(ctx context.Context, key string) (string, error) {
	var setting Setting
	result := s.db.WithContext(ctx).First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return setting.Value, nil
}

func (s *GormStorage) SaveSetting(ctx context.Context, key, value string) error {
	setting := Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&setting).Error
}

func (s *GormStorage) GetScheduledJob(ctx context.Context, name string) (*ScheduledJob, error) {
	var j ScheduledJob
	result := s.db.WithContext(ctx).First(&j, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &j, nil
}

func (s *GormStorage) UpdateScheduledJob(ctx context.Context, name string, startedAt time.Time, dur time.Duration, success bool, errMsg string) error {
	j := ScheduledJob{
		Name:           name,
		LastRunAt:      startedAt,
		LastDurationMs: dur.Milliseconds(),
		LastSuccess:    success,
		LastError:      errMsg,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&j).Error
}

func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
