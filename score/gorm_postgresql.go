package score

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormPostgreSQL 使用GORM的积分存储实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// ScoreModel 积分模型
type ScoreModel struct {
	Key       string `gorm:"primaryKey;size:255"`
	Points    int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// NewGormPostgreSQL 创建GORM积分存储
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&ScoreModel{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// Increment 原子累加并返回新总分
func (g *GormPostgreSQL) Increment(key string, delta int) (int, error) {
	var total int64
	err := g.db.Transaction(func(tx *gorm.DB) error {
		var row ScoreModel
		result := tx.Where("key = ?", key).First(&row)
		if result.Error == gorm.ErrRecordNotFound {
			row = ScoreModel{Key: key, Points: int64(delta)}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			total = row.Points
			return nil
		} else if result.Error != nil {
			return result.Error
		}

		if err := tx.Model(&row).
			Update("points", gorm.Expr("points + ?", delta)).Error; err != nil {
			return err
		}
		if err := tx.Where("key = ?", key).First(&row).Error; err != nil {
			return err
		}
		total = row.Points
		return nil
	})
	return int(total), err
}

func (g *GormPostgreSQL) Total(key string) (int, error) {
	var row ScoreModel
	if err := g.db.Where("key = ?", key).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return int(row.Points), nil
}

func (g *GormPostgreSQL) Top(n int) ([]Entry, error) {
	var rows []ScoreModel
	if err := g.db.Order("points DESC, key ASC").Limit(n).Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, Entry{Key: r.Key, Points: int(r.Points)})
	}
	return entries, nil
}

func (g *GormPostgreSQL) Reset() error {
	return g.db.Where("1 = 1").Delete(&ScoreModel{}).Error
}

func (g *GormPostgreSQL) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
