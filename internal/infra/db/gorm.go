package db

import (
	"fmt"
	"os"

	"tableorder/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect() (*gorm.DB, error) {
	return Open(DSN())
}

// DSN は DATABASE_URL か POSTGRES_* から接続文字列を作る。
func DSN() string {
	// DATABASE_URL があれば最優先で使う
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	host := getenv("POSTGRES_HOST", "localhost")
	port := getenv("POSTGRES_PORT", "5432")
	user := getenv("POSTGRES_USER", "postgres")
	pass := getenv("POSTGRES_PASSWORD", "postgres")
	name := getenv("POSTGRES_DB", "tableorder")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)
}

func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// Migrate はテーブル・インデックス・CHECK制約を作る。
// 1テーブル1activeセッションは部分ユニークインデックス（uq_active_session_per_table）で保証する。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Store{},
		&model.Admin{},
		&model.Table{},
		&model.TableSession{},
		&model.MenuCategory{},
		&model.Menu{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderHistory{},
		&model.OrderHistoryItem{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
