// Package dbtest はテスト用のPostgreSQLをtestcontainersで起動する。
package dbtest

import (
	"context"
	"fmt"
	"time"

	"tableorder/internal/infra/db"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const image = "postgres:16-alpine"

// Start はコンテナを起動してマイグレーション済みの *gorm.DB を返す。
// 戻り値の関数でコンテナを止める。
func Start(ctx context.Context) (*gorm.DB, func(), error) {
	ctr, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithDatabase("tableorder"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}
	stop := func() { _ = ctr.Terminate(context.Background()) }

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		stop()
		return nil, nil, err
	}

	gdb, err := db.Open(dsn)
	if err != nil {
		stop()
		return nil, nil, err
	}
	if err := db.Migrate(gdb); err != nil {
		stop()
		return nil, nil, err
	}
	return gdb, stop, nil
}

// Truncate は全テーブルを空にする（テストごとの初期化）
func Truncate(gdb *gorm.DB) error {
	return gdb.Exec(`TRUNCATE TABLE
		audit_logs, order_history_items, order_histories, order_items, orders,
		menus, menu_categories, table_sessions, tables, admins, stores
		RESTART IDENTITY CASCADE`).Error
}
