package repository

import (
	"context"

	repo "tableorder/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	tables     repo.TableRepository
	sessions   repo.TableSessionRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	histories  repo.OrderHistoryRepository
	menus      repo.MenuRepository
	admins     repo.AdminRepository
	stores     repo.StoreRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Tables() repo.TableRepository           { return r.tables }
func (r *txReposGorm) Sessions() repo.TableSessionRepository  { return r.sessions }
func (r *txReposGorm) Orders() repo.OrderRepository           { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *txReposGorm) Histories() repo.OrderHistoryRepository { return r.histories }
func (r *txReposGorm) Menus() repo.MenuRepository             { return r.menus }
func (r *txReposGorm) Admins() repo.AdminRepository           { return r.admins }
func (r *txReposGorm) Stores() repo.StoreRepository           { return r.stores }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository     { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			tables:     NewTableGormRepository(tx),
			sessions:   NewTableSessionGormRepository(tx),
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			histories:  NewOrderHistoryGormRepository(tx),
			menus:      NewMenuGormRepository(tx),
			admins:     NewAdminGormRepository(tx),
			stores:     NewStoreGormRepository(tx),
			auditLogs:  NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
