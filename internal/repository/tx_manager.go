package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Tables() TableRepository
	Sessions() TableSessionRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Histories() OrderHistoryRepository
	Menus() MenuRepository
	Admins() AdminRepository
	Stores() StoreRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
