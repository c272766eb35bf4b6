package usecase_test

import (
	"context"
	"sync"
	"time"

	"tableorder/internal/domain/model"
	repo "tableorder/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// WithinTxの中で渡すreposを固定してunitテストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	//呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	tables     *TableRepoMock
	sessions   *SessionRepoMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	histories  *HistoryRepoMock
	menus      *MenuRepoMock
	admins     *AdminRepoMock
	stores     *StoreRepoMock
	auditLogs  *AuditRepoMock
}

func newTxReposMock() *TxReposMock {
	return &TxReposMock{
		tables:     &TableRepoMock{},
		sessions:   &SessionRepoMock{},
		orders:     &OrderRepoMock{},
		orderItems: &OrderItemRepoMock{},
		histories:  &HistoryRepoMock{},
		menus:      &MenuRepoMock{},
		admins:     &AdminRepoMock{},
		stores:     &StoreRepoMock{},
		auditLogs:  &AuditRepoMock{},
	}
}

func (r *TxReposMock) Tables() repo.TableRepository           { return r.tables }
func (r *TxReposMock) Sessions() repo.TableSessionRepository  { return r.sessions }
func (r *TxReposMock) Orders() repo.OrderRepository           { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *TxReposMock) Histories() repo.OrderHistoryRepository { return r.histories }
func (r *TxReposMock) Menus() repo.MenuRepository             { return r.menus }
func (r *TxReposMock) Admins() repo.AdminRepository           { return r.admins }
func (r *TxReposMock) Stores() repo.StoreRepository           { return r.stores }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository     { return r.auditLogs }

func (r *TxReposMock) assertAll(t mock.TestingT) {
	r.tables.AssertExpectations(t)
	r.sessions.AssertExpectations(t)
	r.orders.AssertExpectations(t)
	r.orderItems.AssertExpectations(t)
	r.histories.AssertExpectations(t)
	r.menus.AssertExpectations(t)
	r.admins.AssertExpectations(t)
	r.stores.AssertExpectations(t)
	r.auditLogs.AssertExpectations(t)
}

func newTx(repos *TxReposMock) *TxManagerMock {
	tx := &TxManagerMock{Repos: repos}
	tx.On("WithinTx", mock.Anything)
	return tx
}

// =====================
// Repository mocks
// =====================

type TableRepoMock struct{ mock.Mock }

func (m *TableRepoMock) FindByID(ctx context.Context, id int64) (model.Table, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) FindByStoreAndNumber(ctx context.Context, storeID string, tableNumber string) (model.Table, error) {
	args := m.Called(ctx, storeID, tableNumber)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Table, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) FindActiveByIDForUpdate(ctx context.Context, sessionID int64) (model.TableSession, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(model.TableSession)
	return s, args.Error(1)
}

func (m *SessionRepoMock) FindActiveByTableIDForUpdate(ctx context.Context, tableID int64) (model.TableSession, error) {
	args := m.Called(ctx, tableID)
	s, _ := args.Get(0).(model.TableSession)
	return s, args.Error(1)
}

func (m *SessionRepoMock) FindActiveByTableID(ctx context.Context, tableID int64) (model.TableSession, error) {
	args := m.Called(ctx, tableID)
	s, _ := args.Get(0).(model.TableSession)
	return s, args.Error(1)
}

func (m *SessionRepoMock) FindByID(ctx context.Context, sessionID int64) (model.TableSession, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(model.TableSession)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Create(ctx context.Context, s model.TableSession) (model.TableSession, error) {
	args := m.Called(ctx, s)
	out, _ := args.Get(0).(model.TableSession)
	return out, args.Error(1)
}

func (m *SessionRepoMock) End(ctx context.Context, s model.TableSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListBySessionID(ctx context.Context, sessionID int64) ([]model.Order, error) {
	args := m.Called(ctx, sessionID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListBySessionIDForUpdate(ctx context.Context, sessionID int64) ([]model.Order, error) {
	args := m.Called(ctx, sessionID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, updatedAt time.Time) error {
	args := m.Called(ctx, orderID, status, updatedAt)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	items, _ := args.Get(0).(map[int64][]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) DeleteByOrderID(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type HistoryRepoMock struct{ mock.Mock }

func (m *HistoryRepoMock) Create(ctx context.Context, h model.OrderHistory, items []model.OrderHistoryItem) (model.OrderHistory, error) {
	args := m.Called(ctx, h, items)
	out, _ := args.Get(0).(model.OrderHistory)
	return out, args.Error(1)
}

func (m *HistoryRepoMock) ListByTable(ctx context.Context, f repo.OrderHistoryFilter) ([]model.OrderHistory, error) {
	args := m.Called(ctx, f)
	hs, _ := args.Get(0).([]model.OrderHistory)
	return hs, args.Error(1)
}

func (m *HistoryRepoMock) ListItemsByHistoryIDs(ctx context.Context, historyIDs []int64) ([]model.OrderHistoryItem, error) {
	args := m.Called(ctx, historyIDs)
	items, _ := args.Get(0).([]model.OrderHistoryItem)
	return items, args.Error(1)
}

type MenuRepoMock struct{ mock.Mock }

func (m *MenuRepoMock) FindInStore(ctx context.Context, menuID int64, storeID string) (model.Menu, error) {
	args := m.Called(ctx, menuID, storeID)
	menu, _ := args.Get(0).(model.Menu)
	return menu, args.Error(1)
}

func (m *MenuRepoMock) ListByStore(ctx context.Context, q repo.MenuListQuery) ([]model.Menu, error) {
	args := m.Called(ctx, q)
	menus, _ := args.Get(0).([]model.Menu)
	return menus, args.Error(1)
}

func (m *MenuRepoMock) Update(ctx context.Context, menu model.Menu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

type AdminRepoMock struct{ mock.Mock }

func (m *AdminRepoMock) Create(ctx context.Context, a model.Admin) (model.Admin, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(model.Admin)
	return out, args.Error(1)
}

func (m *AdminRepoMock) FindByID(ctx context.Context, id int64) (model.Admin, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Admin)
	return a, args.Error(1)
}

func (m *AdminRepoMock) FindByUsername(ctx context.Context, username string) (model.Admin, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(model.Admin)
	return a, args.Error(1)
}

func (m *AdminRepoMock) List(ctx context.Context) ([]model.Admin, error) {
	args := m.Called(ctx)
	admins, _ := args.Get(0).([]model.Admin)
	return admins, args.Error(1)
}

func (m *AdminRepoMock) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type StoreRepoMock struct{ mock.Mock }

func (m *StoreRepoMock) Exists(ctx context.Context, storeID string) (bool, error) {
	args := m.Called(ctx, storeID)
	return args.Bool(0), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// ports
// =====================

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type publishedEvent struct {
	Type    string
	Payload any
}

// 発行されたイベントを記録する
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type hasherStub struct {
	hash string
	err  error
}

func (h hasherStub) Hash(string) (string, error) { return h.hash, h.err }
