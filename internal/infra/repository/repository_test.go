package repository

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"tableorder/internal/domain/model"
	"tableorder/internal/infra/db/dbtest"
	repo "tableorder/internal/repository"
	"tableorder/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// コンテナが起動できない環境ではnilのまま（各テストはskip）
var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	gdb, stop, err := dbtest.Start(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "postgres container unavailable:", err)
		os.Exit(m.Run())
	}
	testDB = gdb

	code := m.Run()
	stop()
	os.Exit(code)
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres container is not available")
	}
	require.NoError(t, dbtest.Truncate(testDB))
	return testDB
}

const (
	storeA = "11111111-1111-4111-8111-111111111111"
	storeB = "22222222-2222-4222-8222-222222222222"
)

type seeded struct {
	tableA model.Table
	tableB model.Table
	drinks model.MenuCategory
	coffee model.Menu
	toast  model.Menu
	other  model.Menu
}

// 店舗A/Bにテーブルとメニューを用意する
func seed(t *testing.T, gdb *gorm.DB) seeded {
	t.Helper()
	s := seeded{}

	require.NoError(t, gdb.Create(&model.Store{ID: storeA, Name: "A"}).Error)
	require.NoError(t, gdb.Create(&model.Store{ID: storeB, Name: "B"}).Error)

	s.tableA = model.Table{StoreID: storeA, TableNumber: "1", PasswordHash: "x"}
	s.tableB = model.Table{StoreID: storeB, TableNumber: "1", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&s.tableA).Error)
	require.NoError(t, gdb.Create(&s.tableB).Error)

	s.drinks = model.MenuCategory{StoreID: storeA, Name: "Drinks"}
	require.NoError(t, gdb.Create(&s.drinks).Error)
	food := model.MenuCategory{StoreID: storeA, Name: "Food", DisplayOrder: 1}
	require.NoError(t, gdb.Create(&food).Error)
	otherCat := model.MenuCategory{StoreID: storeB, Name: "Drinks"}
	require.NoError(t, gdb.Create(&otherCat).Error)

	s.coffee = model.Menu{CategoryID: s.drinks.ID, Name: "Coffee", Price: 1250, IsAvailable: true}
	s.toast = model.Menu{CategoryID: food.ID, Name: "Toast", Price: 800, IsAvailable: true}
	s.other = model.Menu{CategoryID: otherCat.ID, Name: "Soda", Price: 300, IsAvailable: true}
	require.NoError(t, gdb.Create(&s.coffee).Error)
	require.NoError(t, gdb.Create(&s.toast).Error)
	require.NoError(t, gdb.Create(&s.other).Error)
	return s
}

func TestTableSession_OneActivePerTable(t *testing.T) {
	gdb := setupDB(t)
	s := seed(t, gdb)
	ctx := context.Background()
	sessions := NewTableSessionGormRepository(gdb)

	start := time.Now().UTC().Truncate(time.Second)
	first, err := sessions.Create(ctx, model.TableSession{TableID: s.tableA.ID, StartedAt: start, IsActive: true})
	require.NoError(t, err)

	_, err = sessions.Create(ctx, model.TableSession{TableID: s.tableA.ID, StartedAt: start, IsActive: true})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	//別テーブルは影響しない
	_, err = sessions.Create(ctx, model.TableSession{TableID: s.tableB.ID, StartedAt: start, IsActive: true})
	require.NoError(t, err)

	first.End(start.Add(time.Hour))
	require.NoError(t, sessions.End(ctx, first))
	assert.ErrorIs(t, sessions.End(ctx, first), repo.ErrNotFound)

	_, err = sessions.FindActiveByTableID(ctx, s.tableA.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	second, err := sessions.Create(ctx, model.TableSession{TableID: s.tableA.ID, StartedAt: start.Add(time.Hour), IsActive: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTxManager_RollbackOnError(t *testing.T) {
	gdb := setupDB(t)
	s := seed(t, gdb)
	ctx := context.Background()
	tm := NewTxManagerGorm(gdb)

	session, err := NewTableSessionGormRepository(gdb).Create(ctx, model.TableSession{TableID: s.tableA.ID, StartedAt: time.Now(), IsActive: true})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tm.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().Create(ctx, model.Order{TableSessionID: session.ID, Status: model.OrderStatusPending, TotalPrice: 1250})
		if err != nil {
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, o.ID, []model.OrderItem{
			{MenuID: s.coffee.ID, MenuName: "Coffee", Quantity: 1, UnitPrice: 1250, Subtotal: 1250},
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, err := NewOrderGormRepository(gdb).ListBySessionID(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrders_ListNewestFirstAndItemsGrouped(t *testing.T) {
	gdb := setupDB(t)
	s := seed(t, gdb)
	ctx := context.Background()
	orders := NewOrderGormRepository(gdb)
	items := NewOrderItemGormRepository(gdb)

	session, err := NewTableSessionGormRepository(gdb).Create(ctx, model.TableSession{TableID: s.tableA.ID, StartedAt: time.Now(), IsActive: true})
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Second)
	o1, err := orders.Create(ctx, model.Order{TableSessionID: session.ID, Status: model.OrderStatusPending, TotalPrice: 1250, CreatedAt: base, UpdatedAt: base})
	require.NoError(t, err)
	o2, err := orders.Create(ctx, model.Order{TableSessionID: session.ID, Status: model.OrderStatusPending, TotalPrice: 1600, CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)})
	require.NoError(t, err)

	require.NoError(t, items.CreateBulk(ctx, o1.ID, []model.OrderItem{
		{MenuID: s.coffee.ID, MenuName: "Coffee", Quantity: 1, UnitPrice: 1250, Subtotal: 1250},
	}))
	require.NoError(t, items.CreateBulk(ctx, o2.ID, []model.OrderItem{
		{MenuID: s.toast.ID, MenuName: "Toast", Quantity: 2, UnitPrice: 800, Subtotal: 1600},
	}))

	list, err := orders.ListBySessionID(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, o2.ID, list[0].ID)

	grouped, err := items.ListByOrderIDs(ctx, []int64{o1.ID, o2.ID})
	require.NoError(t, err)
	require.Len(t, grouped[o2.ID], 1)
	assert.Equal(t, "Toast", grouped[o2.ID][0].MenuName)

	require.NoError(t, orders.UpdateStatus(ctx, o1.ID, model.OrderStatusPreparing, base.Add(2*time.Minute)))
	locked, err := orders.FindByIDForUpdate(ctx, o1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, locked.Status)

	require.NoError(t, items.DeleteByOrderID(ctx, o1.ID))
	require.NoError(t, orders.Delete(ctx, o1.ID))
	assert.ErrorIs(t, orders.Delete(ctx, o1.ID), repo.ErrNotFound)
}

// ステータス更新txが行を持っている間、アーカイブ側の一覧は待たされ、commit後の値を読む
func TestOrders_ListForUpdateWaitsForStatusChange(t *testing.T) {
	gdb := setupDB(t)
	s := seed(t, gdb)
	ctx := context.Background()

	session, err := NewTableSessionGormRepository(gdb).Create(ctx, model.TableSession{TableID: s.tableA.ID, StartedAt: time.Now(), IsActive: true})
	require.NoError(t, err)
	now := time.Now().UTC()
	o, err := NewOrderGormRepository(gdb).Create(ctx, model.Order{TableSessionID: session.ID, Status: model.OrderStatusPending, TotalPrice: 1250, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	updater := gdb.Begin()
	require.NoError(t, updater.Error)
	defer updater.Rollback()
	_, err = NewOrderGormRepository(updater).FindByIDForUpdate(ctx, o.ID)
	require.NoError(t, err)
	require.NoError(t, NewOrderGormRepository(updater).UpdateStatus(ctx, o.ID, model.OrderStatusPreparing, now))

	type listResult struct {
		orders []model.Order
		err    error
	}
	done := make(chan listResult, 1)
	go func() {
		var res listResult
		_ = gdb.Transaction(func(tx *gorm.DB) error {
			res.orders, res.err = NewOrderGormRepository(tx).ListBySessionIDForUpdate(ctx, session.ID)
			return res.err
		})
		done <- res
	}()

	select {
	case <-done:
		t.Fatal("locked listing returned while the order row was held")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, updater.Commit().Error)

	select {
	case res := <-done:
		require.NoError(t, res.err)
		require.Len(t, res.orders, 1)
		assert.Equal(t, model.OrderStatusPreparing, res.orders[0].Status)
	case <-time.After(10 * time.Second):
		t.Fatal("locked listing did not finish after commit")
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) {}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// 同じセッションへの注文作成と会計を同時に走らせる
func TestCreateOrderAndCompleteSession_Serialized(t *testing.T) {
	gdb := setupDB(t)
	s := seed(t, gdb)
	ctx := context.Background()

	txm := NewTxManagerGorm(gdb)
	orderUC := usecase.NewOrderUsecase(txm, nopPublisher{}, wallClock{})
	sessionUC := usecase.NewTableSessionUsecase(txm, wallClock{})
	sessions := NewTableSessionGormRepository(gdb)
	actor := usecase.Actor{AdminID: 1, StoreID: storeA}

	for i := 0; i < 20; i++ {
		session, err := sessions.Create(ctx, model.TableSession{TableID: s.tableA.ID, StartedAt: time.Now().Add(-time.Minute), IsActive: true})
		require.NoError(t, err)

		var (
			wg          sync.WaitGroup
			created     usecase.OrderOutput
			createErr   error
			completed   usecase.CompleteSessionOutput
			completeErr error
		)
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			created, createErr = orderUC.CreateOrder(ctx, session.ID, usecase.CreateOrderInput{
				Items: []usecase.OrderLineInput{{MenuID: s.coffee.ID, Quantity: 1}},
			})
		}()
		go func() {
			defer wg.Done()
			<-start
			completed, completeErr = sessionUC.CompleteSession(ctx, actor, s.tableA.ID)
		}()
		close(start)
		wg.Wait()

		require.NoError(t, completeErr)
		assert.False(t, completed.Session.IsActive)

		var archived int64
		if createErr != nil {
			//会計が先：注文は作られない
			assert.ErrorIs(t, createErr, usecase.ErrSessionNotFound)
			assert.Equal(t, 0, completed.ArchivedOrdersCount)
		} else {
			//注文が先：履歴に移っている
			assert.Equal(t, 1, completed.ArchivedOrdersCount)
			require.NoError(t, gdb.Model(&model.OrderHistory{}).
				Where("table_session_id = ? AND original_order_id = ?", session.ID, created.ID).
				Count(&archived).Error)
			assert.Equal(t, int64(1), archived)
		}

		live, err := NewOrderGormRepository(gdb).ListBySessionID(ctx, session.ID)
		require.NoError(t, err)
		assert.Empty(t, live, "closed session must not keep live orders")
	}
}

func TestOrderHistory_OnlyEndedSessionsInRange(t *testing.T) {
	gdb := setupDB(t)
	s := seed(t, gdb)
	ctx := context.Background()
	sessions := NewTableSessionGormRepository(gdb)
	histories := NewOrderHistoryGormRepository(gdb)

	day1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	ended, err := sessions.Create(ctx, model.TableSession{TableID: s.tableA.ID, StartedAt: day1.Add(-time.Hour), IsActive: true})
	require.NoError(t, err)

	menuID := s.coffee.ID
	h1, err := histories.Create(ctx, model.OrderHistory{
		TableSessionID: ended.ID, OriginalOrderID: 1, Status: model.OrderStatusServed, TotalPrice: 1250,
		OrderCreatedAt: day1.Add(-time.Hour), ArchivedAt: day1,
	}, []model.OrderHistoryItem{{MenuID: &menuID, MenuName: "Coffee", Quantity: 1, UnitPrice: 1250, Subtotal: 1250}})
	require.NoError(t, err)
	h2, err := histories.Create(ctx, model.OrderHistory{
		TableSessionID: ended.ID, OriginalOrderID: 2, Status: model.OrderStatusPending, TotalPrice: 800,
		OrderCreatedAt: day2.Add(-time.Hour), ArchivedAt: day2,
	}, nil)
	require.NoError(t, err)

	//まだactiveなので履歴に出ない
	all, err := histories.ListByTable(ctx, repo.OrderHistoryFilter{TableID: s.tableA.ID})
	require.NoError(t, err)
	assert.Empty(t, all)

	ended.End(day2)
	require.NoError(t, sessions.End(ctx, ended))

	all, err = histories.ListByTable(ctx, repo.OrderHistoryFilter{TableID: s.tableA.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, h2.ID, all[0].ID)

	to := day1.Add(time.Hour)
	ranged, err := histories.ListByTable(ctx, repo.OrderHistoryFilter{TableID: s.tableA.ID, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, h1.ID, ranged[0].ID)

	hItems, err := histories.ListItemsByHistoryIDs(ctx, []int64{h1.ID, h2.ID})
	require.NoError(t, err)
	require.Len(t, hItems, 1)
	assert.Equal(t, h1.ID, hItems[0].OrderHistoryID)
}

func TestMenus_StoreScoped(t *testing.T) {
	gdb := setupDB(t)
	s := seed(t, gdb)
	ctx := context.Background()
	menus := NewMenuGormRepository(gdb)

	_, err := menus.FindInStore(ctx, s.other.ID, storeA)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	list, err := menus.ListByStore(ctx, repo.MenuListQuery{StoreID: storeA})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Coffee", list[0].Name)

	cat := s.drinks.ID
	list, err = menus.ListByStore(ctx, repo.MenuListQuery{StoreID: storeA, CategoryID: &cat})
	require.NoError(t, err)
	require.Len(t, list, 1)

	m := s.coffee
	m.SetPrice(1400)
	m.SetAvailable(false)
	require.NoError(t, menus.Update(ctx, m))

	got, err := menus.FindInStore(ctx, s.coffee.ID, storeA)
	require.NoError(t, err)
	assert.Equal(t, model.Money(1400), got.Price)
	assert.False(t, got.IsAvailable)
}

func TestAdmins_DuplicateAndActivation(t *testing.T) {
	gdb := setupDB(t)
	seed(t, gdb)
	ctx := context.Background()
	admins := NewAdminGormRepository(gdb)
	stores := NewStoreGormRepository(gdb)

	storeID := storeA
	a, err := admins.Create(ctx, model.Admin{StoreID: &storeID, Username: "alice", PasswordHash: "h", Role: model.AdminRoleStore, IsActive: true})
	require.NoError(t, err)

	_, err = admins.Create(ctx, model.Admin{StoreID: &storeID, Username: "alice", PasswordHash: "h", Role: model.AdminRoleStore, IsActive: true})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	require.NoError(t, admins.SetActive(ctx, a.ID, false))
	got, err := admins.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, admins.SetActive(ctx, 9999, true), repo.ErrNotFound)

	ok, err := stores.Exists(ctx, storeA)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = stores.Exists(ctx, "33333333-3333-4333-8333-333333333333")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuditLogs_CreateAndFilter(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()
	logs := NewAuditLogGormRepository(gdb)

	now := time.Now().UTC()
	require.NoError(t, logs.Create(ctx, model.AuditLog{ActorAdminID: 7, Action: model.AuditActionDeleteOrder, ResourceType: model.AuditResourceOrder, ResourceID: 10, BeforeJSON: "{}", AfterJSON: "{}", CreatedAt: now}))
	require.NoError(t, logs.Create(ctx, model.AuditLog{ActorAdminID: 8, Action: model.AuditActionUpdateMenu, ResourceType: model.AuditResourceMenu, ResourceID: 1, BeforeJSON: "{}", AfterJSON: "{}", CreatedAt: now}))

	require.NoError(t, logs.Create(ctx, model.AuditLog{ActorAdminID: 7, Action: model.AuditActionCompleteSession, ResourceType: model.AuditResourceTableSession, ResourceID: 5, BeforeJSON: "{}", AfterJSON: "{}", CreatedAt: now.Add(time.Minute)}))

	actor := int64(7)
	got, err := logs.List(ctx, repo.AuditLogFilter{ActorAdminID: &actor})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.AuditActionCompleteSession, got[0].Action)

	action := model.AuditActionDeleteOrder
	got, err = logs.List(ctx, repo.AuditLogFilter{ActorAdminID: &actor, Action: &action})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].ResourceID)

	//同時刻はidの新しい順
	got, err = logs.List(ctx, repo.AuditLogFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(8), got[0].ActorAdminID)
}
