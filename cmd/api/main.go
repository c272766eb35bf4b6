package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableorder/internal/config"
	"tableorder/internal/handler"
	"tableorder/internal/infra/db"
	"tableorder/internal/infra/eventbus"
	"tableorder/internal/infra/eventsink"
	"tableorder/internal/infra/logger"
	infraRepo "tableorder/internal/infra/repository"
	"tableorder/internal/infra/sse"
	"tableorder/internal/infra/token"
	"tableorder/internal/server"
	"tableorder/internal/usecase"
	auth "tableorder/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//イベントバス（外部sinkは任意）
	sink, err := eventsink.Open(cfg, log)
	if err != nil {
		return err
	}
	var busOpts []eventbus.Option
	if sink != nil {
		busOpts = append(busOpts, eventbus.WithSink(sink))
	}
	bus := eventbus.New(log, busOpts...)

	//SSE
	publisher := sse.NewPublisher(log, cfg.SSEQueueSize, cfg.SSEHeartbeat)
	detach, err := publisher.Attach(bus)
	if err != nil {
		return err
	}

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	menuRepo := infraRepo.NewMenuGormRepository(gormDB)
	adminRepo := infraRepo.NewAdminGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)

	//Usecase生成
	loginUC := auth.NewLoginUsecase(txm, verifier, issuer, clock)
	orderUC := usecase.NewOrderUsecase(txm, bus, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, bus, clock)
	sessionUC := usecase.NewTableSessionUsecase(txm, clock)
	menuUC := usecase.NewMenuUsecase(txm, menuRepo, clock)
	adminAccountUC := usecase.NewAdminAccountUsecase(txm, hasher, clock)
	auditLogUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成
	e := server.New(cfg, log, server.Deps{
		Auth:       handler.NewAuthHandler(loginUC),
		Order:      handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
		Menu:       handler.NewMenuHandler(menuUC),
		Table:      handler.NewTableHandler(sessionUC),
		SSE:        handler.NewSSEHandler(publisher, log),
		SuperAdmin: handler.NewSuperAdminHandler(adminAccountUC),
		AuditLog:   handler.NewAuditLogHandler(auditLogUC),
		Admins:     adminRepo,
	})

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	//SSEの接続はShutdownを待たせるので先に閉じる
	go func() {
		<-ctx.Done()
		publisher.Close()
	}()
	serveErr := server.Run(ctx, e, addr, log)

	//発行済みイベントを流し切ってから終了
	detach()
	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bus.Close(closeCtx); err != nil {
		log.Warn("eventbus close timed out", zap.Error(err))
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return serveErr
}
