package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/adapter/http"
	appmw "github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/adapter/middleware"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/adapter/repository/mysql"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/config"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/loanrequest"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/transaction"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/domain/user"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/fiat"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/notify"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/gateway/settlement"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/infrastructure/cache"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/infrastructure/db"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/account"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/borrow"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/credit"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/lend"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/usecase/payment"
	"github.com/balakrishna0457/P2P-Money-lendind-using-Blockchain/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(&user.Account{}, &loanrequest.LoanRequest{}, &transaction.Record{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.SettlementTimeout)
	gw, err := settlement.Dial(dialCtx, cfg.EthRPCURL, cfg.ContractAddress, cfg.PrivateKey, cfg.ChainID)
	cancel()
	if err != nil {
		log.Fatalf("settlement: %v", err)
	}
	defer gw.Close()

	// repositories and unit of work
	loans := mysql.NewLoanRequestRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	txns := mysql.NewTransactionRepository(gdb)
	unit := mysql.NewGormUoW(gdb)

	rates := fiat.NewCachedRateSource(fiat.NewCoinGecko(cfg.CoinGeckoURL), rdb, cfg.RateCacheTTL)
	notifier := notify.NewLogNotifier()

	// usecases; every ledger call is bounded so a hung RPC cannot wedge a
	// locked loan row
	borrowUC := borrow.NewUsecase(unit, loans, txns, gw).WithSettlementTimeout(cfg.SettlementTimeout)
	lendUC := lend.NewUsecase(unit, loans, gw).WithSettlementTimeout(cfg.SettlementTimeout)
	paymentUC := payment.NewUsecase(unit, gw, rates).WithSettlementTimeout(cfg.SettlementTimeout)
	creditUC := credit.NewUsecase(users, loans)
	accountUC := account.NewUsecase(users)

	// background default detection and payment reminders
	detector := worker.NewDetector(loans, users, lendUC, notifier, cfg.DetectorInterval)
	go detector.Run(ctx)

	// handlers
	h := httpadp.NewHandler()
	borrowH := httpadp.NewBorrowHandler(borrowUC)
	lendH := httpadp.NewLendHandler(lendUC)
	paymentH := httpadp.NewPaymentHandler(paymentUC)
	creditH := httpadp.NewCreditHandler(creditUC)
	accountH := httpadp.NewAccountHandler(accountUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.GET("/api/payment/exchange-rate", paymentH.ExchangeRate)

	api := e.Group("/api",
		appmw.JWTAuth(cfg.JWTSecret, users),
		appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	)

	api.POST("/borrow/requests", borrowH.CreateRequest)
	api.GET("/borrow/requests", borrowH.ListPending)
	api.GET("/borrow/my-requests", borrowH.MyRequests)
	api.GET("/borrow/requests/:request_id", borrowH.GetRequest)
	api.PUT("/borrow/requests/:request_id/cancel", borrowH.CancelRequest)
	api.GET("/borrow/requests/:request_id/schedule", borrowH.Schedule)
	api.GET("/borrow/requests/:request_id/transactions", borrowH.Transactions)

	api.POST("/lend/requests/:request_id/accept", lendH.AcceptRequest)
	api.GET("/lend/history", lendH.History)
	api.POST("/lend/loans/:request_id/default", lendH.MarkDefault)

	api.POST("/payment/loans/:request_id/installment", paymentH.PayInstallment)

	api.GET("/credit/score", creditH.Score)
	api.GET("/credit/history", creditH.History)
	api.POST("/credit/refresh", creditH.Refresh)

	api.GET("/user/profile", accountH.Profile)
	api.PUT("/user/profile", accountH.UpdateProfile)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
