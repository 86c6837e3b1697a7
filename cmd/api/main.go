package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "creditunion-backoffice/internal/adapter/http"
	mw "creditunion-backoffice/internal/adapter/middleware"
	"creditunion-backoffice/internal/adapter/repository/mysql"
	"creditunion-backoffice/internal/config"
	"creditunion-backoffice/internal/domain/ledger"
	"creditunion-backoffice/internal/domain/loan"
	"creditunion-backoffice/internal/domain/repayment"
	"creditunion-backoffice/internal/infrastructure/cache"
	"creditunion-backoffice/internal/infrastructure/db"
	"creditunion-backoffice/internal/infrastructure/paystack"
	ledgeruc "creditunion-backoffice/internal/usecase/ledger"
	loanuc "creditunion-backoffice/internal/usecase/loan"
	paymentuc "creditunion-backoffice/internal/usecase/payment"
	repaymentuc "creditunion-backoffice/internal/usecase/repayment"
	summaryuc "creditunion-backoffice/internal/usecase/summary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(&loan.Loan{}, &repayment.Repayment{}, &ledger.Transaction{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(context.Background(), cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	// repositories + usecases
	loans := mysql.NewLoanRepository(gdb)
	repayments := mysql.NewRepaymentRepository(gdb)
	ledgerRepo := mysql.NewLedgerRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	loanUC := loanuc.NewUsecase(loans, tx)
	repaymentUC := repaymentuc.NewUsecase(repayments, loans, tx)
	summaryUC := summaryuc.NewUsecase(loans, repayments)
	ledgerUC := ledgeruc.NewUsecase(ledgerRepo)
	paymentUC := paymentuc.NewUsecase(
		paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL, cfg.PaystackCallbackURL),
		ledgerRepo,
	)

	h := httpadp.NewHandler(map[string]httpadp.Pinger{
		"mysql": sqlDB.PingContext,
		"redis": cache.Ping(rdb),
	})
	loanH := httpadp.NewLoanHandler(loanUC)
	repaymentH := httpadp.NewRepaymentHandler(repaymentUC)
	summaryH := httpadp.NewSummaryHandler(summaryUC, ledgerUC)
	paymentH := httpadp.NewPaymentHandler(paymentUC)
	transactionH := httpadp.NewTransactionHandler(ledgerUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	e.GET("/health", h.Health)

	api := e.Group("/api",
		mw.AuthMiddleware([]byte(cfg.JWTSecret)),
		mw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL()),
	)

	api.POST("/loans", loanH.RequestLoan)
	api.GET("/loans", loanH.ListOpenLoans)
	api.GET("/loans/active", loanH.GetActiveLoan)
	api.GET("/loans/pending", loanH.GetPendingLoan)
	api.GET("/loans/history", loanH.GetLoanHistory)
	api.GET("/loans/all", loanH.ListMemberLoans)
	api.GET("/loans/summary", summaryH.GetLoanSummary)
	api.GET("/loans/:loan_id", loanH.GetLoan)
	api.POST("/loans/:loan_id/approve", loanH.ApproveLoan)
	api.POST("/loans/:loan_id/reject", loanH.RejectLoan)
	api.POST("/loans/:loan_id/cancel", loanH.CancelLoan)
	api.GET("/loans/:loan_id/repayments", repaymentH.ListLoanRepayments)

	api.POST("/repayments", repaymentH.RecordRepayment)
	api.GET("/repayments", repaymentH.ListRepayments)

	api.POST("/transactions", transactionH.RecordTransaction)
	api.GET("/transactions", transactionH.ListTransactions)
	api.GET("/transactions/:id", transactionH.GetTransaction)

	api.GET("/dashboard", summaryH.GetDashboard)

	api.POST("/payments/initiate", paymentH.InitiatePayment)
	api.GET("/payments/verify", paymentH.VerifyPayment)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
