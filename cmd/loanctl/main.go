package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/dto"
	"github.com/crediario/loan-engine/internal/application/usecase"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/infrastructure/calendar"
	"github.com/crediario/loan-engine/internal/infrastructure/config"
	"github.com/crediario/loan-engine/internal/infrastructure/messaging"
	pgRepo "github.com/crediario/loan-engine/internal/infrastructure/persistence/postgres"
	pkgkafka "github.com/crediario/loan-engine/pkg/kafka"
	"github.com/crediario/loan-engine/pkg/observability"
	pkgpostgres "github.com/crediario/loan-engine/pkg/postgres"
)

const usage = `usage: loanctl <command> < request.json

Commands read a JSON request from stdin and print the JSON response.

  create      originate a loan
  simulate    run the contract math without persisting
  solve-rate  compute the rate implied by a target total
  pay         apply a payment (kinds: full, partial, advance, interest_only)
  settle      pay off every open installment
  discount    forgive part of the outstanding balance
  reverse     undo a recorded payment
  penalties   assess overdue charges for one loan
  quote       live receivable position of a loan
  score       recompute a borrower's credit score
  get         fetch a loan with its ledger
  cancel      void an active contract
  advance     flag a contract as renegotiated
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	_ = godotenv.Load()
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pkgpostgres.NewPool(ctx, pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		fatal("connect to database", err)
	}
	defer pool.Close()

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers})
	defer kafkaProducer.Close()

	year := time.Now().UTC().Year()
	holidays, err := calendar.BuildHolidaySet(year-1, year+10, cfg.HolidayFile)
	if err != nil {
		fatal("load holidays", err)
	}

	loanRepo := pgRepo.NewLoanRepo(pool)
	scoreRepo := pgRepo.NewScoreRepo(pool)
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, "loan-events", logger)

	adjuster := service.NewCalendarAdjuster(holidays)
	scheduleGen := service.NewScheduleGenerator(adjuster)
	interestCalc := service.NewInterestCalculator()
	penaltyEngine := service.NewPenaltyEngine()
	scoreEngine := service.NewScoreEngine(service.DefaultScoreParams())
	loanCache := cache.NewLoanCache(cfg.CacheTTL)

	var out any
	switch command {
	case "create":
		out, err = run(ctx, usecase.NewCreateLoanUseCase(loanRepo, publisher, scheduleGen, interestCalc).Execute, dto.CreateLoanRequest{})
	case "simulate":
		out, err = run(ctx, usecase.NewSimulateLoanUseCase(scheduleGen, interestCalc).Execute, dto.SimulateLoanRequest{})
	case "solve-rate":
		out, err = run(ctx, usecase.NewSolveRateUseCase(interestCalc).Execute, dto.SolveRateRequest{})
	case "pay":
		out, err = run(ctx, usecase.NewApplyPaymentUseCase(loanRepo, publisher, loanCache).Execute, dto.ApplyPaymentRequest{})
	case "settle":
		out, err = run(ctx, usecase.NewSettleLoanUseCase(loanRepo, publisher, loanCache).Execute, dto.SettleLoanRequest{})
	case "discount":
		out, err = run(ctx, usecase.NewApplyDiscountUseCase(loanRepo, publisher, loanCache).Execute, dto.ApplyDiscountRequest{})
	case "reverse":
		out, err = run(ctx, usecase.NewReversePaymentUseCase(loanRepo, publisher, loanCache).Execute, dto.ReversePaymentRequest{})
	case "penalties":
		out, err = run(ctx, usecase.NewApplyPenaltiesUseCase(loanRepo, publisher, penaltyEngine, loanCache).Execute, dto.ApplyPenaltiesRequest{})
	case "quote":
		out, err = run(ctx, usecase.NewQuoteLoanUseCase(loanRepo, loanCache).Execute, dto.QuoteLoanRequest{})
	case "score":
		out, err = run(ctx, usecase.NewComputeScoreUseCase(loanRepo, scoreRepo, publisher, scoreEngine).Execute, dto.ComputeScoreRequest{})
	case "get":
		out, err = run(ctx, usecase.NewGetLoanUseCase(loanRepo, loanCache).Execute, dto.GetLoanRequest{})
	case "cancel":
		out, err = run(ctx, usecase.NewCancelLoanUseCase(loanRepo, loanCache).Execute, dto.GetLoanRequest{})
	case "advance":
		out, err = run(ctx, usecase.NewAdvanceLoanUseCase(loanRepo, loanCache).Execute, dto.GetLoanRequest{})
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fatal(command, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal("encode response", err)
	}
}

// run decodes the stdin request into req's type and executes the use case.
func run[Req, Resp any](
	ctx context.Context,
	execute func(context.Context, Req) (Resp, error),
	req Req,
) (any, error) {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return execute(ctx, req)
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "loanctl: %s: %v\n", what, err)
	os.Exit(1)
}
