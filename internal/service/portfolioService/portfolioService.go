package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/DKret94/portfolio_webapp/data/repository"
	"github.com/DKret94/portfolio_webapp/internal/converter/dbConverter"
	"github.com/DKret94/portfolio_webapp/internal/model"
	"github.com/DKret94/portfolio_webapp/internal/model/dbModel"
	"github.com/DKret94/portfolio_webapp/internal/service"
	"github.com/DKret94/portfolio_webapp/utils"
	"github.com/shopspring/decimal"
)

const (
	investorIDPrefix  = "INV"
	portfolioIDPrefix = "PORT"
	idNumberWidth     = 3
)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	AcquireIDLock(ctx context.Context, namespace string) error

	GetMaxInvestorID(ctx context.Context) (string, error)
	GetMaxPortfolioID(ctx context.Context) (string, error)
	InsertInvestor(ctx context.Context, investorID, companyName string) error
	InsertPortfolio(ctx context.Context, portfolioID, investorID string, totalValue decimal.Decimal, creationDate time.Time) error
	UpdateInvestorName(ctx context.Context, investorID, companyName string) error
	GetInvestor(ctx context.Context, investorID string) (dbModel.Investor, error)
	GetPortfoliosForInvestor(ctx context.Context, investorID string) ([]dbModel.Portfolio, error)
	DeleteInvestorCascade(ctx context.Context, investorID string) error

	GetHolding(ctx context.Context, stockID, portfolioID string) (dbModel.Holding, error)
	GetLatestStockPrice(ctx context.Context, stockID string) (dbModel.StockPrice, error)
	InsertHolding(ctx context.Context, holding dbModel.Holding) error
	AddToPortfolioTotal(ctx context.Context, portfolioID string, delta decimal.Decimal) error

	ListDemoNames(ctx context.Context) ([]string, error)
	ListInvestors(ctx context.Context) ([]dbModel.Investor, error)
	ListPortfolios(ctx context.Context) ([]dbModel.Portfolio, error)
	ListStocks(ctx context.Context) ([]dbModel.Stock, error)
	ListHoldings(ctx context.Context) ([]dbModel.Holding, error)
	ListTransactions(ctx context.Context) ([]dbModel.Transaction, error)
	ListStockPrices(ctx context.Context) ([]dbModel.StockPrice, error)
	ListRiskMetrics(ctx context.Context) ([]dbModel.RiskMetrics, error)
	ListESGScores(ctx context.Context) ([]dbModel.ESGScore, error)
	ListMacroData(ctx context.Context) ([]dbModel.MacroData, error)

	GetTopInvestorsByPnl(ctx context.Context) ([]dbModel.InvestorPnl, error)
	GetPortfolioESGCorrelation(ctx context.Context) ([]dbModel.PortfolioESG, error)
	GetBestBuys(ctx context.Context) ([]dbModel.BestBuy, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, portfolios []model.Portfolio) (fileBytes []byte, fileExtension string, err error)
}

type PortfolioService struct {
	repo            Repository
	reportGenerator ReportGenerator
}

func New(repo Repository, reportGenerator ReportGenerator) *PortfolioService {
	return &PortfolioService{
		repo:            repo,
		reportGenerator: reportGenerator,
	}
}

// CreateInvestorWithPortfolio issues the next investor and portfolio
// ids and inserts both rows in one transaction. Id generation reads the
// current maximum id under an advisory lock so concurrent creations
// cannot issue the same id.
func (s *PortfolioService) CreateInvestorWithPortfolio(ctx context.Context, companyName string) (created model.CreatedInvestor, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreateInvestorWithPortfolio"

	slog.Debug("CreateInvestorWithPortfolio start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("CreateInvestorWithPortfolio finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return model.CreatedInvestor{}, fmt.Errorf("%w: company name is required", service.ErrValidation)
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		investorID, txErr := s.nextSequentialID(ctx, investorIDPrefix, s.repo.GetMaxInvestorID)
		if txErr != nil {
			return txErr
		}

		portfolioID, txErr := s.nextSequentialID(ctx, portfolioIDPrefix, s.repo.GetMaxPortfolioID)
		if txErr != nil {
			return txErr
		}

		if txErr = s.repo.InsertInvestor(ctx, investorID, companyName); txErr != nil {
			return txErr
		}

		if txErr = s.repo.InsertPortfolio(ctx, portfolioID, investorID, decimal.Zero, time.Now()); txErr != nil {
			return txErr
		}

		created = model.CreatedInvestor{InvestorID: investorID, PortfolioID: portfolioID}
		return nil
	})
	if err != nil {
		slog.Error("CreateInvestorWithPortfolio transaction failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.CreatedInvestor{}, err
	}

	return created, nil
}

// nextSequentialID locks the namespace, reads the lexicographically
// last id, strips the prefix and increments the numeric suffix. An
// empty table starts the sequence at 1.
func (s *PortfolioService) nextSequentialID(ctx context.Context, prefix string, getMax func(ctx context.Context) (string, error)) (string, error) {
	if err := s.repo.AcquireIDLock(ctx, prefix); err != nil {
		return "", err
	}

	next := 1
	maxID, err := getMax(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	if err == nil {
		n, parseErr := strconv.Atoi(strings.TrimPrefix(maxID, prefix))
		if parseErr != nil {
			return "", fmt.Errorf("parse id %q: %w", maxID, parseErr)
		}
		next = n + 1
	}

	return fmt.Sprintf("%s%0*d", prefix, idNumberWidth, next), nil
}

func (s *PortfolioService) UpdateInvestorName(ctx context.Context, investorID, newName string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateInvestorName"

	investorID = strings.TrimSpace(investorID)
	newName = strings.TrimSpace(newName)
	if investorID == "" {
		return fmt.Errorf("%w: investor id is required", service.ErrValidation)
	}
	if newName == "" {
		return fmt.Errorf("%w: company name is required", service.ErrValidation)
	}

	if err := s.repo.UpdateInvestorName(ctx, investorID, newName); err != nil {
		slog.Error("got error from repo.UpdateInvestorName", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

// DeleteInvestor removes the investor and all dependent rows in one
// transaction. A nonexistent investor id is a no-op success.
func (s *PortfolioService) DeleteInvestor(ctx context.Context, investorID string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.DeleteInvestor"

	investorID = strings.TrimSpace(investorID)
	if investorID == "" {
		return fmt.Errorf("%w: investor id is required", service.ErrValidation)
	}

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteInvestorCascade(ctx, investorID)
	})
	if err != nil {
		slog.Error("cascade delete failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%w: %w", service.ErrDeleteFailed, err)
	}

	return nil
}

// AddHolding inserts a holdings row and bumps the owning portfolio's
// total_value by holdingCount x latest price, both in one transaction.
// The stored average_price is the caller's value, not the latest price.
func (s *PortfolioService) AddHolding(ctx context.Context, params model.AddHoldingParams) (valueAdded decimal.Decimal, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AddHolding"

	slog.Debug("AddHolding start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("AddHolding finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	required := []struct{ name, value string }{
		{"investor id", params.InvestorID},
		{"portfolio id", params.PortfolioID},
		{"stock id", params.StockID},
		{"average price", params.AveragePrice},
		{"holding count", params.HoldingCount},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return decimal.Zero, fmt.Errorf("%w: %s is required", service.ErrValidation, field.name)
		}
	}

	averagePrice, err := decimal.NewFromString(strings.TrimSpace(params.AveragePrice))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: average price must be a number", service.ErrValidation)
	}

	countFloat, err := strconv.ParseFloat(strings.TrimSpace(params.HoldingCount), 64)
	if err != nil || math.IsNaN(countFloat) || math.IsInf(countFloat, 0) {
		return decimal.Zero, fmt.Errorf("%w: holding count must be a number", service.ErrValidation)
	}
	if countFloat < 0 {
		return decimal.Zero, fmt.Errorf("%w: holding count must not be negative", service.ErrValidation)
	}
	// int(countFloat) is undefined for values past MaxInt64 and would
	// wrap negative, corrupting the portfolio total
	if countFloat >= math.MaxInt64 {
		return decimal.Zero, fmt.Errorf("%w: holding count is out of range", service.ErrValidation)
	}
	holdingCount := int(countFloat) // fractional shares round down

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		_, txErr := s.repo.GetHolding(ctx, params.StockID, params.PortfolioID)
		if txErr == nil {
			return fmt.Errorf("%w: holding already exists for this stock and portfolio", service.ErrConflict)
		}
		if !errors.Is(txErr, repository.ErrNotFound) {
			return txErr
		}

		price, txErr := s.repo.GetLatestStockPrice(ctx, params.StockID)
		if txErr != nil {
			if errors.Is(txErr, repository.ErrNotFound) {
				return fmt.Errorf("%w: no price data for stock", service.ErrNotFound)
			}
			return txErr
		}
		if !price.DailyPrice.Valid {
			return fmt.Errorf("%w: no price data for stock", service.ErrNotFound)
		}

		valueAdded = price.DailyPrice.Decimal.Mul(decimal.NewFromInt(int64(holdingCount)))

		txErr = s.repo.InsertHolding(ctx, dbModel.Holding{
			StockID:      params.StockID,
			PortfolioID:  params.PortfolioID,
			AveragePrice: averagePrice,
			HoldingCount: holdingCount,
		})
		if txErr != nil {
			if errors.Is(txErr, repository.ErrAlreadyExists) {
				return fmt.Errorf("%w: holding already exists for this stock and portfolio", service.ErrConflict)
			}
			return txErr
		}

		return s.repo.AddToPortfolioTotal(ctx, params.PortfolioID, valueAdded)
	})
	if err != nil {
		slog.Error("AddHolding failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return decimal.Zero, err
	}

	return valueAdded, nil
}

func (s *PortfolioService) GetInvestor(ctx context.Context, investorID string) (model.Investor, error) {
	investor, err := s.repo.GetInvestor(ctx, strings.TrimSpace(investorID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Investor{}, service.ErrNotFound
		}
		return model.Investor{}, err
	}
	return dbConverter.ConvertInvestor(investor), nil
}

func (s *PortfolioService) GetPortfoliosForInvestor(ctx context.Context, investorID string) ([]model.Portfolio, error) {
	portfolios, err := s.repo.GetPortfoliosForInvestor(ctx, strings.TrimSpace(investorID))
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertPortfolios(portfolios), nil
}

func (s *PortfolioService) ListDemoNames(ctx context.Context) ([]string, error) {
	return s.repo.ListDemoNames(ctx)
}

func (s *PortfolioService) ListInvestors(ctx context.Context) ([]model.Investor, error) {
	investors, err := s.repo.ListInvestors(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertInvestors(investors), nil
}

func (s *PortfolioService) ListPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	portfolios, err := s.repo.ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertPortfolios(portfolios), nil
}

func (s *PortfolioService) ListStocks(ctx context.Context) ([]model.Stock, error) {
	stocks, err := s.repo.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertStocks(stocks), nil
}

func (s *PortfolioService) ListHoldings(ctx context.Context) ([]model.Holding, error) {
	holdings, err := s.repo.ListHoldings(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertHoldings(holdings), nil
}

func (s *PortfolioService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	transactions, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertTransactions(transactions), nil
}

func (s *PortfolioService) ListStockPrices(ctx context.Context) ([]model.StockPrice, error) {
	prices, err := s.repo.ListStockPrices(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertStockPrices(prices), nil
}

func (s *PortfolioService) ListRiskMetrics(ctx context.Context) ([]model.RiskMetrics, error) {
	metrics, err := s.repo.ListRiskMetrics(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertRiskMetrics(metrics), nil
}

func (s *PortfolioService) ListESGScores(ctx context.Context) ([]model.ESGScore, error) {
	scores, err := s.repo.ListESGScores(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertESGScores(scores), nil
}

func (s *PortfolioService) ListMacroData(ctx context.Context) ([]model.MacroData, error) {
	rows, err := s.repo.ListMacroData(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertMacroData(rows), nil
}

func (s *PortfolioService) GetTopInvestorsByPnl(ctx context.Context) ([]model.InvestorPnl, error) {
	rows, err := s.repo.GetTopInvestorsByPnl(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertInvestorPnls(rows), nil
}

func (s *PortfolioService) GetPortfolioESGCorrelation(ctx context.Context) ([]model.PortfolioESG, error) {
	rows, err := s.repo.GetPortfolioESGCorrelation(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertPortfolioESGs(rows), nil
}

func (s *PortfolioService) GetBestBuys(ctx context.Context) ([]model.BestBuy, error) {
	rows, err := s.repo.GetBestBuys(ctx)
	if err != nil {
		return nil, err
	}
	return dbConverter.ConvertBestBuys(rows), nil
}

// GeneratePortfoliosReport renders the full portfolio listing as a
// downloadable workbook.
func (s *PortfolioService) GeneratePortfoliosReport(ctx context.Context) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GeneratePortfoliosReport"

	portfolios, err := s.ListPortfolios(ctx)
	if err != nil {
		slog.Error("got error from ListPortfolios", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	return s.reportGenerator.Generate(ctx, portfolios)
}
