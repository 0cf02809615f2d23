package portfolioService

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DKret94/portfolio_webapp/data/repository"
	"github.com/DKret94/portfolio_webapp/internal/model"
	"github.com/DKret94/portfolio_webapp/internal/model/dbModel"
	"github.com/DKret94/portfolio_webapp/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	maxInvestorID  string
	maxPortfolioID string

	existingHolding bool
	latestPrice     dbModel.StockPrice
	latestPriceErr  error
	cascadeErr      error

	insertedInvestorID   string
	insertedCompanyName  string
	insertedPortfolioID  string
	insertedPortfolioVal decimal.Decimal
	insertedHolding      *dbModel.Holding
	totalDelta           *decimal.Decimal
	deletedInvestorID    string
	lockedNamespaces     []string
	txCount              int
}

func (f *fakeRepo) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	f.txCount++
	return tFunc(ctx)
}

func (f *fakeRepo) AcquireIDLock(ctx context.Context, namespace string) error {
	f.lockedNamespaces = append(f.lockedNamespaces, namespace)
	return nil
}

func (f *fakeRepo) GetMaxInvestorID(ctx context.Context) (string, error) {
	if f.maxInvestorID == "" {
		return "", repository.ErrNotFound
	}
	return f.maxInvestorID, nil
}

func (f *fakeRepo) GetMaxPortfolioID(ctx context.Context) (string, error) {
	if f.maxPortfolioID == "" {
		return "", repository.ErrNotFound
	}
	return f.maxPortfolioID, nil
}

func (f *fakeRepo) InsertInvestor(ctx context.Context, investorID, companyName string) error {
	f.insertedInvestorID = investorID
	f.insertedCompanyName = companyName
	return nil
}

func (f *fakeRepo) InsertPortfolio(ctx context.Context, portfolioID, investorID string, totalValue decimal.Decimal, creationDate time.Time) error {
	f.insertedPortfolioID = portfolioID
	f.insertedPortfolioVal = totalValue
	return nil
}

func (f *fakeRepo) UpdateInvestorName(ctx context.Context, investorID, companyName string) error {
	return nil
}

func (f *fakeRepo) GetInvestor(ctx context.Context, investorID string) (dbModel.Investor, error) {
	return dbModel.Investor{}, repository.ErrNotFound
}

func (f *fakeRepo) GetPortfoliosForInvestor(ctx context.Context, investorID string) ([]dbModel.Portfolio, error) {
	return nil, nil
}

func (f *fakeRepo) DeleteInvestorCascade(ctx context.Context, investorID string) error {
	if f.cascadeErr != nil {
		return f.cascadeErr
	}
	f.deletedInvestorID = investorID
	return nil
}

func (f *fakeRepo) GetHolding(ctx context.Context, stockID, portfolioID string) (dbModel.Holding, error) {
	if f.existingHolding {
		return dbModel.Holding{StockID: stockID, PortfolioID: portfolioID}, nil
	}
	return dbModel.Holding{}, repository.ErrNotFound
}

func (f *fakeRepo) GetLatestStockPrice(ctx context.Context, stockID string) (dbModel.StockPrice, error) {
	if f.latestPriceErr != nil {
		return dbModel.StockPrice{}, f.latestPriceErr
	}
	return f.latestPrice, nil
}

func (f *fakeRepo) InsertHolding(ctx context.Context, holding dbModel.Holding) error {
	f.insertedHolding = &holding
	return nil
}

func (f *fakeRepo) AddToPortfolioTotal(ctx context.Context, portfolioID string, delta decimal.Decimal) error {
	f.totalDelta = &delta
	return nil
}

func (f *fakeRepo) ListDemoNames(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeRepo) ListInvestors(ctx context.Context) ([]dbModel.Investor, error) {
	return nil, nil
}
func (f *fakeRepo) ListPortfolios(ctx context.Context) ([]dbModel.Portfolio, error) {
	return nil, nil
}
func (f *fakeRepo) ListStocks(ctx context.Context) ([]dbModel.Stock, error)       { return nil, nil }
func (f *fakeRepo) ListHoldings(ctx context.Context) ([]dbModel.Holding, error)   { return nil, nil }
func (f *fakeRepo) ListTransactions(ctx context.Context) ([]dbModel.Transaction, error) {
	return nil, nil
}
func (f *fakeRepo) ListStockPrices(ctx context.Context) ([]dbModel.StockPrice, error) {
	return nil, nil
}
func (f *fakeRepo) ListRiskMetrics(ctx context.Context) ([]dbModel.RiskMetrics, error) {
	return nil, nil
}
func (f *fakeRepo) ListESGScores(ctx context.Context) ([]dbModel.ESGScore, error) { return nil, nil }
func (f *fakeRepo) ListMacroData(ctx context.Context) ([]dbModel.MacroData, error) {
	return nil, nil
}
func (f *fakeRepo) GetTopInvestorsByPnl(ctx context.Context) ([]dbModel.InvestorPnl, error) {
	return nil, nil
}
func (f *fakeRepo) GetPortfolioESGCorrelation(ctx context.Context) ([]dbModel.PortfolioESG, error) {
	return nil, nil
}
func (f *fakeRepo) GetBestBuys(ctx context.Context) ([]dbModel.BestBuy, error) { return nil, nil }

type fakeReportGenerator struct{}

func (f *fakeReportGenerator) Generate(ctx context.Context, portfolios []model.Portfolio) ([]byte, string, error) {
	return []byte("report"), ".xlsx", nil
}

func newService(repo *fakeRepo) *PortfolioService {
	return New(repo, &fakeReportGenerator{})
}

func validPrice(value string) dbModel.StockPrice {
	return dbModel.StockPrice{
		StockID:    "AAPL_ID",
		PriceDate:  time.Now(),
		DailyPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString(value), Valid: true},
	}
}

func TestCreateInvestorWithPortfolio(t *testing.T) {
	ctx := context.Background()

	t.Run("issues next ids after existing maximum", func(t *testing.T) {
		repo := &fakeRepo{maxInvestorID: "INV013", maxPortfolioID: "PORT013"}
		srv := newService(repo)

		created, err := srv.CreateInvestorWithPortfolio(ctx, "Acme")

		require.NoError(t, err)
		assert.Equal(t, "INV014", created.InvestorID)
		assert.Equal(t, "PORT014", created.PortfolioID)
		assert.Equal(t, "Acme", repo.insertedCompanyName)
		assert.True(t, repo.insertedPortfolioVal.IsZero())
		assert.Equal(t, []string{"INV", "PORT"}, repo.lockedNamespaces)
		assert.Equal(t, 1, repo.txCount)
	})

	t.Run("starts at 1 on empty tables", func(t *testing.T) {
		repo := &fakeRepo{}
		srv := newService(repo)

		created, err := srv.CreateInvestorWithPortfolio(ctx, "First Capital")

		require.NoError(t, err)
		assert.Equal(t, "INV001", created.InvestorID)
		assert.Equal(t, "PORT001", created.PortfolioID)
	})

	t.Run("trims company name", func(t *testing.T) {
		repo := &fakeRepo{maxInvestorID: "INV001", maxPortfolioID: "PORT001"}
		srv := newService(repo)

		_, err := srv.CreateInvestorWithPortfolio(ctx, "  Acme  ")

		require.NoError(t, err)
		assert.Equal(t, "Acme", repo.insertedCompanyName)
	})

	t.Run("rejects empty name without writes", func(t *testing.T) {
		repo := &fakeRepo{}
		srv := newService(repo)

		_, err := srv.CreateInvestorWithPortfolio(ctx, "   ")

		assert.ErrorIs(t, err, service.ErrValidation)
		assert.Equal(t, 0, repo.txCount)
		assert.Empty(t, repo.insertedInvestorID)
	})
}

func TestUpdateInvestorName(t *testing.T) {
	ctx := context.Background()
	srv := newService(&fakeRepo{})

	assert.ErrorIs(t, srv.UpdateInvestorName(ctx, "", "Acme"), service.ErrValidation)
	assert.ErrorIs(t, srv.UpdateInvestorName(ctx, "INV001", " "), service.ErrValidation)
	assert.NoError(t, srv.UpdateInvestorName(ctx, "INV001", "Acme"))
}

func TestDeleteInvestor(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty id", func(t *testing.T) {
		srv := newService(&fakeRepo{})
		assert.ErrorIs(t, srv.DeleteInvestor(ctx, ""), service.ErrValidation)
	})

	t.Run("wraps cascade failures", func(t *testing.T) {
		cause := errors.New("fk violation")
		srv := newService(&fakeRepo{cascadeErr: cause})

		err := srv.DeleteInvestor(ctx, "INV001")

		assert.ErrorIs(t, err, service.ErrDeleteFailed)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("deletes inside one transaction", func(t *testing.T) {
		repo := &fakeRepo{}
		srv := newService(repo)

		require.NoError(t, srv.DeleteInvestor(ctx, "INV001"))
		assert.Equal(t, "INV001", repo.deletedInvestorID)
		assert.Equal(t, 1, repo.txCount)
	})
}

func TestAddHolding(t *testing.T) {
	ctx := context.Background()

	params := func() model.AddHoldingParams {
		return model.AddHoldingParams{
			InvestorID:   "INV001",
			PortfolioID:  "PORT014",
			StockID:      "AAPL_ID",
			AveragePrice: "140.00",
			HoldingCount: "10.7",
		}
	}

	t.Run("truncates fractional count and bumps total by count x latest price", func(t *testing.T) {
		repo := &fakeRepo{latestPrice: validPrice("150.00")}
		srv := newService(repo)

		valueAdded, err := srv.AddHolding(ctx, params())

		require.NoError(t, err)
		assert.True(t, valueAdded.Equal(decimal.RequireFromString("1500.00")), "got %s", valueAdded)
		require.NotNil(t, repo.insertedHolding)
		assert.Equal(t, 10, repo.insertedHolding.HoldingCount)
		assert.True(t, repo.insertedHolding.AveragePrice.Equal(decimal.RequireFromString("140.00")))
		require.NotNil(t, repo.totalDelta)
		assert.True(t, repo.totalDelta.Equal(valueAdded))
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		srv := newService(&fakeRepo{latestPrice: validPrice("150.00")})

		for _, mutate := range []func(*model.AddHoldingParams){
			func(p *model.AddHoldingParams) { p.InvestorID = "" },
			func(p *model.AddHoldingParams) { p.PortfolioID = " " },
			func(p *model.AddHoldingParams) { p.StockID = "" },
			func(p *model.AddHoldingParams) { p.AveragePrice = "" },
			func(p *model.AddHoldingParams) { p.HoldingCount = "" },
		} {
			p := params()
			mutate(&p)
			_, err := srv.AddHolding(ctx, p)
			assert.ErrorIs(t, err, service.ErrValidation)
		}
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		srv := newService(&fakeRepo{latestPrice: validPrice("150.00")})

		p := params()
		p.AveragePrice = "abc"
		_, err := srv.AddHolding(ctx, p)
		assert.ErrorIs(t, err, service.ErrValidation)

		p = params()
		p.HoldingCount = "ten"
		_, err = srv.AddHolding(ctx, p)
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("rejects non-finite and unrepresentable counts without writes", func(t *testing.T) {
		for _, count := range []string{"NaN", "Inf", "-Inf", "1e30", "9223372036854775808"} {
			repo := &fakeRepo{latestPrice: validPrice("150.00")}
			srv := newService(repo)

			p := params()
			p.HoldingCount = count
			_, err := srv.AddHolding(ctx, p)

			assert.ErrorIs(t, err, service.ErrValidation, "count %q", count)
			assert.Nil(t, repo.insertedHolding, "count %q", count)
			assert.Nil(t, repo.totalDelta, "count %q", count)
		}
	})

	t.Run("rejects negative count", func(t *testing.T) {
		srv := newService(&fakeRepo{latestPrice: validPrice("150.00")})

		p := params()
		p.HoldingCount = "-3"
		_, err := srv.AddHolding(ctx, p)
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("conflicts on existing holding", func(t *testing.T) {
		srv := newService(&fakeRepo{existingHolding: true, latestPrice: validPrice("150.00")})

		_, err := srv.AddHolding(ctx, params())
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("fails when no price data exists", func(t *testing.T) {
		srv := newService(&fakeRepo{latestPriceErr: repository.ErrNotFound})

		_, err := srv.AddHolding(ctx, params())
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("fails on null latest price", func(t *testing.T) {
		srv := newService(&fakeRepo{latestPrice: dbModel.StockPrice{StockID: "AAPL_ID"}})

		_, err := srv.AddHolding(ctx, params())
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}
