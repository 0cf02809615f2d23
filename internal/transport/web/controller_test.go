package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DKret94/portfolio_webapp/internal/model"
	"github.com/DKret94/portfolio_webapp/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	createErr  error
	addErr     error
	deleteErr  error
	updateErr  error
	valueAdded decimal.Decimal
	stocks     []model.Stock
	investors  []model.Investor
}

func (f *fakeService) CreateInvestorWithPortfolio(ctx context.Context, companyName string) (model.CreatedInvestor, error) {
	if f.createErr != nil {
		return model.CreatedInvestor{}, f.createErr
	}
	return model.CreatedInvestor{InvestorID: "INV014", PortfolioID: "PORT014"}, nil
}

func (f *fakeService) UpdateInvestorName(ctx context.Context, investorID, newName string) error {
	return f.updateErr
}

func (f *fakeService) DeleteInvestor(ctx context.Context, investorID string) error {
	return f.deleteErr
}

func (f *fakeService) AddHolding(ctx context.Context, params model.AddHoldingParams) (decimal.Decimal, error) {
	if f.addErr != nil {
		return decimal.Zero, f.addErr
	}
	return f.valueAdded, nil
}

func (f *fakeService) GetInvestor(ctx context.Context, investorID string) (model.Investor, error) {
	return model.Investor{}, service.ErrNotFound
}

func (f *fakeService) GetPortfoliosForInvestor(ctx context.Context, investorID string) ([]model.Portfolio, error) {
	return nil, nil
}

func (f *fakeService) ListDemoNames(ctx context.Context) ([]string, error)     { return nil, nil }
func (f *fakeService) ListInvestors(ctx context.Context) ([]model.Investor, error) {
	return f.investors, nil
}
func (f *fakeService) ListPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	return nil, nil
}
func (f *fakeService) ListStocks(ctx context.Context) ([]model.Stock, error) { return f.stocks, nil }
func (f *fakeService) ListHoldings(ctx context.Context) ([]model.Holding, error) { return nil, nil }
func (f *fakeService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return nil, nil
}
func (f *fakeService) ListStockPrices(ctx context.Context) ([]model.StockPrice, error) {
	return nil, nil
}
func (f *fakeService) ListRiskMetrics(ctx context.Context) ([]model.RiskMetrics, error) {
	return nil, nil
}
func (f *fakeService) ListESGScores(ctx context.Context) ([]model.ESGScore, error) {
	return nil, nil
}
func (f *fakeService) ListMacroData(ctx context.Context) ([]model.MacroData, error) {
	return nil, nil
}
func (f *fakeService) GetTopInvestorsByPnl(ctx context.Context) ([]model.InvestorPnl, error) {
	return nil, nil
}
func (f *fakeService) GetPortfolioESGCorrelation(ctx context.Context) ([]model.PortfolioESG, error) {
	return nil, nil
}
func (f *fakeService) GetBestBuys(ctx context.Context) ([]model.BestBuy, error) { return nil, nil }
func (f *fakeService) GeneratePortfoliosReport(ctx context.Context) ([]byte, string, error) {
	return []byte("workbook"), ".xlsx", nil
}

func newTestRouter(srv *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewController(srv)

	engine := gin.New()
	engine.LoadHTMLGlob("../../../templates/*.html")
	engine.GET("/stocks", ctrl.Stocks)
	engine.GET("/new_investor", ctrl.NewInvestorForm)
	engine.GET("/add_holdings", ctrl.AddHoldingsForm)
	engine.POST("/add", ctrl.AddInvestor)
	engine.POST("/update_investor", ctrl.UpdateInvestor)
	engine.POST("/delete_investor", ctrl.DeleteInvestor)
	engine.POST("/submit_holdings", ctrl.SubmitHoldings)
	engine.GET("/portfolios/export", ctrl.ExportPortfolios)
	engine.GET("/login", ctrl.Login)
	return engine
}

func postForm(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddInvestor(t *testing.T) {
	t.Run("redirects with ids on success", func(t *testing.T) {
		router := newTestRouter(&fakeService{})

		w := postForm(t, router, "/add", url.Values{"company_name": {"Acme"}})

		require.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/new_investor", loc.Path)
		assert.Equal(t, "success", loc.Query().Get("confirmation"))
		assert.Equal(t, "INV014", loc.Query().Get("investor_id"))
		assert.Equal(t, "PORT014", loc.Query().Get("portfolio_id"))
	})

	t.Run("redirects with error message on validation failure", func(t *testing.T) {
		router := newTestRouter(&fakeService{
			createErr: fmt.Errorf("%w: company name is required", service.ErrValidation),
		})

		w := postForm(t, router, "/add", url.Values{"company_name": {""}})

		require.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "error", loc.Query().Get("confirmation"))
		assert.Contains(t, loc.Query().Get("message"), "company name is required")
	})
}

func TestSubmitHoldings(t *testing.T) {
	t.Run("reports added value on success", func(t *testing.T) {
		router := newTestRouter(&fakeService{valueAdded: decimal.RequireFromString("1500")})

		w := postForm(t, router, "/submit_holdings", url.Values{
			"investor_id":   {"INV001"},
			"portfolio_id":  {"PORT014"},
			"stock_id":      {"AAPL_ID"},
			"average_price": {"140.00"},
			"holding_count": {"10.7"},
		})

		require.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/add_holdings", loc.Path)
		assert.Equal(t, "success", loc.Query().Get("confirmation"))
		assert.Contains(t, loc.Query().Get("message"), "1500.00")
		assert.Equal(t, "INV001", loc.Query().Get("investor_id"))
	})

	t.Run("carries conflict message back to the form", func(t *testing.T) {
		router := newTestRouter(&fakeService{
			addErr: fmt.Errorf("%w: holding already exists for this stock and portfolio", service.ErrConflict),
		})

		w := postForm(t, router, "/submit_holdings", url.Values{"investor_id": {"INV001"}})

		require.Equal(t, http.StatusSeeOther, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "error", loc.Query().Get("confirmation"))
		assert.Contains(t, loc.Query().Get("message"), "holding already exists")
	})
}

func TestDeleteInvestorRedirects(t *testing.T) {
	router := newTestRouter(&fakeService{})

	w := postForm(t, router, "/delete_investor", url.Values{"investor_id": {"INV001"}})

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/manage_investor", loc.Path)
	assert.Equal(t, "success", loc.Query().Get("confirmation"))
}

func TestStocksPage(t *testing.T) {
	router := newTestRouter(&fakeService{stocks: []model.Stock{
		{StockID: "AAPL_ID", Ticker: "AAPL", Sector: "Technology"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/stocks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AAPL")
	assert.Contains(t, w.Body.String(), "Technology")
}

func TestExportPortfolios(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/portfolios/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "portfolios.xlsx")
	assert.Equal(t, "workbook", w.Body.String())
}

func TestLoginAlwaysRejects(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
