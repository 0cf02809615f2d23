package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/DKret94/portfolio_webapp/internal/model"
	"github.com/DKret94/portfolio_webapp/internal/service"
	"github.com/DKret94/portfolio_webapp/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PortfolioService interface {
	CreateInvestorWithPortfolio(ctx context.Context, companyName string) (model.CreatedInvestor, error)
	UpdateInvestorName(ctx context.Context, investorID, newName string) error
	DeleteInvestor(ctx context.Context, investorID string) error
	AddHolding(ctx context.Context, params model.AddHoldingParams) (decimal.Decimal, error)

	GetInvestor(ctx context.Context, investorID string) (model.Investor, error)
	GetPortfoliosForInvestor(ctx context.Context, investorID string) ([]model.Portfolio, error)

	ListDemoNames(ctx context.Context) ([]string, error)
	ListInvestors(ctx context.Context) ([]model.Investor, error)
	ListPortfolios(ctx context.Context) ([]model.Portfolio, error)
	ListStocks(ctx context.Context) ([]model.Stock, error)
	ListHoldings(ctx context.Context) ([]model.Holding, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	ListStockPrices(ctx context.Context) ([]model.StockPrice, error)
	ListRiskMetrics(ctx context.Context) ([]model.RiskMetrics, error)
	ListESGScores(ctx context.Context) ([]model.ESGScore, error)
	ListMacroData(ctx context.Context) ([]model.MacroData, error)

	GetTopInvestorsByPnl(ctx context.Context) ([]model.InvestorPnl, error)
	GetPortfolioESGCorrelation(ctx context.Context) ([]model.PortfolioESG, error)
	GetBestBuys(ctx context.Context) ([]model.BestBuy, error)

	GeneratePortfoliosReport(ctx context.Context) ([]byte, string, error)
}

type Controller struct {
	portfolioService PortfolioService
}

func NewController(portfolioService PortfolioService) *Controller {
	return &Controller{portfolioService: portfolioService}
}

// renderError is the terminal state of GET pages when the database is
// unreachable or a query fails: the request fails immediately instead
// of rendering from a dead handle.
func (ctrl *Controller) renderError(c *gin.Context, rqID string, op string, err error) {
	slog.Error("got error from portfolioService", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{})
}

// redirectResult reports a POST outcome through the redirect target's
// query string rather than the response status.
func redirectResult(c *gin.Context, path string, params url.Values) {
	c.Redirect(http.StatusSeeOther, path+"?"+params.Encode())
}

// userMessage maps service errors to the human-readable message carried
// in the redirect; unexpected errors stay opaque.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrDeleteFailed):
		return err.Error()
	default:
		return "something went wrong, please try again"
	}
}

func (ctrl *Controller) Index(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	names, err := ctrl.portfolioService.ListDemoNames(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "Index", err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"data": names})
}

func (ctrl *Controller) Stocks(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	stocks, err := ctrl.portfolioService.ListStocks(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "Stocks", err)
		return
	}
	c.HTML(http.StatusOK, "stocks.html", gin.H{"stocks": stocks})
}

func (ctrl *Controller) Investors(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	investors, err := ctrl.portfolioService.ListInvestors(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "Investors", err)
		return
	}
	c.HTML(http.StatusOK, "investors.html", gin.H{"investors": investors})
}

func (ctrl *Controller) Transactions(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	transactions, err := ctrl.portfolioService.ListTransactions(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "Transactions", err)
		return
	}
	c.HTML(http.StatusOK, "transactions.html", gin.H{"transactions": transactions})
}

func (ctrl *Controller) Holdings(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	holdings, err := ctrl.portfolioService.ListHoldings(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "Holdings", err)
		return
	}
	c.HTML(http.StatusOK, "holdings.html", gin.H{"holdings": holdings})
}

func (ctrl *Controller) Portfolios(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	portfolios, err := ctrl.portfolioService.ListPortfolios(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "Portfolios", err)
		return
	}
	c.HTML(http.StatusOK, "portfolios.html", gin.H{"portfolios": portfolios})
}

func (ctrl *Controller) RiskMetrics(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	metrics, err := ctrl.portfolioService.ListRiskMetrics(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "RiskMetrics", err)
		return
	}
	c.HTML(http.StatusOK, "risk_metrics.html", gin.H{"risk_metrics": metrics})
}

func (ctrl *Controller) MacroData(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	rows, err := ctrl.portfolioService.ListMacroData(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "MacroData", err)
		return
	}
	c.HTML(http.StatusOK, "macro_data.html", gin.H{"macro_data": rows})
}

func (ctrl *Controller) StockPrices(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	prices, err := ctrl.portfolioService.ListStockPrices(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "StockPrices", err)
		return
	}
	c.HTML(http.StatusOK, "stock_prices.html", gin.H{"stock_prices": prices})
}

func (ctrl *Controller) ESGScores(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	scores, err := ctrl.portfolioService.ListESGScores(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "ESGScores", err)
		return
	}
	c.HTML(http.StatusOK, "esg_scores.html", gin.H{"esg_scores": scores})
}

func (ctrl *Controller) TopInvestors(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	rows, err := ctrl.portfolioService.GetTopInvestorsByPnl(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "TopInvestors", err)
		return
	}
	c.HTML(http.StatusOK, "top_investors.html", gin.H{"top_investors": rows})
}

func (ctrl *Controller) ESGStocks(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	rows, err := ctrl.portfolioService.GetPortfolioESGCorrelation(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "ESGStocks", err)
		return
	}
	c.HTML(http.StatusOK, "esg_stocks.html", gin.H{"esg_stocks": rows})
}

func (ctrl *Controller) BestBuys(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	rows, err := ctrl.portfolioService.GetBestBuys(ctx)
	if err != nil {
		ctrl.renderError(c, utils.GetRequestIDFromCtx(ctx), "BestBuys", err)
		return
	}
	c.HTML(http.StatusOK, "best_buys.html", gin.H{"best_buys": rows})
}

// NewInvestorForm renders the creation form; the POST outcome comes
// back as query params for the confirmation banner.
func (ctrl *Controller) NewInvestorForm(c *gin.Context) {
	c.HTML(http.StatusOK, "new_investor.html", gin.H{
		"confirmation": c.Query("confirmation"),
		"message":      c.Query("message"),
		"investor_id":  c.Query("investor_id"),
		"portfolio_id": c.Query("portfolio_id"),
	})
}

// ManageInvestorForm renders the update/delete form, preloading the
// investor named by ?investor_id when it exists.
func (ctrl *Controller) ManageInvestorForm(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	data := gin.H{
		"confirmation": c.Query("confirmation"),
		"message":      c.Query("message"),
	}

	investorID := c.Query("investor_id")
	if investorID != "" {
		investor, err := ctrl.portfolioService.GetInvestor(ctx, investorID)
		switch {
		case err == nil:
			data["investor"] = investor
		case errors.Is(err, service.ErrNotFound):
			// unknown id renders an empty form
		default:
			ctrl.renderError(c, rqID, "ManageInvestorForm", err)
			return
		}
	}

	c.HTML(http.StatusOK, "manage_investor.html", data)
}

// AddHoldingsForm renders the holding creation form. Selecting an
// investor reloads the page with ?investor_id, which populates the
// portfolio dropdown for that investor.
func (ctrl *Controller) AddHoldingsForm(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	investors, err := ctrl.portfolioService.ListInvestors(ctx)
	if err != nil {
		ctrl.renderError(c, rqID, "AddHoldingsForm", err)
		return
	}

	data := gin.H{
		"confirmation":      c.Query("confirmation"),
		"message":           c.Query("message"),
		"investors":         investors,
		"selected_investor": "",
	}

	investorID := c.Query("investor_id")
	if investorID != "" {
		portfolios, err := ctrl.portfolioService.GetPortfoliosForInvestor(ctx, investorID)
		if err != nil {
			ctrl.renderError(c, rqID, "AddHoldingsForm", err)
			return
		}
		stocks, err := ctrl.portfolioService.ListStocks(ctx)
		if err != nil {
			ctrl.renderError(c, rqID, "AddHoldingsForm", err)
			return
		}
		data["selected_investor"] = investorID
		data["portfolios"] = portfolios
		data["stocks"] = stocks
	}

	c.HTML(http.StatusOK, "add_holdings.html", data)
}

func (ctrl *Controller) AddInvestor(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	created, err := ctrl.portfolioService.CreateInvestorWithPortfolio(ctx, c.PostForm("company_name"))
	if err != nil {
		redirectResult(c, "/new_investor", url.Values{
			"confirmation": {"error"},
			"message":      {userMessage(err)},
		})
		return
	}

	redirectResult(c, "/new_investor", url.Values{
		"confirmation": {"success"},
		"message":      {fmt.Sprintf("created investor %s with portfolio %s", created.InvestorID, created.PortfolioID)},
		"investor_id":  {created.InvestorID},
		"portfolio_id": {created.PortfolioID},
	})
}

func (ctrl *Controller) UpdateInvestor(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	investorID := c.PostForm("investor_id")
	err := ctrl.portfolioService.UpdateInvestorName(ctx, investorID, c.PostForm("company_name"))
	if err != nil {
		redirectResult(c, "/manage_investor", url.Values{
			"confirmation": {"error"},
			"message":      {userMessage(err)},
		})
		return
	}

	redirectResult(c, "/manage_investor", url.Values{
		"confirmation": {"success"},
		"message":      {"investor name updated"},
		"investor_id":  {investorID},
	})
}

func (ctrl *Controller) DeleteInvestor(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	err := ctrl.portfolioService.DeleteInvestor(ctx, c.PostForm("investor_id"))
	if err != nil {
		redirectResult(c, "/manage_investor", url.Values{
			"confirmation": {"error"},
			"message":      {userMessage(err)},
		})
		return
	}

	redirectResult(c, "/manage_investor", url.Values{
		"confirmation": {"success"},
		"message":      {"investor and all related records deleted"},
	})
}

func (ctrl *Controller) SubmitHoldings(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	params := model.AddHoldingParams{
		InvestorID:   c.PostForm("investor_id"),
		PortfolioID:  c.PostForm("portfolio_id"),
		StockID:      c.PostForm("stock_id"),
		AveragePrice: c.PostForm("average_price"),
		HoldingCount: c.PostForm("holding_count"),
	}

	valueAdded, err := ctrl.portfolioService.AddHolding(ctx, params)
	if err != nil {
		redirectResult(c, "/add_holdings", url.Values{
			"confirmation": {"error"},
			"message":      {userMessage(err)},
			"investor_id":  {params.InvestorID},
		})
		return
	}

	redirectResult(c, "/add_holdings", url.Values{
		"confirmation": {"success"},
		"message":      {fmt.Sprintf("holding added, portfolio value increased by %s", valueAdded.StringFixed(2))},
		"investor_id":  {params.InvestorID},
	})
}

func (ctrl *Controller) ExportPortfolios(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	fileBytes, ext, err := ctrl.portfolioService.GeneratePortfoliosReport(ctx)
	if err != nil {
		ctrl.renderError(c, rqID, "ExportPortfolios", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="portfolios`+ext+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", fileBytes)
}

// Login always rejects, there are no accounts in this app.
func (ctrl *Controller) Login(c *gin.Context) {
	c.AbortWithStatus(http.StatusUnauthorized)
}
