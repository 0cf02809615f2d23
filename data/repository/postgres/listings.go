package postgres

import (
	"context"
	"log/slog"

	"github.com/DKret94/portfolio_webapp/internal/model/dbModel"
	"github.com/DKret94/portfolio_webapp/utils"
)

// Full-table listing queries behind the browse pages. Table names are
// literal in every query, never interpolated from input.

func (r *Postgres) logQuery(ctx context.Context, op, query string) func(err *error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug(op+" start", slog.String("rqID", rqID), slog.String("query", query))
	return func(err *error) {
		if *err != nil {
			slog.Error(op+" failed", slog.String("rqID", rqID), slog.String("err", (*err).Error()))
		} else {
			slog.Debug(op+" completed", slog.String("rqID", rqID))
		}
	}
}

func (r *Postgres) ListDemoNames(ctx context.Context) (names []string, err error) {
	query := `SELECT name FROM test`
	defer r.logQuery(ctx, "ListDemoNames", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &names, query)
	if err != nil {
		return nil, err
	}

	return names, nil
}

func (r *Postgres) ListInvestors(ctx context.Context) (investors []dbModel.Investor, err error) {
	query := `SELECT investor_id, company_name FROM investor`
	defer r.logQuery(ctx, "ListInvestors", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &investors, query)
	if err != nil {
		return nil, err
	}

	return investors, nil
}

func (r *Postgres) ListPortfolios(ctx context.Context) (portfolios []dbModel.Portfolio, err error) {
	query := `SELECT portfolio_id, investor_id, total_value, creation_date FROM portfolio`
	defer r.logQuery(ctx, "ListPortfolios", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &portfolios, query)
	if err != nil {
		return nil, err
	}

	return portfolios, nil
}

func (r *Postgres) ListStocks(ctx context.Context) (stocks []dbModel.Stock, err error) {
	query := `SELECT stock_id, ticker, sector FROM stock`
	defer r.logQuery(ctx, "ListStocks", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &stocks, query)
	if err != nil {
		return nil, err
	}

	return stocks, nil
}

func (r *Postgres) ListHoldings(ctx context.Context) (holdings []dbModel.Holding, err error) {
	query := `SELECT stock_id, portfolio_id, average_price, holding_count FROM holdings`
	defer r.logQuery(ctx, "ListHoldings", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &holdings, query)
	if err != nil {
		return nil, err
	}

	return holdings, nil
}

func (r *Postgres) ListTransactions(ctx context.Context) (transactions []dbModel.Transaction, err error) {
	query := `SELECT transaction_id, investor_id, stock_id, transaction_type, unit_price, unit_number FROM transaction`
	defer r.logQuery(ctx, "ListTransactions", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &transactions, query)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *Postgres) ListStockPrices(ctx context.Context) (prices []dbModel.StockPrice, err error) {
	query := `SELECT stock_id, price_date, daily_price FROM stock_price`
	defer r.logQuery(ctx, "ListStockPrices", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &prices, query)
	if err != nil {
		return nil, err
	}

	return prices, nil
}

func (r *Postgres) ListRiskMetrics(ctx context.Context) (metrics []dbModel.RiskMetrics, err error) {
	query := `SELECT portfolio_id, sharpe_ratio, beta FROM risk_metrics`
	defer r.logQuery(ctx, "ListRiskMetrics", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &metrics, query)
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

func (r *Postgres) ListESGScores(ctx context.Context) (scores []dbModel.ESGScore, err error) {
	query := `SELECT stock_id, esg_score FROM esg_score`
	defer r.logQuery(ctx, "ListESGScores", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &scores, query)
	if err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *Postgres) ListMacroData(ctx context.Context) (rows []dbModel.MacroData, err error) {
	query := `SELECT data_date, gdp_growth, inflation_rate, interest_rate, unemployment_rate FROM daily_macro_data`
	defer r.logQuery(ctx, "ListMacroData", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
