package postgres

import (
	"context"

	"github.com/DKret94/portfolio_webapp/internal/model/dbModel"
)

// latestPrices picks the most recent stock_price row per stock.
const latestPrices = `
	SELECT DISTINCT ON (stock_id) stock_id, daily_price
	FROM stock_price
	ORDER BY stock_id, price_date DESC
`

// GetTopInvestorsByPnl ranks investors by the summed profit/loss of all
// holdings across all their portfolios. Outer joins keep investors with
// no portfolios, holdings or prices in the result with zero P&L; ties
// break on investor_id ascending.
func (r *Postgres) GetTopInvestorsByPnl(ctx context.Context) (rows []dbModel.InvestorPnl, err error) {
	query := `
		SELECT i.investor_id, i.company_name,
			COALESCE(SUM((lp.daily_price - h.average_price) * h.holding_count), 0) AS total_pnl
		FROM investor i
		LEFT JOIN portfolio p ON p.investor_id = i.investor_id
		LEFT JOIN holdings h ON h.portfolio_id = p.portfolio_id
		LEFT JOIN (` + latestPrices + `) lp ON lp.stock_id = h.stock_id
		GROUP BY i.investor_id, i.company_name
		ORDER BY total_pnl DESC, i.investor_id ASC
		`
	defer r.logQuery(ctx, "GetTopInvestorsByPnl", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// GetPortfolioESGCorrelation pairs each portfolio's average ESG score
// (over its held stocks, 2 decimal places) with its risk metrics.
// Inner joins drop portfolios missing holdings, ESG scores or a
// risk_metrics row.
func (r *Postgres) GetPortfolioESGCorrelation(ctx context.Context) (rows []dbModel.PortfolioESG, err error) {
	query := `
		SELECT p.portfolio_id,
			ROUND(AVG(e.esg_score), 2) AS avg_esg_score,
			r.sharpe_ratio, r.beta
		FROM portfolio p
		JOIN holdings h ON h.portfolio_id = p.portfolio_id
		JOIN esg_score e ON e.stock_id = h.stock_id
		JOIN risk_metrics r ON r.portfolio_id = p.portfolio_id
		GROUP BY p.portfolio_id, r.sharpe_ratio, r.beta
		ORDER BY avg_esg_score DESC
		`
	defer r.logQuery(ctx, "GetPortfolioESGCorrelation", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// GetBestBuys ranks buy transactions by unrealized gain against the
// stock's latest price. Sell transactions are excluded.
func (r *Postgres) GetBestBuys(ctx context.Context) (rows []dbModel.BestBuy, err error) {
	query := `
		SELECT t.transaction_id, t.investor_id, t.stock_id, s.ticker,
			t.unit_price, t.unit_number,
			lp.daily_price AS current_price,
			ROUND((lp.daily_price - t.unit_price) * t.unit_number, 2) AS unrealized_gain
		FROM transaction t
		JOIN stock s ON s.stock_id = t.stock_id
		JOIN (` + latestPrices + `) lp ON lp.stock_id = t.stock_id
		WHERE t.transaction_type = 'buy'
		ORDER BY unrealized_gain DESC
		`
	defer r.logQuery(ctx, "GetBestBuys", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
