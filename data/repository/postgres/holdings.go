package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DKret94/portfolio_webapp/data/repository"
	"github.com/DKret94/portfolio_webapp/internal/model/dbModel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func (r *Postgres) GetHolding(ctx context.Context, stockID, portfolioID string) (holding dbModel.Holding, err error) {
	query := `
		SELECT stock_id, portfolio_id, average_price, holding_count
		FROM holdings
		WHERE stock_id = $1
		AND portfolio_id = $2
		`
	defer r.logQuery(ctx, "GetHolding", query)(&err)

	err = r.txOrDb(ctx).GetContext(ctx, &holding, query, stockID, portfolioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbModel.Holding{}, repository.ErrNotFound
		}
		return dbModel.Holding{}, err
	}

	return holding, nil
}

// GetLatestStockPrice returns the stock_price row with the maximum
// price_date for the stock.
func (r *Postgres) GetLatestStockPrice(ctx context.Context, stockID string) (price dbModel.StockPrice, err error) {
	query := `
		SELECT stock_id, price_date, daily_price
		FROM stock_price
		WHERE stock_id = $1
		ORDER BY price_date DESC
		LIMIT 1
		`
	defer r.logQuery(ctx, "GetLatestStockPrice", query)(&err)

	err = r.txOrDb(ctx).GetContext(ctx, &price, query, stockID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbModel.StockPrice{}, repository.ErrNotFound
		}
		return dbModel.StockPrice{}, err
	}

	return price, nil
}

func (r *Postgres) InsertHolding(ctx context.Context, holding dbModel.Holding) (err error) {
	query := `INSERT INTO holdings(stock_id, portfolio_id, average_price, holding_count) VALUES($1, $2, $3, $4)`
	defer r.logQuery(ctx, "InsertHolding", query)(&err)

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, holding.StockID, holding.PortfolioID, holding.AveragePrice, holding.HoldingCount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return repository.ErrAlreadyExists
			}
		}
		return err
	}

	return nil
}

func (r *Postgres) AddToPortfolioTotal(ctx context.Context, portfolioID string, delta decimal.Decimal) (err error) {
	query := `UPDATE portfolio SET total_value = total_value + $1 WHERE portfolio_id = $2`
	defer r.logQuery(ctx, "AddToPortfolioTotal", query)(&err)

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, delta, portfolioID)
	return err
}
