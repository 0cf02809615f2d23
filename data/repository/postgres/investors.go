package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DKret94/portfolio_webapp/data/repository"
	"github.com/DKret94/portfolio_webapp/internal/model/dbModel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// AcquireIDLock takes a transaction-scoped advisory lock for one id
// namespace (e.g. "INV", "PORT"). It serializes the read-max/increment
// cycle of sequential id generation; the lock releases at commit or
// rollback. Must be called inside WithinTransaction.
func (r *Postgres) AcquireIDLock(ctx context.Context, namespace string) (err error) {
	query := `SELECT pg_advisory_xact_lock(hashtext($1))`
	defer r.logQuery(ctx, "AcquireIDLock", query)(&err)

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, namespace)
	return err
}

func (r *Postgres) GetMaxInvestorID(ctx context.Context) (investorID string, err error) {
	query := `SELECT investor_id FROM investor ORDER BY investor_id DESC LIMIT 1`
	defer r.logQuery(ctx, "GetMaxInvestorID", query)(&err)

	err = r.txOrDb(ctx).GetContext(ctx, &investorID, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}

	return investorID, nil
}

func (r *Postgres) GetMaxPortfolioID(ctx context.Context) (portfolioID string, err error) {
	query := `SELECT portfolio_id FROM portfolio ORDER BY portfolio_id DESC LIMIT 1`
	defer r.logQuery(ctx, "GetMaxPortfolioID", query)(&err)

	err = r.txOrDb(ctx).GetContext(ctx, &portfolioID, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}

	return portfolioID, nil
}

func (r *Postgres) InsertInvestor(ctx context.Context, investorID, companyName string) (err error) {
	query := `INSERT INTO investor(investor_id, company_name) VALUES($1, $2)`
	defer r.logQuery(ctx, "InsertInvestor", query)(&err)

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, investorID, companyName)
	return err
}

func (r *Postgres) InsertPortfolio(ctx context.Context, portfolioID, investorID string, totalValue decimal.Decimal, creationDate time.Time) (err error) {
	query := `INSERT INTO portfolio(portfolio_id, investor_id, total_value, creation_date) VALUES($1, $2, $3, $4)`
	defer r.logQuery(ctx, "InsertPortfolio", query)(&err)

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, portfolioID, investorID, totalValue, creationDate)
	return err
}

func (r *Postgres) UpdateInvestorName(ctx context.Context, investorID, companyName string) (err error) {
	query := `UPDATE investor SET company_name = $1 WHERE investor_id = $2`
	defer r.logQuery(ctx, "UpdateInvestorName", query)(&err)

	// zero rows affected is fine, updating a missing investor is a no-op
	_, err = r.txOrDb(ctx).ExecContext(ctx, query, companyName, investorID)
	return err
}

func (r *Postgres) GetInvestor(ctx context.Context, investorID string) (investor dbModel.Investor, err error) {
	query := `SELECT investor_id, company_name FROM investor WHERE investor_id = $1`
	defer r.logQuery(ctx, "GetInvestor", query)(&err)

	err = r.txOrDb(ctx).GetContext(ctx, &investor, query, investorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbModel.Investor{}, repository.ErrNotFound
		}
		return dbModel.Investor{}, err
	}

	return investor, nil
}

func (r *Postgres) GetPortfoliosForInvestor(ctx context.Context, investorID string) (portfolios []dbModel.Portfolio, err error) {
	query := `SELECT portfolio_id, investor_id, total_value, creation_date FROM portfolio WHERE investor_id = $1`
	defer r.logQuery(ctx, "GetPortfoliosForInvestor", query)(&err)

	err = r.txOrDb(ctx).SelectContext(ctx, &portfolios, query, investorID)
	if err != nil {
		return nil, err
	}

	return portfolios, nil
}

// cascadeSteps is the ordered list of dependent tables cleared when an
// investor is removed. Rows are scoped either by the investor's
// portfolio set or by the investor id itself; adding a dependent table
// is a new entry here, not new code.
var cascadeSteps = []struct {
	table       string
	fkColumn    string
	byPortfolio bool
}{
	{table: "holdings", fkColumn: "portfolio_id", byPortfolio: true},
	{table: "risk_metrics", fkColumn: "portfolio_id", byPortfolio: true},
	{table: "portfolio", fkColumn: "portfolio_id", byPortfolio: true},
	{table: "transaction", fkColumn: "investor_id", byPortfolio: false},
	{table: "investor", fkColumn: "investor_id", byPortfolio: false},
}

// DeleteInvestorCascade removes the investor and every dependent row.
// Must be called inside WithinTransaction so the steps commit or roll
// back as one unit. Deleting a missing investor affects zero rows at
// every step and succeeds.
func (r *Postgres) DeleteInvestorCascade(ctx context.Context, investorID string) (err error) {
	defer r.logQuery(ctx, "DeleteInvestorCascade", "ordered cascade delete")(&err)

	var portfolioIDs []string
	err = r.txOrDb(ctx).SelectContext(ctx, &portfolioIDs, `SELECT portfolio_id FROM portfolio WHERE investor_id = $1`, investorID)
	if err != nil {
		return err
	}

	for _, step := range cascadeSteps {
		if step.byPortfolio {
			if len(portfolioIDs) == 0 {
				continue
			}
			query, args, inErr := sqlx.In(
				fmt.Sprintf("DELETE FROM %s WHERE %s IN (?)", step.table, step.fkColumn),
				portfolioIDs,
			)
			if inErr != nil {
				return inErr
			}
			query = r.txOrDb(ctx).Rebind(query)
			if _, err = r.txOrDb(ctx).ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("delete from %s: %w", step.table, err)
			}
			continue
		}

		query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", step.table, step.fkColumn)
		if _, err = r.txOrDb(ctx).ExecContext(ctx, query, investorID); err != nil {
			return fmt.Errorf("delete from %s: %w", step.table, err)
		}
	}

	return nil
}
