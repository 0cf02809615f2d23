package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Investor struct {
	InvestorID  string `db:"investor_id"`
	CompanyName string `db:"company_name"`
}

type Portfolio struct {
	PortfolioID  string          `db:"portfolio_id"`
	InvestorID   string          `db:"investor_id"`
	TotalValue   decimal.Decimal `db:"total_value"`
	CreationDate time.Time       `db:"creation_date"`
}
