package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type RiskMetrics struct {
	PortfolioID string          `db:"portfolio_id"`
	SharpeRatio decimal.Decimal `db:"sharpe_ratio"`
	Beta        decimal.Decimal `db:"beta"`
}

type ESGScore struct {
	StockID  string          `db:"stock_id"`
	ESGScore decimal.Decimal `db:"esg_score"`
}

type MacroData struct {
	DataDate         time.Time       `db:"data_date"`
	GDPGrowth        decimal.Decimal `db:"gdp_growth"`
	InflationRate    decimal.Decimal `db:"inflation_rate"`
	InterestRate     decimal.Decimal `db:"interest_rate"`
	UnemploymentRate decimal.Decimal `db:"unemployment_rate"`
}

type InvestorPnl struct {
	InvestorID  string          `db:"investor_id"`
	CompanyName string          `db:"company_name"`
	TotalPnl    decimal.Decimal `db:"total_pnl"`
}

type PortfolioESG struct {
	PortfolioID string          `db:"portfolio_id"`
	AvgESGScore decimal.Decimal `db:"avg_esg_score"`
	SharpeRatio decimal.Decimal `db:"sharpe_ratio"`
	Beta        decimal.Decimal `db:"beta"`
}

type BestBuy struct {
	TransactionID  int64           `db:"transaction_id"`
	InvestorID     string          `db:"investor_id"`
	StockID        string          `db:"stock_id"`
	Ticker         string          `db:"ticker"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
	UnitNumber     int             `db:"unit_number"`
	CurrentPrice   decimal.Decimal `db:"current_price"`
	UnrealizedGain decimal.Decimal `db:"unrealized_gain"`
}
