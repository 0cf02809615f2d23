package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	StockID string `db:"stock_id"`
	Ticker  string `db:"ticker"`
	Sector  string `db:"sector"`
}

type Holding struct {
	StockID      string          `db:"stock_id"`
	PortfolioID  string          `db:"portfolio_id"`
	AveragePrice decimal.Decimal `db:"average_price"`
	HoldingCount int             `db:"holding_count"`
}

type Transaction struct {
	TransactionID   int64           `db:"transaction_id"`
	InvestorID      string          `db:"investor_id"`
	StockID         string          `db:"stock_id"`
	TransactionType string          `db:"transaction_type"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	UnitNumber      int             `db:"unit_number"`
}

type StockPrice struct {
	StockID    string              `db:"stock_id"`
	PriceDate  time.Time           `db:"price_date"`
	DailyPrice decimal.NullDecimal `db:"daily_price"`
}
