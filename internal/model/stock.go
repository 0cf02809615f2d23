package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	StockID string
	Ticker  string
	Sector  string
}

type Transaction struct {
	TransactionID   int64
	InvestorID      string
	StockID         string
	TransactionType string
	UnitPrice       decimal.Decimal
	UnitNumber      int
}

type StockPrice struct {
	StockID    string
	PriceDate  time.Time
	DailyPrice decimal.NullDecimal
}
