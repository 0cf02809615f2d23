package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RiskMetrics struct {
	PortfolioID string
	SharpeRatio decimal.Decimal
	Beta        decimal.Decimal
}

type ESGScore struct {
	StockID  string
	ESGScore decimal.Decimal
}

type MacroData struct {
	DataDate         time.Time
	GDPGrowth        decimal.Decimal
	InflationRate    decimal.Decimal
	InterestRate     decimal.Decimal
	UnemploymentRate decimal.Decimal
}

// InvestorPnl is one row of the profit-and-loss ranking.
type InvestorPnl struct {
	InvestorID  string
	CompanyName string
	TotalPnl    decimal.Decimal
}

// PortfolioESG pairs a portfolio's average ESG score with its risk metrics.
type PortfolioESG struct {
	PortfolioID string
	AvgESGScore decimal.Decimal
	SharpeRatio decimal.Decimal
	Beta        decimal.Decimal
}

// BestBuy is one buy transaction paired with the stock's latest price.
type BestBuy struct {
	TransactionID  int64
	InvestorID     string
	StockID        string
	Ticker         string
	UnitPrice      decimal.Decimal
	UnitNumber     int
	CurrentPrice   decimal.Decimal
	UnrealizedGain decimal.Decimal
}
