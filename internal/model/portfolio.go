package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Investor struct {
	InvestorID  string
	CompanyName string
}

type Portfolio struct {
	PortfolioID  string
	InvestorID   string
	TotalValue   decimal.Decimal
	CreationDate time.Time
}

type Holding struct {
	StockID      string
	PortfolioID  string
	AveragePrice decimal.Decimal
	HoldingCount int
}

// CreatedInvestor carries the identifiers issued by the investor
// creation workflow back to the confirmation page.
type CreatedInvestor struct {
	InvestorID  string
	PortfolioID string
}

// AddHoldingParams carries the raw form fields of the holding creation
// workflow; numeric fields are parsed and validated in the service, not
// in the transport layer.
type AddHoldingParams struct {
	InvestorID   string
	PortfolioID  string
	StockID      string
	AveragePrice string
	HoldingCount string
}
