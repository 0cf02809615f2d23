package dbConverter

import (
	"github.com/DKret94/portfolio_webapp/internal/model"
	"github.com/DKret94/portfolio_webapp/internal/model/dbModel"
)

func ConvertInvestor(in dbModel.Investor) model.Investor {
	return model.Investor{
		InvestorID:  in.InvestorID,
		CompanyName: in.CompanyName,
	}
}

func ConvertInvestors(in []dbModel.Investor) []model.Investor {
	out := make([]model.Investor, 0, len(in))
	for _, v := range in {
		out = append(out, ConvertInvestor(v))
	}
	return out
}

func ConvertPortfolio(in dbModel.Portfolio) model.Portfolio {
	return model.Portfolio{
		PortfolioID:  in.PortfolioID,
		InvestorID:   in.InvestorID,
		TotalValue:   in.TotalValue,
		CreationDate: in.CreationDate,
	}
}

func ConvertPortfolios(in []dbModel.Portfolio) []model.Portfolio {
	out := make([]model.Portfolio, 0, len(in))
	for _, v := range in {
		out = append(out, ConvertPortfolio(v))
	}
	return out
}

func ConvertStock(in dbModel.Stock) model.Stock {
	return model.Stock{
		StockID: in.StockID,
		Ticker:  in.Ticker,
		Sector:  in.Sector,
	}
}

func ConvertStocks(in []dbModel.Stock) []model.Stock {
	out := make([]model.Stock, 0, len(in))
	for _, v := range in {
		out = append(out, ConvertStock(v))
	}
	return out
}

func ConvertHolding(in dbModel.Holding) model.Holding {
	return model.Holding{
		StockID:      in.StockID,
		PortfolioID:  in.PortfolioID,
		AveragePrice: in.AveragePrice,
		HoldingCount: in.HoldingCount,
	}
}

func ConvertHoldings(in []dbModel.Holding) []model.Holding {
	out := make([]model.Holding, 0, len(in))
	for _, v := range in {
		out = append(out, ConvertHolding(v))
	}
	return out
}

func ConvertTransaction(in dbModel.Transaction) model.Transaction {
	return model.Transaction{
		TransactionID:   in.TransactionID,
		InvestorID:      in.InvestorID,
		StockID:         in.StockID,
		TransactionType: in.TransactionType,
		UnitPrice:       in.UnitPrice,
		UnitNumber:      in.UnitNumber,
	}
}

func ConvertTransactions(in []dbModel.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(in))
	for _, v := range in {
		out = append(out, ConvertTransaction(v))
	}
	return out
}

func ConvertStockPrice(in dbModel.StockPrice) model.StockPrice {
	return model.StockPrice{
		StockID:    in.StockID,
		PriceDate:  in.PriceDate,
		DailyPrice: in.DailyPrice,
	}
}

func ConvertStockPrices(in []dbModel.StockPrice) []model.StockPrice {
	out := make([]model.StockPrice, 0, len(in))
	for _, v := range in {
		out = append(out, ConvertStockPrice(v))
	}
	return out
}

func ConvertRiskMetrics(in []dbModel.RiskMetrics) []model.RiskMetrics {
	out := make([]model.RiskMetrics, 0, len(in))
	for _, v := range in {
		out = append(out, model.RiskMetrics{
			PortfolioID: v.PortfolioID,
			SharpeRatio: v.SharpeRatio,
			Beta:        v.Beta,
		})
	}
	return out
}

func ConvertESGScores(in []dbModel.ESGScore) []model.ESGScore {
	out := make([]model.ESGScore, 0, len(in))
	for _, v := range in {
		out = append(out, model.ESGScore{
			StockID:  v.StockID,
			ESGScore: v.ESGScore,
		})
	}
	return out
}

func ConvertMacroData(in []dbModel.MacroData) []model.MacroData {
	out := make([]model.MacroData, 0, len(in))
	for _, v := range in {
		out = append(out, model.MacroData{
			DataDate:         v.DataDate,
			GDPGrowth:        v.GDPGrowth,
			InflationRate:    v.InflationRate,
			InterestRate:     v.InterestRate,
			UnemploymentRate: v.UnemploymentRate,
		})
	}
	return out
}

func ConvertInvestorPnls(in []dbModel.InvestorPnl) []model.InvestorPnl {
	out := make([]model.InvestorPnl, 0, len(in))
	for _, v := range in {
		out = append(out, model.InvestorPnl{
			InvestorID:  v.InvestorID,
			CompanyName: v.CompanyName,
			TotalPnl:    v.TotalPnl,
		})
	}
	return out
}

func ConvertPortfolioESGs(in []dbModel.PortfolioESG) []model.PortfolioESG {
	out := make([]model.PortfolioESG, 0, len(in))
	for _, v := range in {
		out = append(out, model.PortfolioESG{
			PortfolioID: v.PortfolioID,
			AvgESGScore: v.AvgESGScore,
			SharpeRatio: v.SharpeRatio,
			Beta:        v.Beta,
		})
	}
	return out
}

func ConvertBestBuys(in []dbModel.BestBuy) []model.BestBuy {
	out := make([]model.BestBuy, 0, len(in))
	for _, v := range in {
		out = append(out, model.BestBuy{
			TransactionID:  v.TransactionID,
			InvestorID:     v.InvestorID,
			StockID:        v.StockID,
			Ticker:         v.Ticker,
			UnitPrice:      v.UnitPrice,
			UnitNumber:     v.UnitNumber,
			CurrentPrice:   v.CurrentPrice,
			UnrealizedGain: v.UnrealizedGain,
		})
	}
	return out
}
