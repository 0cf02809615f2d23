package webserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/DKret94/portfolio_webapp/config"
	"github.com/DKret94/portfolio_webapp/internal/transport/web"
	customMW "github.com/DKret94/portfolio_webapp/internal/transport/web/middleware"
	"github.com/gin-gonic/gin"
)

type WebServer struct {
	srv  *http.Server
	ctrl *web.Controller
}

func New(cfg *config.Config, ctrl *web.Controller) *WebServer {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), customMW.Logger())
	engine.LoadHTMLGlob(cfg.HTTP.TemplatesGlob)

	s := &WebServer{
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:      engine,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
		ctrl: ctrl,
	}

	s.setupRoutes(engine)

	return s
}

func (s *WebServer) setupRoutes(engine *gin.Engine) {
	engine.GET("/", s.ctrl.Index)

	// table listings
	engine.GET("/stocks", s.ctrl.Stocks)
	engine.GET("/investors", s.ctrl.Investors)
	engine.GET("/transactions", s.ctrl.Transactions)
	engine.GET("/holdings", s.ctrl.Holdings)
	engine.GET("/portfolios", s.ctrl.Portfolios)
	engine.GET("/risk_metrics", s.ctrl.RiskMetrics)
	engine.GET("/macro_data", s.ctrl.MacroData)
	engine.GET("/stock_prices", s.ctrl.StockPrices)
	engine.GET("/esg_scores", s.ctrl.ESGScores)

	// derived views
	engine.GET("/top_investors", s.ctrl.TopInvestors)
	engine.GET("/esg-stocks", s.ctrl.ESGStocks)
	engine.GET("/best_buys", s.ctrl.BestBuys)

	// forms
	engine.GET("/new_investor", s.ctrl.NewInvestorForm)
	engine.GET("/manage_investor", s.ctrl.ManageInvestorForm)
	engine.GET("/add_holdings", s.ctrl.AddHoldingsForm)

	// write workflows
	engine.POST("/add", s.ctrl.AddInvestor)
	engine.POST("/update_investor", s.ctrl.UpdateInvestor)
	engine.POST("/delete_investor", s.ctrl.DeleteInvestor)
	engine.POST("/submit_holdings", s.ctrl.SubmitHoldings)

	engine.GET("/portfolios/export", s.ctrl.ExportPortfolios)

	engine.GET("/login", s.ctrl.Login)
}

func (s *WebServer) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("webserver failed", slog.String("err", err.Error()))
			panic(err)
		}
	}()
	slog.Info("webserver started!", slog.String("addr", s.srv.Addr))
}

func (s *WebServer) Stop() {
	slog.Info("start stopping webserver")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		slog.Error("webserver shutdown error", slog.String("err", err.Error()))
	}

	slog.Info("webserver stopped")
}
