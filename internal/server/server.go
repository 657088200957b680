package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	billingdomain "github.com/smallbiznis/printbill/internal/billing/domain"
	"github.com/smallbiznis/printbill/internal/config"
	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	customerdomain "github.com/smallbiznis/printbill/internal/customer/domain"
	devicegroupdomain "github.com/smallbiznis/printbill/internal/devicegroup/domain"
	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Contracts contractdomain.Service
	Customers customerdomain.Service
	Groups    devicegroupdomain.Service
	MeterLog  meterlogdomain.Service
	Billing   billingdomain.Service
}

type Server struct {
	log       *zap.Logger
	contracts contractdomain.Service
	customers customerdomain.Service
	groups    devicegroupdomain.Service
	meterLog  meterlogdomain.Service
	billing   billingdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		log:       p.Log.Named("http.server"),
		contracts: p.Contracts,
		customers: p.Customers,
		groups:    p.Groups,
		meterLog:  p.MeterLog,
		billing:   p.Billing,
	}
}

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/v1")

	v1.POST("/contracts", s.createContract)
	v1.GET("/contracts/:device_id", s.getContract)
	v1.PUT("/contracts/:device_id", s.updateContract)

	v1.POST("/customers", s.createCustomer)
	v1.GET("/customers", s.listCustomers)
	v1.GET("/customers/:device_id", s.getCustomer)
	v1.DELETE("/customers/:device_id", s.removeCustomer)

	v1.GET("/devices/:device_id/group", s.getDeviceGroup)
	v1.GET("/devices/:device_id/readings/last", s.getLastReading)
	v1.GET("/devices/:device_id/summaries", s.getSummaries)

	v1.POST("/billing/cycles", s.runBillingCycle)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server, r *gin.Engine) {
		s.RegisterRoutes(r)
	}),
	fx.Invoke(RunHTTP),
)
