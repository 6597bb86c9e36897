package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
)

type RouterOptions struct {
	Logger       *logrus.Logger
	AllowOrigins []string
	// ImportLimiter guards the import endpoint; nil disables limiting.
	ImportLimiter *limiter.Limiter
	Metrics       http.Handler
}

func NewRouter(h *CurrencyHandler, opts RouterOptions) (*gin.Engine, error) {
	if err := RegisterValidations(); err != nil {
		return nil, fmt.Errorf("register validations: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(opts.Logger))

	corsCfg := cors.Config{
		AllowOrigins:     opts.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", crcHeader, requestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	rates := r.Group("/rates")
	{
		rates.GET("/select_date", h.SelectDate)
		rates.GET("/load_rate", h.LoadRate)
		rates.GET("/get_rate/:date/:currency", h.GetRate)

		importChain := []gin.HandlerFunc{h.ImportRates}
		if opts.ImportLimiter != nil {
			importChain = append([]gin.HandlerFunc{RateLimit(opts.ImportLimiter, opts.Logger)}, importChain...)
		}
		rates.POST("/import_rates", importChain...)
	}

	r.GET("/currencies", h.ListCurrencies)
	r.POST("/currencies/load", h.LoadCatalog)

	r.GET("/healthz", h.Health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	return r, nil
}
