package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"nbrb-rates/internal/adapter/postgres"
	"nbrb-rates/internal/entity"
	"nbrb-rates/internal/service"
	"nbrb-rates/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
)

const dateAndCurrencyRequired = "Date and currency must be specified."

type CurrencyHandler struct {
	usecase usecase.RateUsecase
	logger  *logrus.Logger
}

func NewRateHandler(usecase usecase.RateUsecase, logger *logrus.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *CurrencyHandler) SelectDate(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.SelectDate(c.Request.Context()))
}

// LoadRate serves the rate selection data, or redirects to the rate once
// both a date and a currency are given.
func (h *CurrencyHandler) LoadRate(c *gin.Context) {
	if c.Request.URL.RawQuery == "" {
		form, err := h.usecase.RateForm(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
			return
		}
		c.JSON(http.StatusOK, form)
		return
	}

	var q RateSelectQuery
	_ = c.ShouldBindQuery(&q)
	if q.Date == "" || q.Currency == "" {
		c.JSON(http.StatusBadRequest, RateSelectError{
			DateRate: q.Date,
			Currency: q.Currency,
			Message:  dateAndCurrencyRequired,
		})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/rates/get_rate/%s/%s", url.PathEscape(q.Date), url.PathEscape(q.Currency)))
}

func (h *CurrencyHandler) GetRate(c *gin.Context) {
	log := requestLogger(c, h.logger)

	var uri GetRateURI
	if err := c.ShouldBindUri(&uri); err != nil {
		field, _ := failedField(err)
		reqErr := usecase.InvalidDateError(c.Param("date"))
		if field == "Currency" {
			reqErr = usecase.InvalidCodeError(c.Param("currency"))
		}
		log.WithError(err).Warn("Invalid rate request")
		jsonWithCRC(c, http.StatusBadRequest, MessageResponse{Message: reqErr.Message})
		return
	}

	resp, err := h.usecase.GetRate(c.Request.Context(), uri.Date, uri.Currency)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	jsonWithCRC(c, http.StatusOK, resp)
}

func (h *CurrencyHandler) ImportRates(c *gin.Context) {
	log := requestLogger(c, h.logger)

	dateStr, err := importDate(c)
	if err != nil {
		log.WithError(err).Warn("Invalid import request")
		jsonWithCRC(c, http.StatusBadRequest, MessageResponse{Message: usecase.InvalidDateError(dateStr).Message})
		return
	}
	log = log.WithField("date", dateStr)

	resp, err := h.usecase.ImportRates(c.Request.Context(), dateStr)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	status := http.StatusNotAcceptable
	switch resp.Status {
	case entity.ImportCreated:
		status = http.StatusCreated
	case entity.ImportConflict:
		status = http.StatusConflict
	}
	log.WithField("inserted", resp.Inserted).Infof("Import finished with %d", status)
	jsonWithCRC(c, status, resp)
}

// importDate reads the date from a form field or a JSON body.
func importDate(c *gin.Context) (string, error) {
	if c.ContentType() == binding.MIMEJSON {
		var req ImportJSONRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return req.DateImport, err
		}
		return req.DateImport, nil
	}

	var req ImportFormRequest
	if err := c.ShouldBind(&req); err != nil {
		return req.Date, err
	}
	return req.Date, nil
}

func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.usecase.ListCurrencies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}
	c.JSON(http.StatusOK, currencies)
}

func (h *CurrencyHandler) LoadCatalog(c *gin.Context) {
	resp, err := h.usecase.LoadCatalog(c.Request.Context(), nil)
	if err != nil {
		requestLogger(c, h.logger).WithError(err).Error("Failed to load catalog")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load currency catalog"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CurrencyHandler) Health(c *gin.Context) {
	if err := h.usecase.Ping(c.Request.Context()); err != nil {
		requestLogger(c, h.logger).WithError(err).Error("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CurrencyHandler) writeError(c *gin.Context, log *logrus.Entry, err error) {
	var reqErr *usecase.RequestError
	if !errors.As(err, &reqErr) {
		log.WithError(err).Error("Request failed")
		jsonWithCRC(c, http.StatusInternalServerError, MessageResponse{Message: "Internal server error."})
		return
	}

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnresolvedCurrency):
		status = http.StatusBadGateway
	}
	log.WithError(err).Warnf("Request rejected with %d", status)
	jsonWithCRC(c, status, MessageResponse{Message: reqErr.Message})
}
