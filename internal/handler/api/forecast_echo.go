package api

import (
	"errors"
	"net/http"
	"strings"

	models "SaleCast/internal/domain/models"
	domrepo "SaleCast/internal/domain/repository"
	svcmetrics "SaleCast/internal/service/metrics"
	"SaleCast/internal/service/ratelimit"
	"SaleCast/internal/usecase"
	xhttp "SaleCast/pkg/http"
	xlogger "SaleCast/pkg/logger"
	xutil "SaleCast/pkg/util"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// maxForecastSteps caps the horizon on the upload path, matching the
// lte bound on the JSON request structs.
const maxForecastSteps = 365

// RateLimit bounds the forecast endpoints; Monte Carlo is the expensive path.
type RateLimit struct {
	Capacity     float64
	RefillPerSec float64
}

// ForecastEchoHandler implements Echo-based HTTP handlers for forecasting.
type ForecastEchoHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.ForecastUseCase
	limiter *ratelimit.Limiter
	limit   RateLimit
}

func NewForecastEchoHandler(logger *xlogger.Logger, uc *usecase.ForecastUseCase, limit RateLimit) *ForecastEchoHandler {
	svcmetrics.Register()
	return &ForecastEchoHandler{
		logger:  logger,
		uc:      uc,
		limiter: ratelimit.New(),
		limit:   limit,
	}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			timer := prometheus.NewTimer(svcmetrics.APILatency.WithLabelValues(c.Path()))
			defer timer.ObserveDuration()
			return next(c)
		}
	})
	g.POST("/forecast", h.Forecast)
	g.POST("/forecast/series", h.ForecastSeries)
	g.POST("/forecast/upload", h.ForecastUpload)
	g.GET("/products/activity", h.ProductActivity)
	e.GET("/healthz", h.Health)
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	if !h.allow(c) {
		return tooManyRequests(c)
	}
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	g := domrepo.NormalizeGranularity(req.Granularity)

	res, err := h.uc.ForecastForProduct(c.Request().Context(), strings.TrimSpace(req.ProductID), g, req.Steps)
	if err != nil {
		return h.respondError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) ForecastSeries(c echo.Context) error {
	if !h.allow(c) {
		return tooManyRequests(c)
	}
	req := &models.SeriesForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	g := domrepo.NormalizeGranularity(req.Granularity)

	sales, err := usecase.SalesFromPayload(req.Series)
	if err != nil {
		return xhttp.BadRequestResponse(c, []*xhttp.AppError{xhttp.BadRequestError(err.Error())})
	}

	res, err := h.uc.ForecastForSeries(c.Request().Context(), sales, g, req.Steps)
	if err != nil {
		return h.respondError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) ForecastUpload(c echo.Context) error {
	if !h.allow(c) {
		return tooManyRequests(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return xhttp.BadRequestResponse(c, []*xhttp.AppError{xhttp.BadRequestError("csv file is required")})
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".csv") {
		return xhttp.BadRequestResponse(c, []*xhttp.AppError{xhttp.BadRequestError("only .csv uploads are accepted")})
	}

	f, err := fh.Open()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("open upload: %v", err))
	}
	defer f.Close()

	sales, err := usecase.ParseSalesCSV(f)
	if err != nil {
		return h.respondError(c, err)
	}

	g := domrepo.NormalizeGranularity(c.FormValue("granularity"))
	steps := xutil.ParseIntDefault(c.FormValue("steps"), 1)
	if steps < 1 || steps > maxForecastSteps {
		return xhttp.BadRequestResponse(c, []*xhttp.AppError{
			xhttp.BadRequestErrorf("steps must be between 1 and %d", maxForecastSteps)})
	}

	res, err := h.uc.ForecastForSeries(c.Request().Context(), sales, g, steps)
	if err != nil {
		return h.respondError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) ProductActivity(c echo.Context) error {
	activity, err := h.uc.ProductActivity(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return xhttp.SuccessResponse(c, activity)
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	if err := h.uc.Health(c.Request().Context()); err != nil {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_STORAGE_UNAVAILABLE", "", "sales storage unavailable", http.StatusServiceUnavailable))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// respondError maps domain errors onto the HTTP taxonomy.
func (h *ForecastEchoHandler) respondError(c echo.Context, err error) error {
	svcmetrics.APIErrors.WithLabelValues(c.Path()).Inc()
	var (
		schemaErr  *models.SchemaError
		historyErr *models.InsufficientHistoryError
	)
	switch {
	case errors.As(err, &schemaErr):
		return xhttp.BadRequestResponse(c, []*xhttp.AppError{xhttp.BadRequestError(schemaErr.Error())})
	case errors.Is(err, models.ErrNoHistory):
		// No rows is an empty result, not a failure.
		return xhttp.NotFoundResponse(c, []models.ForecastPoint{})
	case errors.As(err, &historyErr):
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_INSUFFICIENT_HISTORY", "", historyErr.Error(), http.StatusUnprocessableEntity).
				WithParam("need", historyErr.Need).
				WithParam("got", historyErr.Got))
	case errors.Is(err, models.ErrStorageUnavailable):
		h.logger.Error("sales storage unavailable", xlogger.Error(err))
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_STORAGE_UNAVAILABLE", "", "sales storage unavailable", http.StatusServiceUnavailable))
	default:
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}

func (h *ForecastEchoHandler) allow(c echo.Context) bool {
	if h.limit.Capacity <= 0 {
		return true
	}
	return h.limiter.Allow(c.RealIP(), h.limit.Capacity, h.limit.RefillPerSec)
}

func tooManyRequests(c echo.Context) error {
	return xhttp.AppErrorResponse(c,
		xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many forecast requests", http.StatusTooManyRequests))
}
