package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "SaleCast/internal/domain/models"
	"SaleCast/internal/usecase"
	applogger "SaleCast/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	sales []models.Sale
	err   error
}

func (f *fakeHistory) LoadHistory(_ context.Context, _ string) ([]models.Sale, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sales, nil
}

func (f *fakeHistory) LastSaleDates(_ context.Context) ([]models.ProductActivity, error) {
	return []models.ProductActivity{
		{ProductID: "p1", LastSale: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
	}, nil
}

func (f *fakeHistory) Health(_ context.Context) error { return f.err }

type nopRecorder struct{}

func (nopRecorder) RecordForecast(string)             {}
func (nopRecorder) RecordIngest(string, string)       {}
func (nopRecorder) RecordError(string)                {}
func (nopRecorder) RecordLastForecast(string, float64) {}
func (nopRecorder) RecordLatency(string, float64)     {}

func constantSales(n int, units float64) []models.Sale {
	sales := make([]models.Sale, n)
	for i := range sales {
		sales[i] = models.Sale{
			ProductID: "p1",
			Date:      time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC),
			Units:     units,
		}
	}
	return sales
}

func newTestHandler(t *testing.T, history *fakeHistory) *ForecastEchoHandler {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	uc := usecase.NewForecastUseCase(history, nil, nopRecorder{}, usecase.ForecastConfig{
		Window:     7,
		Trials:     10,
		Volatility: 0, // deterministic output
	})
	return NewForecastEchoHandler(l, uc, RateLimit{})
}

func postJSON(h echo.HandlerFunc, path, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (int, map[string]interface{}) {
	t.Helper()
	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	var data map[string]interface{}
	if len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		require.NoError(t, json.Unmarshal(envelope.Data, &data))
	}
	return envelope.Status, data
}

func TestForecastEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{sales: constantSales(10, 42)})

	rec, err := postJSON(h.Forecast, "/api/forecast", `{"product_id":"p1","steps":3}`)
	require.NoError(t, err)

	status, data := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p1", data["product_id"])
	assert.InDelta(t, 42, data["final_prediction"].(float64), 1e-9)
	assert.Len(t, data["forecasts"], 3)
}

func TestForecastEndpointMissingProduct(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{sales: constantSales(10, 42)})

	rec, err := postJSON(h.Forecast, "/api/forecast", `{"steps":1}`)
	require.NoError(t, err)

	status, _ := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestForecastEndpointNoHistory(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{err: models.ErrNoHistory})

	rec, err := postJSON(h.Forecast, "/api/forecast", `{"product_id":"ghost"}`)
	require.NoError(t, err)

	status, _ := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestForecastEndpointInsufficientHistory(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{sales: constantSales(3, 5)})

	rec, err := postJSON(h.Forecast, "/api/forecast", `{"product_id":"p1"}`)
	require.NoError(t, err)

	var envelope struct {
		Status int `json:"status"`
		Data   []struct {
			Code   string                 `json:"code"`
			Params map[string]interface{} `json:"params"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusUnprocessableEntity, envelope.Status)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "ERR_INSUFFICIENT_HISTORY", envelope.Data[0].Code)
	assert.EqualValues(t, 7, envelope.Data[0].Params["need"])
	assert.EqualValues(t, 3, envelope.Data[0].Params["got"])
}

func TestForecastSeriesEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{})

	points := make([]string, 0, 10)
	for i := 1; i <= 10; i++ {
		points = append(points, fmt.Sprintf(`{"date":"2024-06-%02d","sales":42}`, i))
	}
	body := `{"series":[` + strings.Join(points, ",") + `],"steps":1}`

	rec, err := postJSON(h.ForecastSeries, "/api/forecast/series", body)
	require.NoError(t, err)

	status, data := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.AdHocProductID, data["product_id"])
	assert.InDelta(t, 42, data["final_prediction"].(float64), 1e-9)
}

func uploadContext(t *testing.T, filename, csvBody string, fields map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/forecast/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func constantCSV(n int, units float64) string {
	var b strings.Builder
	b.WriteString("date,sales\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "2024-06-%02d,%g\n", i, units)
	}
	return b.String()
}

func TestForecastUploadHappyPath(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{})

	rec, c := uploadContext(t, "sales.csv", constantCSV(10, 42), map[string]string{"steps": "2"})
	require.NoError(t, h.ForecastUpload(c))

	status, data := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 42, data["final_prediction"].(float64), 1e-9)
	assert.Len(t, data["forecasts"], 2)
}

func TestForecastUploadRejectsOutOfRangeSteps(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{})

	for _, steps := range []string{"1000", "-5", "0"} {
		rec, c := uploadContext(t, "sales.csv", constantCSV(10, 42), map[string]string{"steps": steps})
		require.NoError(t, h.ForecastUpload(c))

		status, _ := decodeEnvelope(t, rec)
		assert.Equal(t, http.StatusBadRequest, status, "steps=%s", steps)
	}
}

func TestForecastUploadRejectsNonCSV(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/forecast/upload", nil)
	rec := httptest.NewRecorder()
	err := h.ForecastUpload(e.NewContext(req, rec))
	require.NoError(t, err)

	status, _ := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProductActivityEndpoint(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products/activity", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ProductActivity(e.NewContext(req, rec)))

	var envelope struct {
		Status int `json:"status"`
		Data   []struct {
			ProductID string `json:"product_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, envelope.Status)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "p1", envelope.Data[0].ProductID)
}

func TestRateLimitedForecast(t *testing.T) {
	h := newTestHandler(t, &fakeHistory{sales: constantSales(10, 42)})
	h.limit = RateLimit{Capacity: 1, RefillPerSec: 0}

	rec, err := postJSON(h.Forecast, "/api/forecast", `{"product_id":"p1"}`)
	require.NoError(t, err)
	status, _ := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, status)

	rec, err = postJSON(h.Forecast, "/api/forecast", `{"product_id":"p1"}`)
	require.NoError(t, err)

	var envelope struct {
		Status int `json:"status"`
		Data   []struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusTooManyRequests, envelope.Status)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "ERR_RATE_LIMITED", envelope.Data[0].Code)
}
