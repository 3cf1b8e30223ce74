package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SaleCast/internal/domain/models"
)

func TestParseSalesCSV(t *testing.T) {
	in := strings.NewReader("date,sales,product_id\n" +
		"2024-06-02,5,SKU-1\n" +
		"2024-06-01,3,SKU-1\n" +
		"2024-06-02,2,SKU-1\n")

	sales, err := ParseSalesCSV(in)
	require.NoError(t, err)
	require.Len(t, sales, 2, "duplicate dates must be summed")

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), sales[0].Date)
	assert.Equal(t, 3.0, sales[0].Units)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), sales[1].Date)
	assert.Equal(t, 7.0, sales[1].Units)
	assert.Equal(t, "SKU-1", sales[1].ProductID)
}

func TestParseSalesCSVMissingColumns(t *testing.T) {
	in := strings.NewReader("day,amount\n2024-06-01,3\n")

	_, err := ParseSalesCSV(in)
	var se *models.SchemaError
	require.ErrorAs(t, err, &se)
	assert.ElementsMatch(t, []string{"date", "sales"}, se.Missing)
}

func TestParseSalesCSVInvalidRow(t *testing.T) {
	_, err := ParseSalesCSV(strings.NewReader("date,sales\nnot-a-date,3\n"))
	assert.Error(t, err)

	_, err = ParseSalesCSV(strings.NewReader("date,sales\n2024-06-01,many\n"))
	assert.Error(t, err)
}
