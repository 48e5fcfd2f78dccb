package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"date", "amount", "transaction_id"},
		Rows: []map[string]string{
			{"date": "2026-08-01", "amount": "25000", "transaction_id": "TXN-1"},
			{"date": "2026-08-02", "amount": "5000"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "date,amount,transaction_id\n2026-08-01,25000,TXN-1\n2026-08-02,5000,\n", string(out))
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}
