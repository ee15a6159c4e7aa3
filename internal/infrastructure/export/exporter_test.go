package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pncpbot/backend/internal/domain"
)

func sampleRecords() []domain.Record {
	return []domain.Record{
		{
			ProcessID:       "00038000000199-1-000001/2026",
			ItemID:          1,
			Descricao:       "CABO VERMELHO 2,5MM",
			Quantidade:      100,
			Unidade:         "M",
			ValorUnitario:   2.5,
			ValorTotal:      250,
			Fornecedor:      "N/A",
			Contratante:     "Prefeitura de Salvador",
			DataPublicacao:  "2026-02-01T10:00:00",
			SourceURL:       "https://pncp.gov.br/app/editais/12345678000199/2026/42",
			MatchedKeywords: "cabo [vermelho]",
			MatchQuality:    "exact",
			Status:          "pending",
		},
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	exporter := NewFileExporter()

	path, err := exporter.ExportJSON(sampleRecords(), dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []domain.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "CABO VERMELHO 2,5MM", decoded[0].Descricao)
	assert.Equal(t, "exact", decoded[0].MatchQuality)
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	exporter := NewFileExporter()

	path, err := exporter.ExportCSV(sampleRecords(), dir)

	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// UTF-8 BOM for spreadsheet tools
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "00038000000199-1-000001/2026", rows[1][0])
	assert.Equal(t, "1", rows[1][1])
	assert.Equal(t, "2.5", rows[1][5])
	assert.Equal(t, "pending", rows[1][14])
}

func TestExport_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	exporter := NewFileExporter()

	_, err := exporter.ExportJSON(sampleRecords(), dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "results.json"))
	assert.NoError(t, err)
}

func TestExportCSV_EmptyRecords(t *testing.T) {
	dir := t.TempDir()
	exporter := NewFileExporter()

	path, err := exporter.ExportCSV([]domain.Record{}, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
