package pncp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProcess_NumericFieldsAsStrings(t *testing.T) {
	// ano and numero_sequencial arrive as JSON numbers on some endpoint
	// versions and as strings on others
	raw := `{
		"numero_controle_pncp": "00038000000199-1-000001/2026",
		"item_url": "/compras/12345678000199/2026/42",
		"orgao_nome": "Prefeitura de Salvador",
		"orgao_cnpj": "12345678000199",
		"ano": 2026,
		"numero_sequencial": 42,
		"data_publicacao_pncp": "2026-02-01T10:00:00"
	}`

	var payload processPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	p := mapProcess(payload)

	assert.Equal(t, "00038000000199-1-000001/2026", p.ControlNumber)
	assert.Equal(t, "2026", p.Ano)
	assert.Equal(t, "42", p.Seq)
	assert.Equal(t, "Prefeitura de Salvador", p.OrgaoName)
}

func TestMapItem_MissingFieldsDefault(t *testing.T) {
	var payload itemPayload
	require.NoError(t, json.Unmarshal([]byte(`{"numeroItem": 3, "descricao": "CABO"}`), &payload))

	item := mapItem(payload)

	assert.Equal(t, 3, item.Number)
	assert.Equal(t, "CABO", item.Descricao)
	assert.Zero(t, item.Quantity)
	assert.Zero(t, item.UnitPrice)
	assert.False(t, item.HasResult)
}
