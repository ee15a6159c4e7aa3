package pncp

import (
	"encoding/json"

	"github.com/pncpbot/backend/internal/domain"
)

// searchResponse is the envelope returned by the PNCP search API
type searchResponse struct {
	Items []processPayload `json:"items"`
	Total int              `json:"total"`
}

// processPayload mirrors one search result as the API ships it. The API is
// loose about numeric fields (ano and numero_sequencial arrive as numbers or
// strings depending on the endpoint version), hence json.Number.
type processPayload struct {
	NumeroControlePNCP string      `json:"numero_controle_pncp"`
	ItemURL            string      `json:"item_url"`
	Description        string      `json:"description"`
	OrgaoNome          string      `json:"orgao_nome"`
	OrgaoCNPJ          string      `json:"orgao_cnpj"`
	Ano                json.Number `json:"ano"`
	NumeroSequencial   json.Number `json:"numero_sequencial"`
	DataPublicacaoPNCP string      `json:"data_publicacao_pncp"`
	UF                 string      `json:"uf"`
}

// itemPayload mirrors one line item as the items API ships it
type itemPayload struct {
	NumeroItem            int     `json:"numeroItem"`
	Descricao             string  `json:"descricao"`
	Quantidade            float64 `json:"quantidade"`
	UnidadeMedida         string  `json:"unidadeMedida"`
	ValorUnitarioEstimado float64 `json:"valorUnitarioEstimado"`
	ValorTotal            float64 `json:"valorTotal"`
	TemResultado          bool    `json:"temResultado"`
}

// mapProcess converts a search payload entry to the domain Process model
func mapProcess(p processPayload) domain.Process {
	return domain.Process{
		ControlNumber: p.NumeroControlePNCP,
		ItemURL:       p.ItemURL,
		Description:   p.Description,
		OrgaoName:     p.OrgaoNome,
		OrgaoCNPJ:     p.OrgaoCNPJ,
		Ano:           p.Ano.String(),
		Seq:           p.NumeroSequencial.String(),
		PublishedAt:   p.DataPublicacaoPNCP,
		UF:            p.UF,
	}
}

// mapItem converts an items payload entry to the domain Item model
func mapItem(it itemPayload) domain.Item {
	return domain.Item{
		Number:    it.NumeroItem,
		Descricao: it.Descricao,
		Quantity:  it.Quantidade,
		Unit:      it.UnidadeMedida,
		UnitPrice: it.ValorUnitarioEstimado,
		Total:     it.ValorTotal,
		HasResult: it.TemResultado,
	}
}
