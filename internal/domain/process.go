package domain

// Process is one procurement notice as returned by the PNCP search API.
// ControlNumber is the platform-wide opaque ID; the (CNPJ, Ano, Seq) triple
// addressed by ItemURL identifies the process for sub-resource calls.
type Process struct {
	ControlNumber string `json:"numero_controle_pncp"`
	ItemURL       string `json:"item_url"`
	OrgaoName     string `json:"orgao_nome"`
	OrgaoCNPJ     string `json:"orgao_cnpj"`
	Ano           string `json:"ano"`
	Seq           string `json:"numero_sequencial"`
	PublishedAt   string `json:"data_publicacao_pncp"`
	Description   string `json:"description"`
	UF            string `json:"uf"`
}

// Item is one line entry within a process's purchase list.
type Item struct {
	Number    int     `json:"numeroItem"`
	Descricao string  `json:"descricao"`
	Quantity  float64 `json:"quantidade"`
	Unit      string  `json:"unidadeMedida"`
	UnitPrice float64 `json:"valorUnitarioEstimado"`
	Total     float64 `json:"valorTotal"`
	HasResult bool    `json:"temResultado"`
}
