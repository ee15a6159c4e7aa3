package domain

import "strings"

// Record is the flat Process x Item x matches join handed to exporters
// and the review UI. Field names follow the export contract.
type Record struct {
	ProcessID       string  `json:"process_id"`
	ItemID          int     `json:"item_id"`
	Descricao       string  `json:"descricao"`
	Quantidade      float64 `json:"quantidade"`
	Unidade         string  `json:"unidade"`
	ValorUnitario   float64 `json:"valor_unitario"`
	ValorTotal      float64 `json:"valor_total"`
	Fornecedor      string  `json:"fornecedor"`
	Contratante     string  `json:"contratante"`
	DataPublicacao  string  `json:"data_publicacao"`
	SourceURL       string  `json:"source_url"`
	CapturePath     string  `json:"capture_path"`
	MatchedKeywords string  `json:"matched_keywords"`
	MatchQuality    string  `json:"match_quality"` // exact or partial
	Status          string  `json:"status"`        // review workflow: pending / approved / rejected
}

// BuildRecord merges process-level and item-level data with the match outcome.
// sourceURL points at the public portal page for the process.
func BuildRecord(proc Process, item Item, matches []MatchResult, sourceURL string) Record {
	hasExact := false
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.IsExact() {
			hasExact = true
		}
		labels = append(labels, m.Keyword.String())
	}

	quality := "partial"
	if hasExact {
		quality = "exact"
	}

	fornecedor := "N/A"
	if item.HasResult {
		// result data would need an extra API call; mark as available
		fornecedor = "(resultado disponível)"
	}

	return Record{
		ProcessID:       proc.ControlNumber,
		ItemID:          item.Number,
		Descricao:       item.Descricao,
		Quantidade:      item.Quantity,
		Unidade:         item.Unit,
		ValorUnitario:   item.UnitPrice,
		ValorTotal:      item.Total,
		Fornecedor:      fornecedor,
		Contratante:     proc.OrgaoName,
		DataPublicacao:  proc.PublishedAt,
		SourceURL:       sourceURL,
		MatchedKeywords: strings.Join(labels, ", "),
		MatchQuality:    quality,
		Status:          "pending",
	}
}
