package contract

// ListParams are the query parameters shared by list endpoints.
type ListParams struct {
	Limit   int
	Cursor  int
	OrderBy string
	Filters map[string]string
	From    string
	To      string
}

type ListResponse[T any] struct {
	OK     bool `json:"ok"`
	Data   []T  `json:"data"`
	Total  int  `json:"total"`
	Cursor *int `json:"cursor"`
}

type DataResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type DashboardResponse struct {
	TotalIndicacoes  int     `json:"total_indicacoes"`
	TotalIndicadores int     `json:"total_indicadores"`
	TotalVendas      int     `json:"total_vendas"`
	TaxaConversao    float64 `json:"taxa_conversao"`
	FaturamentoTotal float64 `json:"faturamento_total"`
}

type TableDiag struct {
	Table   string   `json:"table"`
	Headers []string `json:"headers"`
	Missing []string `json:"missing,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type LogResponse struct {
	ID        string `json:"log_id"`
	Acao      string `json:"acao"`
	Ator      string `json:"ator"`
	Payload   string `json:"payload"`
	Timestamp string `json:"timestamp"`
}
