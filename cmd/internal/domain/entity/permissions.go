package entity

// Action is an operation a user type may be granted on a route.
// Each action is one column of the Permissoes table.
type Action string

const (
	ActionVisualizar Action = "visualizar"
	ActionEditar     Action = "editar"
	ActionExcluir    Action = "excluir"
	ActionExportar   Action = "exportar"
)

// Wildcard matches any user type or route in a permission rule.
const Wildcard = "*"

// Permissao is one row of the Permissoes table. Tipo and Rota may be
// Wildcard.
type Permissao struct {
	Tipo  string
	Rota  string
	Acoes map[Action]bool
}

// Has reports whether the rule grants action.
func (p *Permissao) Has(action Action) bool {
	return p.Acoes[action]
}

// Covers reports whether the rule applies to the given user type and route.
func (p *Permissao) Covers(tipo, rota string) bool {
	return (p.Tipo == Wildcard || p.Tipo == tipo) &&
		(p.Rota == Wildcard || p.Rota == rota)
}
