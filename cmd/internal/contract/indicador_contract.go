package contract

type IndicadorResponse struct {
	ID        string `json:"indicador_id"`
	Nome      string `json:"nome"`
	Telefone  string `json:"telefone"`
	Email     string `json:"email"`
	Empresa   string `json:"empresa"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Status    string `json:"status"`
}

type IndicadorRequest struct {
	Nome     string `json:"nome" validate:"required,min=2,max=120"`
	Telefone string `json:"telefone" validate:"required,max=32"`
	Email    string `json:"email" validate:"omitempty,email"`
	Empresa  string `json:"empresa" validate:"max=120"`
}

type UpdateIndicadorRequest struct {
	Nome     *string `json:"nome" validate:"omitempty,min=2,max=120"`
	Telefone *string `json:"telefone" validate:"omitempty,max=32"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Empresa  *string `json:"empresa" validate:"omitempty,max=120"`
}
