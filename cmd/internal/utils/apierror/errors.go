package apierror

import (
	"errors"
	"fmt"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/domain/validation"
	"indicacoes/cmd/internal/infrastructure/gsheets"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

const (
	CodeInvalidJSON         = "INVALID_JSON"
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeSchema              = "SHEET_SCHEMA_ERROR"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeUnexpected          = "UNEXPECTED"
)

// APIError serializes as {"ok": false, "error": {...}}.
type APIError struct {
	OK     bool `json:"ok"`
	Error  Body `json:"error"`
	Status int  `json:"-"`
}

type Body struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func (a *APIError) Code() int {
	return a.Status
}

// With returns a copy carrying an extra detail entry.
func (a *APIError) With(key string, value any) *APIError {
	details := make(map[string]any, len(a.Error.Details)+1)
	for k, v := range a.Error.Details {
		details[k] = v
	}
	details[key] = value

	cp := *a
	cp.Error.Details = details
	return &cp
}

var (
	MalformedJSONError    = New(http.StatusBadRequest, CodeInvalidJSON, "Corpo não é JSON válido")
	InvalidAuthTokenError = New(http.StatusUnauthorized, CodeUnauthorized, "Token de acesso inválido")
	ForbiddenError        = New(http.StatusForbidden, CodeForbidden, "Sem permissão para esta operação")
	NotFoundError         = New(http.StatusNotFound, CodeNotFound, "Registro não encontrado")
	InternalServerError   = New(http.StatusInternalServerError, CodeUnexpected, "Erro interno")
)

func New(status int, code, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{
		Status: status,
		Error:  Body{Code: code, Message: msg, Details: map[string]any{}},
	}
}

func NewInvalidParamError(name, expected string) *APIError {
	return New(http.StatusBadRequest, CodeBadRequest, "Parâmetro '%s' inválido, esperado: %s", name, expected)
}

func FromValidationError(err error) *APIError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "Campo obrigatório")
		case "min":
			problems[field] = append(problems[field], "Valor muito curto, mínimo: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Valor muito longo, máximo: "+fe.Param())
		case "gte":
			problems[field] = append(problems[field], "Valor deve ser maior ou igual a "+fe.Param())
		case "email":
			problems[field] = append(problems[field], "E-mail inválido")
		case "isodate":
			problems[field] = append(problems[field], "Data deve estar no formato AAAA-MM-DD")
		case "rewardstatus":
			problems[field] = append(problems[field], "Valores permitidos: Nao, EmProcessamento, Sim")

		default:
			problems[field] = append(problems[field], "Valor inválido")
		}
	}

	return New(http.StatusUnprocessableEntity, CodeValidation, "Dados inválidos").With("fields", problems)
}

func FromFailure(f *validation.Failure) *APIError {
	status, code := http.StatusUnprocessableEntity, CodeValidation
	if f.Kind == validation.KindConflict {
		status, code = http.StatusConflict, CodeConflict
	}

	apierr := New(status, code, f.Reason)
	if f.Field != "" {
		apierr = apierr.With("field", f.Field)
	}
	return apierr
}

// FromStoreError maps a storage-layer error onto the wire error kinds.
func FromStoreError(err error) *APIError {
	var (
		failure   *validation.Failure
		schemaErr *sheetstore.SchemaError
	)

	switch {
	case errors.As(err, &failure):
		return FromFailure(failure)
	case errors.As(err, &schemaErr):
		return New(http.StatusInternalServerError, CodeSchema, "Cabeçalho da aba '%s' fora do esperado", schemaErr.Table).
			With("missing", schemaErr.Missing)
	case errors.Is(err, gsheets.ErrTableNotFound):
		return New(http.StatusInternalServerError, CodeSchema, "Aba não encontrada na planilha").
			With("cause", err.Error())
	case errors.Is(err, sheetstore.ErrConflict):
		return New(http.StatusConflict, CodeConflict, "Registro alterado por outra operação, tente novamente")
	case errors.Is(err, gsheets.ErrRetriesExhausted), gsheets.IsTransient(err):
		return New(http.StatusServiceUnavailable, CodeUpstreamUnavailable, "Planilha indisponível no momento")
	default:
		return New(http.StatusInternalServerError, CodeUnexpected, "Erro inesperado").
			With("cause", err.Error())
	}
}
