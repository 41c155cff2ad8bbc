package service

import (
	"errors"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/domain/sheetstore"
	"indicacoes/cmd/internal/domain/validation"
	"indicacoes/cmd/internal/utils"
	"indicacoes/cmd/internal/utils/apierror"
	"time"
)

func timestamp(now func() time.Time) string {
	return now().UTC().Format(sheetstore.TimeLayout)
}

// checkRequest sanitizes req in place and runs its validator tags.
func checkRequest(validate *validator.Validate, req any) apierror.ErrorResponse {
	utils.Sanitize(req)

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	if apierr := apierror.FromValidationError(err); apierr != nil {
		return apierr
	}
	log.Errorf("failed to validate request %T: %v", req, err)
	return apierror.InternalServerError
}

// failureOrStoreError maps a validation or storage error to its response.
// Rejections are expected and not logged.
func failureOrStoreError(msg string, err error) apierror.ErrorResponse {
	var failure *validation.Failure
	if errors.As(err, &failure) {
		return apierror.FromFailure(failure)
	}

	log.Errorf("%s: %v", msg, err)
	return apierror.FromStoreError(err)
}

func listQuery(p contract.ListParams, rangeColumn string) sheetstore.Query {
	filters := make(map[string]string, len(p.Filters)+1)
	for k, v := range p.Filters {
		filters[k] = v
	}
	if _, ok := filters[sheetstore.StatusColumn]; !ok {
		filters[sheetstore.StatusColumn] = sheetstore.StatusActive
	}

	q := sheetstore.Query{
		Filters: filters,
		OrderBy: p.OrderBy,
		Limit:   p.Limit,
		Cursor:  p.Cursor,
	}
	if rangeColumn != "" && (p.From != "" || p.To != "") {
		q.Ranges = map[string]sheetstore.Range{rangeColumn: {From: p.From, To: p.To}}
	}
	return q
}
