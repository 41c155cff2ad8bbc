package handler

import (
	"github.com/labstack/echo/v4"
	"indicacoes/cmd/internal/contract"
	"indicacoes/cmd/internal/utils/apierror"
	"indicacoes/cmd/internal/utils/validators"
	"strconv"
	"strings"
)

const maxLimit = 500

// parseListParams reads limit, cursor, order_by, from/to and the equality
// filters named by filterKeys. Unknown query parameters are ignored.
func parseListParams(c echo.Context, filterKeys ...string) (contract.ListParams, apierror.ErrorResponse) {
	var params contract.ListParams

	limit, apierr := queryInt(c, "limit", maxLimit)
	if apierr != nil {
		return params, apierr
	}
	params.Limit = limit

	cursor, apierr := queryInt(c, "cursor", -1)
	if apierr != nil {
		return params, apierr
	}
	params.Cursor = cursor

	params.OrderBy = strings.TrimSpace(c.QueryParam("order_by"))

	for _, key := range []string{"from", "to"} {
		raw := strings.TrimSpace(c.QueryParam(key))
		if raw == "" {
			continue
		}

		t, ok := validators.ParseDate(raw)
		if !ok {
			return params, apierror.NewInvalidParamError(key, "AAAA-MM-DD")
		}

		if key == "from" {
			params.From = t.Format(validators.DateLayout)
		} else {
			params.To = t.Format(validators.DateLayout)
		}
	}

	for _, key := range filterKeys {
		if v := strings.TrimSpace(c.QueryParam(key)); v != "" {
			if params.Filters == nil {
				params.Filters = make(map[string]string)
			}
			params.Filters[key] = v
		}
	}
	return params, nil
}

// queryInt parses a non-negative integer; max < 0 means unbounded.
func queryInt(c echo.Context, key string, max int) (int, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.QueryParam(key))
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || (max >= 0 && v > max) {
		expected := "inteiro >= 0"
		if max >= 0 {
			expected = "inteiro entre 0 e " + strconv.Itoa(max)
		}
		return 0, apierror.NewInvalidParamError(key, expected)
	}
	return v, nil
}
