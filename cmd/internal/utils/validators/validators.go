package validators

import (
	"github.com/go-playground/validator/v10"
	"indicacoes/cmd/internal/domain/entity"
	"reflect"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Register installs the custom tags used by request contracts. Field errors
// are reported under the json name of the field.
func Register(validate *validator.Validate) {
	validate.RegisterTagNameFunc(jsonName)
	_ = validate.RegisterValidation("isodate", IsoDate)
	_ = validate.RegisterValidation("rewardstatus", RewardStatus)
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp, truncated to
// its date.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func IsoDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	_, ok := ParseDate(field.String())
	return ok
}

func RewardStatus(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return entity.RewardStatus(field.String()).Valid()
}
