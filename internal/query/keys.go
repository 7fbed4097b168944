package query

import (
	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcncl/jsonast/internal/models"
)

// RenameKeys rewrites every field name in v with fn.
func RenameKeys(v models.Value, fn func(string) string) models.Value {
	return MapField(v, func(f models.Field) models.Field {
		return models.F(fn(f.Name), f.Value)
	})
}

// CamelizeKeys turns every field name into lowerCamelCase: "first_name"
// becomes "firstName".
func CamelizeKeys(v models.Value) models.Value {
	return RenameKeys(v, strcase.ToLowerCamel)
}

// PascalizeKeys turns every field name into UpperCamelCase.
func PascalizeKeys(v models.Value) models.Value {
	return RenameKeys(v, strcase.ToCamel)
}

// SnakizeKeys turns every field name into snake_case: "firstName" becomes
// "first_name".
func SnakizeKeys(v models.Value) models.Value {
	return RenameKeys(v, strcase.ToSnake)
}

// UpperKeys upper-cases every field name using Unicode case mapping.
func UpperKeys(v models.Value) models.Value {
	c := cases.Upper(language.Und)
	return RenameKeys(v, c.String)
}
