package database

import (
	"database/sql/driver"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	"gorm.io/gorm"
)

// foldFunction lowercases text on SQLite with Go's Unicode tables. The builtin
// LOWER there only knows ASCII.
const foldFunction = "unicode_lower"

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(foldFunction, 1,
		func(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch s := args[0].(type) {
			case string:
				return foldText(s), nil
			case []byte:
				return foldText(string(s)), nil
			}
			return args[0], nil
		})
}

// foldText is the case folding applied to filter values and, through foldColumn, to columns.
func foldText(s string) string {
	return strings.ToLower(s)
}

func foldColumn(tx *gorm.DB, column string) string {
	if tx.Dialector.Name() == "sqlite" {
		return foldFunction + "(" + column + ")"
	}
	return "LOWER(" + column + ")"
}
