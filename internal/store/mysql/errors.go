package mysql

import (
	"errors"

	gomysql "github.com/go-sql-driver/mysql"
)

// MySQL server error numbers this store cares about.
const (
	errDuplicateEntry   = 1062
	errDuplicateKeyName = 1061
)

func mysqlErrNumber(err error) uint16 {
	var me *gomysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// isDuplicateEntry reports a unique-constraint violation.
func isDuplicateEntry(err error) bool {
	return mysqlErrNumber(err) == errDuplicateEntry
}

// isDuplicateKeyName reports a duplicate index name (idempotent migrations).
func isDuplicateKeyName(err error) bool {
	return mysqlErrNumber(err) == errDuplicateKeyName
}
