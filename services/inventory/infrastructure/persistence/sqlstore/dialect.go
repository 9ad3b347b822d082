package sqlstore

import "github.com/jmoiron/sqlx"

// rebindFor returns a function rewriting "?" placeholders into the bind
// syntax of driver ("$1" for pgx). Queries in this package never contain a
// literal "?".
func rebindFor(driver string) func(string) string {
	bind := sqlx.BindType(driver)
	return func(q string) string { return sqlx.Rebind(bind, q) }
}
