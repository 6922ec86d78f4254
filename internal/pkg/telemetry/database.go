package telemetry

import (
	"database/sql"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel/attribute"
)

// OpenDB opens a traced *sql.DB. system identifies the database product on spans,
// e.g. semconv.DBSystemPostgreSQL.
func OpenDB(driverName, dsn string, system attribute.KeyValue) (*sql.DB, error) {
	return otelsql.Open(driverName, dsn,
		otelsql.WithAttributes(system),
	)
}
