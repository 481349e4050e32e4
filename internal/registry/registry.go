// Package registry provides the entity/schema registry consumed by the
// schema knowledge adapter.
//
// The Postgres implementation derives entity-type definitions from
// information_schema: one entity type per base table, fields from columns,
// link options from foreign-key references. A Static implementation serves
// tests and offline tooling.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/growthsuite/gschat/internal/knowledge"
)

// Querier is the subset of pgxpool.Pool the registry needs.
// Consumer-defined so tests can substitute a mock.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// columnQuery lists every column of every public base table together with
// the table a foreign key points at, in declaration order.
const columnQuery = `
SELECT c.table_name,
       c.column_name,
       c.data_type,
       COALESCE(ccu.table_name, '') AS ref_table
FROM information_schema.columns c
JOIN information_schema.tables t
  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
LEFT JOIN information_schema.key_column_usage kcu
  ON kcu.table_schema = c.table_schema
 AND kcu.table_name = c.table_name
 AND kcu.column_name = c.column_name
LEFT JOIN information_schema.table_constraints tc
  ON tc.constraint_name = kcu.constraint_name
 AND tc.constraint_type = 'FOREIGN KEY'
LEFT JOIN information_schema.constraint_column_usage ccu
  ON ccu.constraint_name = tc.constraint_name
WHERE c.table_schema = 'public'
  AND t.table_type = 'BASE TABLE'
ORDER BY c.table_name, c.ordinal_position
`

// Postgres reads entity-type definitions from a live database.
type Postgres struct {
	db     Querier
	logger *slog.Logger
}

// NewPostgres creates a registry over the given querier (usually a pgxpool).
func NewPostgres(db Querier, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: db, logger: logger}
}

// ListEntityTypes implements knowledge.EntityRegistry. Returns at most limit
// entity types, in table-name order.
func (p *Postgres) ListEntityTypes(ctx context.Context, limit int) ([]knowledge.EntityType, error) {
	rows, err := p.db.Query(ctx, columnQuery)
	if err != nil {
		return nil, fmt.Errorf("querying information_schema: %w", err)
	}
	defer rows.Close()

	var types []knowledge.EntityType
	var current *knowledge.EntityType

	for rows.Next() {
		var tableName, columnName, dataType, refTable string
		if err := rows.Scan(&tableName, &columnName, &dataType, &refTable); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}

		if current == nil || current.Name != prettyName(tableName) {
			if limit > 0 && len(types) == limit {
				break
			}
			types = append(types, knowledge.EntityType{
				Name:   prettyName(tableName),
				Module: "public",
			})
			current = &types[len(types)-1]
		}

		field := knowledge.EntityField{
			Name: columnName,
			Type: fieldType(dataType, refTable),
		}
		if refTable != "" {
			field.Options = prettyName(refTable)
		}
		current.Fields = append(current.Fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading column rows: %w", err)
	}

	p.logger.Debug("listed entity types", "count", len(types))
	return types, nil
}

// fieldType maps a SQL data type (plus FK presence) onto the field kinds the
// schema adapter documents.
func fieldType(dataType, refTable string) string {
	if refTable != "" {
		return "Link"
	}
	switch dataType {
	case "character varying", "character", "text", "uuid":
		return "Data"
	case "integer", "bigint", "smallint":
		return "Int"
	case "numeric", "money":
		return "Currency"
	case "double precision", "real":
		return "Float"
	case "date":
		return "Date"
	case "timestamp with time zone", "timestamp without time zone":
		return "Datetime"
	case "boolean":
		return "Check"
	default:
		return "Data"
	}
}

// prettyName converts snake_case table names to the Title Case labels users
// see in the application ("sales_invoice" to "Sales Invoice").
func prettyName(table string) string {
	parts := strings.Split(table, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// Static is a fixed-content registry for tests and offline tooling.
type Static struct {
	Types []knowledge.EntityType
}

// ListEntityTypes implements knowledge.EntityRegistry.
func (s Static) ListEntityTypes(_ context.Context, limit int) ([]knowledge.EntityType, error) {
	if limit > 0 && len(s.Types) > limit {
		return s.Types[:limit], nil
	}
	return s.Types, nil
}
