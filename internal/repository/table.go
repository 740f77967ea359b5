package repository

import (
	"fmt"
	"strings"
)

// Table describes the mapping between a domain entity E and its storage row
// R, along with the conversions required to move between them. It provides
// the create-one/read-many operations every stored entity needs, so a
// concrete repository only supplies the mapping.
type Table[E, R any] struct {
	Name    string
	Columns []string
	// OrderBy is passed verbatim to the store; empty means store order.
	// Ordering is the store's responsibility, ReadMany never re-sorts.
	OrderBy string

	ToRow   func(E) R
	FromRow func(R) (E, error)
	// Args flattens a row into column values, in Columns order.
	Args func(R) []interface{}
	// Scan reads one result row into R, in Columns order.
	Scan func(scan func(dest ...interface{}) error) (R, error)
}

// CreateOne inserts a single entity. The entity is converted to its row form
// before any I/O, so a value that cannot serialize never reaches the store,
// and the single INSERT commits all columns atomically or not at all.
func (t *Table[E, R]) CreateOne(db SQLExecutor, entity E) error {
	row := t.ToRow(entity)

	placeholders := make([]string, len(t.Columns))
	for i := range t.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		t.Name,
		strings.Join(t.Columns, ", "),
		strings.Join(placeholders, ", "),
	)

	_, err := db.Exec(query, t.Args(row)...)
	return err
}

// ReadMany fetches every row, already ordered by the store, and converts
// each one back to its entity form. Any row that fails to scan or convert
// fails the whole read: a corrupt row usually means a schema mismatch, and
// returning a partial list would hide it.
func (t *Table[E, R]) ReadMany(db SQLExecutor) ([]E, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.Columns, ", "), t.Name)
	if t.OrderBy != "" {
		query += " ORDER BY " + t.OrderBy
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []E
	for rows.Next() {
		row, err := t.Scan(rows.Scan)
		if err != nil {
			return nil, err
		}

		entity, err := t.FromRow(row)
		if err != nil {
			return nil, err
		}

		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entities, nil
}
