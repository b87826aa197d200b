package sqlite

import (
	"database/sql"
	"encoding/json"
)

// encodeJSON serializes a nested document field into a nullable text column.
// Nil or empty values store as NULL so reads can distinguish "absent".
func encodeJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	s := string(data)
	if s == "null" || s == "[]" || s == "{}" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: s, Valid: true}, nil
}

// decodeJSON reads a nullable JSON text column into dst. A NULL column
// leaves dst at its zero value.
func decodeJSON(ns sql.NullString, dst any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), dst)
}
