package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// constraintError maps a postgres constraint violation to the sentinel
// registered for that constraint name. Unknown errors are returned as is.
func constraintError(err error, code string, byConstraint map[string]error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return err
	}
	if mapped, ok := byConstraint[pqErr.Constraint]; ok {
		return mapped
	}
	return err
}

// marshalJSONB encodes v as text; lib/pq would send a []byte as bytea.
func marshalJSONB(v interface{}) (string, error) {
	if v == nil {
		return "null", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode jsonb column: %w", err)
	}
	return string(b), nil
}

func unmarshalJSONB(raw []byte, dst interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode jsonb column: %w", err)
	}
	return nil
}
