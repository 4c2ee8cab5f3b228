package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"

	"assesscore/domain/core"
)

func marshalJSON(v interface{}) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

func unmarshalJSON(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// translateNotFound maps sql.ErrNoRows to the core's NotFound sentinel so
// callers never have to import database/sql to check this case (§7
// propagation policy: repository failures other than "missing" pass
// through verbatim).
func translateNotFound(err error, resource, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewNotFoundError(resource, id)
	}
	return err
}
