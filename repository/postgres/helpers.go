package postgres

import (
	"encoding/json"
	"time"

	"github.com/fastygo/todowa/domain"
)

func marshalJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "encode snapshot column", err)
	}
	return b, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullDate(d *domain.Date) interface{} {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time()
}
