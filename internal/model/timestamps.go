package model

import (
	"time"

	"github.com/go-openapi/strfmt"

	"simpleorm/internal/orm"
)

const createdAt = "created_at"

// stampCreatedAt fills created_at in the insert candidate when it is empty
func stampCreatedAt(f orm.Fields) {
	switch v := f[createdAt].(type) {
	case nil:
	case string:
		if v != "" {
			return
		}
	default:
		return
	}
	f[createdAt] = strfmt.DateTime(time.Now().UTC()).String()
}

// normalizeCreatedAt rewrites created_at in the strfmt.DateTime text form
// whatever the driver returned (time.Time or a parseable string)
func normalizeCreatedAt(r *orm.Record) {
	if dt, ok := dateTime(r.Get(createdAt)); ok {
		r.Assign(createdAt, dt.String())
	}
}

func dateTime(v any) (strfmt.DateTime, bool) {
	switch x := v.(type) {
	case time.Time:
		return strfmt.DateTime(x), true
	case strfmt.DateTime:
		return x, true
	case string:
		if x == "" {
			return strfmt.DateTime{}, false
		}
		dt, err := strfmt.ParseDateTime(x)
		if err != nil {
			return strfmt.DateTime{}, false
		}
		return dt, true
	}
	return strfmt.DateTime{}, false
}
