package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"compliancedocs/internal/model"
)

// NormalizeRecord decodes a document record delivered either flat or JSON:API style with
// its fields nested under "attributes". Keys may be snake_case or camelCase.
func NormalizeRecord(raw json.RawMessage) (model.DocumentRecord, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return model.DocumentRecord{}, fmt.Errorf("decode document record: %w", err)
	}

	fields := make(map[string]json.RawMessage, len(top))
	for k, v := range top {
		if k == "attributes" {
			continue
		}
		fields[snakeCase(k)] = v
	}
	if attrs, ok := top["attributes"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(attrs, &nested); err != nil {
			return model.DocumentRecord{}, fmt.Errorf("decode document attributes: %w", err)
		}
		for k, v := range nested {
			k = snakeCase(k)
			// The envelope id identifies the resource; attributes never override it.
			if _, ok := fields[k]; ok && k == "id" {
				continue
			}
			fields[k] = v
		}
	}

	for _, k := range dateFields {
		if v, ok := fields[k]; ok {
			fields[k] = widenDate(k, v)
		}
	}

	canonical, err := json.Marshal(fields)
	if err != nil {
		return model.DocumentRecord{}, err
	}
	var rec model.DocumentRecord
	if err := json.Unmarshal(canonical, &rec); err != nil {
		return model.DocumentRecord{}, fmt.Errorf("decode document record: %w", err)
	}
	if rec.ID == "" {
		return model.DocumentRecord{}, fmt.Errorf("decode document record: missing id")
	}
	return rec, nil
}

var dateFields = []string{"issue_date", "expiry_date", "uploaded_at", "reviewed_at"}

// widenDate turns a bare YYYY-MM-DD into a UTC midnight timestamp. RFC 3339 values pass
// through and anything else becomes null.
func widenDate(field string, v json.RawMessage) json.RawMessage {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		slog.Warn("unparseable document date dropped", "field", field, "value", string(v))
		return json.RawMessage("null")
	}
	if s == "" {
		return json.RawMessage("null")
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		out, _ := json.Marshal(t)
		return out
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return v
	}
	slog.Warn("unparseable document date dropped", "field", field, "value", s)
	return json.RawMessage("null")
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
