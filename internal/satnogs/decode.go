// Package satnogs maps the SatNOGS DB transmitter API onto transponder
// records. It is the only package that knows the registry's field names.
package satnogs

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/large-farva/flybydb/internal/transponder"
)

// Field names of a transmitter object.
const (
	fieldNorad        = "norad_cat_id"
	fieldUUID         = "uuid"
	fieldDescription  = "description"
	fieldUplinkLow    = "uplink_low"
	fieldUplinkHigh   = "uplink_high"
	fieldDownlinkLow  = "downlink_low"
	fieldDownlinkHigh = "downlink_high"
	fieldBaud         = "baud"
	fieldInvert       = "invert"
	fieldAlive        = "alive"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Decode parses a transmitter list. Invalid JSON or anything other than an
// array of objects wraps transponder.ErrParse; a record lacking a required
// field or holding a value of the wrong type is a
// *transponder.ValidationError. Either aborts the whole decode.
func Decode(body []byte) ([]transponder.Raw, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", transponder.ErrParse)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", transponder.ErrParse, kind(doc))
	}

	items := doc.Array()
	out := make([]transponder.Raw, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: element %d is %s, not an object", transponder.ErrParse, i, kind(item))
		}
		raw, err := decodeOne(i, item)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func decodeOne(i int, item gjson.Result) (transponder.Raw, error) {
	var raw transponder.Raw
	invalid := func(field, reason string) error {
		return &transponder.ValidationError{Index: i, RecordID: raw.RecordID, Field: field, Reason: reason}
	}

	uuid := item.Get(fieldUUID)
	if !present(uuid) {
		return raw, invalid(fieldUUID, "missing")
	}
	if uuid.Type != gjson.String {
		return raw, invalid(fieldUUID, "not a string")
	}
	if strings.TrimSpace(uuid.String()) == "" {
		return raw, invalid(fieldUUID, "empty")
	}
	raw.RecordID = uuid.String()

	id := item.Get(fieldNorad)
	if !present(id) {
		return raw, invalid(fieldNorad, "missing")
	}
	if id.Type != gjson.Number || id.Num < 0 || id.Num != math.Trunc(id.Num) || id.Num > math.MaxInt32 {
		return raw, invalid(fieldNorad, "not a catalog number: "+id.Raw)
	}
	raw.SatelliteID = int(id.Int())

	desc := item.Get(fieldDescription)
	if !present(desc) {
		return raw, invalid(fieldDescription, "missing")
	}
	if desc.Type != gjson.String {
		return raw, invalid(fieldDescription, "not a string")
	}
	raw.Description = lineBreaks.Replace(desc.String())
	if strings.TrimSpace(raw.Description) == "" {
		return raw, invalid(fieldDescription, "empty")
	}

	optional := []struct {
		field string
		dst   **float64
	}{
		{fieldUplinkLow, &raw.UplinkLowHz},
		{fieldUplinkHigh, &raw.UplinkHighHz},
		{fieldDownlinkLow, &raw.DownlinkLowHz},
		{fieldDownlinkHigh, &raw.DownlinkHighHz},
		{fieldBaud, &raw.BaudRate},
	}
	for _, o := range optional {
		v := item.Get(o.field)
		if !present(v) {
			continue
		}
		if v.Type != gjson.Number {
			return raw, invalid(o.field, "not a number: "+v.Raw)
		}
		*o.dst = transponder.Float(v.Float())
	}

	var err error
	if raw.Inverting, err = flag(item.Get(fieldInvert), false); err != nil {
		return raw, invalid(fieldInvert, err.Error())
	}
	if raw.Alive, err = flag(item.Get(fieldAlive), true); err != nil {
		return raw, invalid(fieldAlive, err.Error())
	}
	return raw, nil
}

// present reports whether r holds a non-null value.
func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// flag reads a boolean, using def when the value is absent or null.
func flag(r gjson.Result, def bool) (bool, error) {
	switch {
	case !present(r):
		return def, nil
	case r.Type == gjson.True, r.Type == gjson.False:
		return r.Bool(), nil
	default:
		return false, fmt.Errorf("not a boolean: %s", r.Raw)
	}
}

func kind(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "an object"
	case r.IsArray():
		return "an array"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.String:
		return "a string"
	case gjson.Number:
		return "a number"
	case gjson.True, gjson.False:
		return "a boolean"
	}
	return "empty"
}
