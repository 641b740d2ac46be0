package tablestore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Property values are serialised the way the table service's JSON wire
// format does it: strings, booleans and doubles are plain JSON values, while
// Int64 and DateTime travel as strings next to a "<name>@odata.type"
// annotation so that their type survives the round trip.
const (
	odataTypeSuffix = "@odata.type"
	edmInt64        = "Edm.Int64"
	edmDouble       = "Edm.Double"
	edmDateTime     = "Edm.DateTime"
)

// UnsupportedTypeError reports a property value the table cannot store.
type UnsupportedTypeError struct {
	Property string
	Value    any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("tablestore: property %q has unsupported type %T", e.Property, e.Value)
}

// normalizeProperties widens numeric kinds to int64/float64, converts times
// to UTC and drops nil values. The returned map is a fresh copy.
func normalizeProperties(props map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(props))
	for name, v := range props {
		if strings.HasSuffix(name, odataTypeSuffix) {
			continue
		}
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, &UnsupportedTypeError{Property: name, Value: v}
		}
		if nv != nil {
			out[name] = nv
		}
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string, bool, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case float32:
		return float64(x), nil
	case time.Time:
		return x.UTC(), nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return x.UTC(), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

// EncodeProperties renders properties in the annotated JSON form.
func EncodeProperties(props map[string]any) ([]byte, error) {
	norm, err := normalizeProperties(props)
	if err != nil {
		return nil, err
	}
	wire := make(map[string]any, len(norm)*2)
	for name, v := range norm {
		switch x := v.(type) {
		case int64:
			wire[name] = strconv.FormatInt(x, 10)
			wire[name+odataTypeSuffix] = edmInt64
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, &UnsupportedTypeError{Property: name, Value: x}
			}
			wire[name] = x
			wire[name+odataTypeSuffix] = edmDouble
		case time.Time:
			wire[name] = x.Format(time.RFC3339Nano)
			wire[name+odataTypeSuffix] = edmDateTime
		default:
			wire[name] = x
		}
	}
	return json.Marshal(wire)
}

// DecodeProperties parses the annotated JSON form back into typed values.
func DecodeProperties(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var wire map[string]any
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("tablestore: decode properties: %w", err)
	}

	props := make(map[string]any, len(wire))
	for name, raw := range wire {
		if strings.HasSuffix(name, odataTypeSuffix) {
			continue
		}
		typ, _ := wire[name+odataTypeSuffix].(string)
		props[name] = decodeValue(raw, typ)
	}
	return props, nil
}

func decodeValue(raw any, typ string) any {
	switch x := raw.(type) {
	case json.Number:
		if typ == edmInt64 {
			if n, err := x.Int64(); err == nil {
				return n
			}
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case string:
		switch typ {
		case edmInt64:
			if n, err := strconv.ParseInt(x, 10, 64); err == nil {
				return n
			}
		case edmDouble:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return f
			}
		case edmDateTime:
			if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
				return t.UTC()
			}
		}
		return x
	default:
		return x
	}
}
