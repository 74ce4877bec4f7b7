package firestore

import (
	"fmt"
	"strconv"
	"time"
)

// EncodeFields converts a plain map into Firestore's typed field encoding.
func EncodeFields(data map[string]interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(data))
	for k, v := range data {
		fields[k] = EncodeValue(v)
	}
	return fields
}

// EncodeValue wraps v in the Firestore Value envelope matching its type.
func EncodeValue(v interface{}) map[string]interface{} {
	switch val := v.(type) {
	case nil:
		return map[string]interface{}{"nullValue": nil}
	case string:
		return map[string]interface{}{"stringValue": val}
	case bool:
		return map[string]interface{}{"booleanValue": val}
	case int:
		return map[string]interface{}{"integerValue": strconv.Itoa(val)}
	case int64:
		return map[string]interface{}{"integerValue": strconv.FormatInt(val, 10)}
	case float64:
		return map[string]interface{}{"doubleValue": val}
	case time.Time:
		return map[string]interface{}{"timestampValue": val.UTC().Format(time.RFC3339Nano)}
	case map[string]interface{}:
		return map[string]interface{}{"mapValue": map[string]interface{}{"fields": EncodeFields(val)}}
	case []interface{}:
		values := make([]interface{}, len(val))
		for i, item := range val {
			values[i] = EncodeValue(item)
		}
		return map[string]interface{}{"arrayValue": map[string]interface{}{"values": values}}
	default:
		return map[string]interface{}{"stringValue": fmt.Sprint(val)}
	}
}
