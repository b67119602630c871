package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Number is a numeric column that stores may hand back as a float, an
// integer, a decimal, a numeric string or null. Every form decodes into a
// float64; null and empty strings decode to 0.
type Number float64

func (n Number) Float64() float64 {
	return float64(n)
}

// ErrNonFiniteNumber rejects NaN and infinities, which cannot be stored or
// serialized as JSON.
var ErrNonFiniteNumber = errors.New("numeric value must be finite")

// ParseNumber coerces v into a Number.
func ParseNumber(v any) (Number, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return Number(t), nil
	case int32:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case []byte:
		return parseNumberString(string(t))
	case string:
		return parseNumberString(t)
	case primitive.Decimal128:
		return parseNumberString(t.String())
	case Number:
		return finite(float64(t))
	}
	return 0, fmt.Errorf("unsupported numeric value %T", v)
}

func parseNumberString(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	return finite(f)
}

func finite(f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNonFiniteNumber
	}
	return Number(f), nil
}

// ValidWeight reports whether w is a finite, non-negative weight.
func ValidWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0)
}

// Scan implements sql.Scanner.
func (n *Number) Scan(src any) error {
	v, err := ParseNumber(src)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Value implements driver.Valuer.
func (n Number) Value() (driver.Value, error) {
	return float64(n), nil
}

// UnmarshalJSON accepts both 20.5 and "20.5".
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseNumber(raw)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// MarshalBSONValue always stores a double.
func (n Number) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(float64(n))
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (n *Number) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	val := bsoncore.Value{Type: t, Data: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*n = 0
		return nil
	case bsontype.Double:
		*n = Number(val.Double())
		return nil
	case bsontype.Int32:
		*n = Number(val.Int32())
		return nil
	case bsontype.Int64:
		*n = Number(val.Int64())
		return nil
	case bsontype.Decimal128:
		v, err := parseNumberString(val.Decimal128().String())
		if err != nil {
			return err
		}
		*n = v
		return nil
	case bsontype.String:
		v, err := parseNumberString(val.StringValue())
		if err != nil {
			return err
		}
		*n = v
		return nil
	}
	return fmt.Errorf("cannot decode bson %s into Number", t)
}
