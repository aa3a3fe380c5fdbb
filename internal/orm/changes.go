package orm

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Equality decides whether Set sees a new value as a change
type Equality func(current, next any) bool

// changeSet keeps the ordered history of values set per field
type changeSet struct {
	history map[string][]any
}

func (c *changeSet) record(field string, value any) {
	if c.history == nil {
		c.history = make(map[string][]any)
	}
	c.history[field] = append(c.history[field], value)
}

func (c *changeSet) len() int {
	return len(c.history)
}

func (c *changeSet) reset() {
	c.history = nil
}

func (c *changeSet) snapshot() map[string]any {
	out := make(map[string]any, len(c.history))
	for field, values := range c.history {
		if len(values) == 1 {
			out[field] = values[0]
			continue
		}
		list := make([]any, len(values))
		copy(list, values)
		out[field] = list
	}
	return out
}

func (c *changeSet) clone() changeSet {
	if c.history == nil {
		return changeSet{}
	}
	out := changeSet{history: make(map[string][]any, len(c.history))}
	for field, values := range c.history {
		out.history[field] = append([]any(nil), values...)
	}
	return out
}

// StrictEqual treats values as equal only when they have the same type and value
func StrictEqual(current, next any) bool {
	return reflect.DeepEqual(current, next)
}

// LooseEqual coerces before comparing: numbers and numeric strings compare
// numerically ("1" == 1, "1.0" == 1), booleans count as 1 and 0, times
// compare by instant, and other scalars compare by their printed form.
// Integers compare exactly at any size; only non-integral values go
// through float64.
func LooseEqual(current, next any) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	if reflect.DeepEqual(current, next) {
		return true
	}
	if a, ok := current.(time.Time); ok {
		if b, ok := next.(time.Time); ok {
			return a.Equal(b)
		}
	}
	if a, ok := toNumber(current); ok {
		if b, ok := toNumber(next); ok {
			return a.equal(b)
		}
	}
	a, okA := scalarText(current)
	b, okB := scalarText(next)
	return okA && okB && a == b
}

// number is an exact integer or, failing that, a float
type number struct {
	i *big.Int
	f float64
}

func (n number) float() float64 {
	if n.i == nil {
		return n.f
	}
	f, _ := new(big.Float).SetInt(n.i).Float64()
	return f
}

func (n number) equal(o number) bool {
	if n.i != nil && o.i != nil {
		return n.i.Cmp(o.i) == 0
	}
	return n.float() == o.float()
}

func toNumber(v any) (number, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return number{i: big.NewInt(1)}, true
		}
		return number{i: big.NewInt(0)}, true
	case string:
		return parseNumeric(x)
	case []byte:
		return parseNumeric(string(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: big.NewInt(rv.Int())}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return number{i: new(big.Int).SetUint64(rv.Uint())}, true
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float()}, true
	}
	return number{}, false
}

// parseNumeric reads integer text exactly and anything else as a float
func parseNumeric(s string) (number, bool) {
	s = strings.TrimSpace(s)
	if i, ok := new(big.Int).SetString(s, 10); ok {
		return number{i: i}, true
	}
	f, ok := parseNumber(s)
	return number{f: f}, ok
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func scalarText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case fmt.Stringer:
		return x.String(), true
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return fmt.Sprint(v), true
	}
	return "", false
}
