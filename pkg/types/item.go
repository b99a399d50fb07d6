package types

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"gopkg.in/yaml.v3"
)

// ItemId identifies a catalog item. Sources send both numeric and string
// ids, so 1, 1.0 and "1" decode to the same id. Only ids in canonical
// integer form are written back as json numbers; "007" stays a string.
type ItemId string

func (id ItemId) String() string {
	return string(id)
}

func (id ItemId) isNumeric() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

const maxExactInt = 1 << 53

// numericId maps number text to its id. Integral values use the plain
// integer form.
func numericId(text string) (ItemId, error) {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return ItemId(strconv.FormatInt(n, 10)), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("invalid item id %s", text)
	}
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		return ItemId(strconv.FormatInt(int64(f), 10)), nil
	}
	return ItemId(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (id ItemId) MarshalJSON() ([]byte, error) {
	if id.isNumeric() {
		return []byte(id), nil
	}
	return jsoncompat.Marshal(string(id))
}

func (id *ItemId) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := jsoncompat.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemId(s)
		return nil
	}
	parsed, err := numericId(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ItemId) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid item id at line %d", value.Line)
	}
	switch value.ShortTag() {
	case "!!int":
		// plain digits are kept as written, so 007 is not read as octal
		if isDigits(value.Value) {
			*id = ItemId(value.Value)
			return nil
		}
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("invalid item id at line %d: %w", value.Line, err)
		}
		*id = ItemId(strconv.FormatInt(n, 10))
	case "!!float":
		var f float64
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("invalid item id at line %d: %w", value.Line, err)
		}
		parsed, err := numericId(strconv.FormatFloat(f, 'g', -1, 64))
		if err != nil {
			return err
		}
		*id = parsed
	default:
		*id = ItemId(value.Value)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CatalogItem is supplied by the catalog and never modified by the store.
type CatalogItem struct {
	Id       ItemId  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Category string  `json:"category" yaml:"category"`
	Image    string  `json:"image,omitempty" yaml:"image,omitempty"`
}

// CartEntry is a catalog item with a quantity, always >= 1 while stored.
type CartEntry struct {
	CatalogItem
	Quantity int `json:"quantity" yaml:"quantity"`
}

func (e CartEntry) LineTotal() float64 {
	return e.Price * float64(e.Quantity)
}
