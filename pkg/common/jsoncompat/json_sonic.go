//go:build !jsonstd

package jsoncompat

import (
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

// Marshal proxies to sonic with encoding/json compatible settings when the jsonstd build tag is absent.
func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

// MarshalIndent proxies to sonic's MarshalIndent.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal proxies to sonic with encoding/json compatible settings when the jsonstd build tag is absent.
func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

func NewEncoder(w io.Writer) Encoder { return api.NewEncoder(w) }

func NewDecoder(r io.Reader) Decoder { return api.NewDecoder(r) }
