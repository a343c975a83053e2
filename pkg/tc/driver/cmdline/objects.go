package cmdline

import (
	"encoding/json"
	"strconv"
	"strings"
)

type cQDisc struct {
	Kind   string `json:"kind"`
	Handle string `json:"handle"`
	Parent string `json:"parent,omitempty"`
	Root   bool   `json:"root,omitempty"`
	// Options are kind specific, they are decoded once the kind is known
	Options json.RawMessage `json:"options,omitempty"`
}

type cHTBOptions struct {
	Default cHexUint32 `json:"default"`
}

type cClass struct {
	Kind   string `json:"class"`
	Handle string `json:"handle"`
	Parent string `json:"parent,omitempty"`
	Root   bool   `json:"root,omitempty"`
	Prio   uint32 `json:"prio"`
	// Rate and Ceil are reported in bits/sec
	Rate uint64 `json:"rate"`
	Ceil uint64 `json:"ceil"`
}

// cHexUint32 is a uint32 that tc reports either as a JSON number or as a hex string (e.g "0x10")
type cHexUint32 uint32

// UnmarshalJSON implements json.Unmarshaler
func (h *cHexUint32) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint32
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*h = cHexUint32(n)
		return nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 32)
	if err != nil {
		return err
	}
	*h = cHexUint32(v)
	return nil
}
