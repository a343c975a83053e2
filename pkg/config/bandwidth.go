package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	altqtypes "github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
)

var bandwidthUnits = []struct {
	suffix string
	mult   float64
}{
	{"Gb", 1000 * 1000 * 1000},
	{"Mb", 1000 * 1000},
	{"Kb", 1000},
	{"b", 1},
}

// Bandwidth is a bandwidth value as written in the configuration, either <n>[b|Kb|Mb|Gb] or <n>%.
// a bare number is in bits/sec.
type Bandwidth string

// UnmarshalJSON implements json.Unmarshaler. it accepts both strings and numbers.
func (b *Bandwidth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = Bandwidth(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("bandwidth must be a string or a number: %s", string(data))
	}
	*b = Bandwidth(n.String())
	return nil
}

// Parse converts b to a BandwidthSpec. an empty Bandwidth yields the zero BandwidthSpec.
func (b Bandwidth) Parse() (altqtypes.BandwidthSpec, error) {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return altqtypes.BandwidthSpec{}, nil
	}

	if strings.HasSuffix(s, "%") {
		// percentages are whole numbers
		p, err := strconv.ParseUint(strings.TrimSuffix(s, "%"), 10, 32)
		if err != nil {
			return altqtypes.BandwidthSpec{}, fmt.Errorf("invalid bandwidth percentage %q: %v", s, err)
		}
		if p == 0 || p > 100 {
			return altqtypes.BandwidthSpec{}, fmt.Errorf("bandwidth percentage %q out of range (0, 100]", s)
		}
		return altqtypes.BandwidthSpec{Percent: uint32(p)}, nil
	}

	mult := 1.0
	for _, u := range bandwidthUnits {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSuffix(s, u.suffix)
			mult = u.mult
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return altqtypes.BandwidthSpec{}, fmt.Errorf("invalid bandwidth %q: %v", string(b), err)
	}
	if v <= 0 {
		return altqtypes.BandwidthSpec{}, fmt.Errorf("bandwidth %q must be positive", string(b))
	}
	return altqtypes.BandwidthSpec{Absolute: uint64(v * mult)}, nil
}
