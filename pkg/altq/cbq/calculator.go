package cbq

import (
	"math"

	"github.com/k8snetworkplumbingwg/altqctl/pkg/altq/types"
)

const (
	nsPerSec = 1000000000
	// filterGain is the log2 of the averaging filter time constant of the kernel scheduler
	filterGain = 5
	// bandwidthEpsilon replaces a zero bandwidth share
	bandwidthEpsilon = 0.0001
	// slowCompensationNs selects the smaller default max burst
	slowCompensationNs = 10.0 * 1000000

	defaultMinBurst     = 2
	defaultMaxBurst     = 16
	defaultSlowMaxBurst = 4
)

// Input holds the values the idle time computation depends on
type Input struct {
	// Bandwidth of the class in bits/sec
	Bandwidth uint64
	// InterfaceBandwidth in bits/sec, must not be zero
	InterfaceBandwidth uint64
	PacketSize         uint32
	MaxPacketSize      uint32
	// MinBurst and MaxBurst of zero select the defaults
	MinBurst uint32
	MaxBurst uint32
}

// Params are the scheduler parameters derived from Input
type Params struct {
	MinBurst  uint32
	MaxBurst  uint32
	NsPerByte uint32
	MaxIdle   uint32
	MinIdle   int32
	OffTime   uint32

	// TooSlow is set when NsPerByte had to be clamped to keep NsPerByte * MaxPacketSize in int32 range
	TooSlow bool
	// MinBandwidth is the smallest bandwidth in bits/sec that avoids the clamp
	MinBandwidth float64
}

// ComputeIdleTime derives the CBQ timing parameters for in. It is a pure function; the order of
// the floating point operations is the one the kernel scheduler's parameters were tuned against.
func ComputeIdleTime(in Input) Params {
	var p Params

	ifNsPerByte := (1.0 / float64(in.InterfaceBandwidth)) * nsPerSec * 8
	minBurst := in.MinBurst
	maxBurst := in.MaxBurst

	var f float64
	if in.Bandwidth == 0 {
		f = bandwidthEpsilon
	} else {
		f = float64(in.Bandwidth) / float64(in.InterfaceBandwidth)
	}

	nsPerByte := ifNsPerByte / f
	ptime := float64(in.PacketSize) * ifNsPerByte
	cptime := ptime * (1.0 - f) / f

	if nsPerByte*float64(in.MaxPacketSize) > float64(math.MaxInt32) {
		// the kernel computes in int32, this would overflow
		if in.Bandwidth != 0 {
			p.TooSlow = true
			p.MinBandwidth = ifNsPerByte * float64(in.MaxPacketSize) /
				float64(math.MaxInt32) * float64(in.InterfaceBandwidth)
		}
		nsPerByte = float64(math.MaxInt32 / int64(in.MaxPacketSize))
	}

	if maxBurst == 0 {
		if cptime > slowCompensationNs {
			maxBurst = defaultSlowMaxBurst
		} else {
			maxBurst = defaultMaxBurst
		}
	}
	if minBurst == 0 {
		minBurst = defaultMinBurst
	}
	if minBurst > maxBurst {
		minBurst = maxBurst
	}

	z := float64(int64(1) << filterGain)
	g := 1.0 - 1.0/z
	gton := math.Pow(g, float64(maxBurst))
	gtom := math.Pow(g, float64(minBurst)-1)

	maxIdle := (1.0/f - 1.0) * ((1.0 - gton) / gton)
	maxIdleFloor := 1.0 - g
	if maxIdle > maxIdleFloor {
		maxIdle = ptime * maxIdle
	} else {
		maxIdle = ptime * maxIdleFloor
	}

	offTime := cptime
	if minBurst != 0 {
		offTime = cptime * (1.0 + 1.0/(1.0-g)*(1.0-gtom)/gtom)
	}
	minIdle := -(float64(in.MaxPacketSize) * nsPerByte)

	gainScale := math.Pow(2.0, filterGain)
	maxIdle = ((maxIdle * 8.0) / nsPerByte) * gainScale
	offTime = (offTime * 8.0) / nsPerByte * gainScale
	minIdle = ((minIdle * 8.0) / nsPerByte) * gainScale

	maxIdle /= 1000.0
	offTime /= 1000.0
	minIdle /= 1000.0

	p.MinBurst = minBurst
	p.MaxBurst = maxBurst
	p.NsPerByte = uint32(nsPerByte)
	p.MaxIdle = uint32(math.Abs(maxIdle))
	p.MinIdle = int32(minIdle)
	p.OffTime = uint32(math.Abs(offTime))
	return p
}

// Apply copies p into the CBQ options of spec
func (p Params) Apply(opts *types.CBQOpts) {
	opts.MinBurst = p.MinBurst
	opts.MaxBurst = p.MaxBurst
	opts.NsPerByte = p.NsPerByte
	opts.MaxIdle = p.MaxIdle
	opts.MinIdle = p.MinIdle
	opts.OffTime = p.OffTime
}
