package types

// NewQueueSpecBuilder returns a new QueueSpecBuilder
func NewQueueSpecBuilder() *QueueSpecBuilder {
	return &QueueSpecBuilder{}
}

// QueueSpecBuilder is a QueueSpec builder
type QueueSpecBuilder struct {
	spec QueueSpec
}

// WithInterface sets the interface the queue is attached to
func (b *QueueSpecBuilder) WithInterface(ifName string) *QueueSpecBuilder {
	b.spec.InterfaceName = ifName
	return b
}

// WithName sets the queue name. leaving it empty builds an interface entry.
func (b *QueueSpecBuilder) WithName(qName string) *QueueSpecBuilder {
	b.spec.QueueName = qName
	return b
}

// WithParent sets the parent queue name
func (b *QueueSpecBuilder) WithParent(parent string) *QueueSpecBuilder {
	b.spec.ParentName = parent
	return b
}

// WithScheduler sets the scheduler kind
func (b *QueueSpecBuilder) WithScheduler(s SchedulerKind) *QueueSpecBuilder {
	b.spec.Scheduler = s
	return b
}

// WithBandwidth requests an absolute bandwidth in bits/sec
func (b *QueueSpecBuilder) WithBandwidth(bps uint64) *QueueSpecBuilder {
	b.spec.RequestedBandwidth.Absolute = bps
	return b
}

// WithBandwidthPercent requests a bandwidth relative to the parent
func (b *QueueSpecBuilder) WithBandwidthPercent(percent uint32) *QueueSpecBuilder {
	b.spec.RequestedBandwidth.Percent = percent
	return b
}

// WithPriority sets the queue priority
func (b *QueueSpecBuilder) WithPriority(prio uint8) *QueueSpecBuilder {
	b.spec.Priority = prio
	return b
}

// WithQLimit sets the queue limit in packets
func (b *QueueSpecBuilder) WithQLimit(limit uint32) *QueueSpecBuilder {
	b.spec.QLimit = limit
	return b
}

// WithTBRSize sets the token bucket regulator size of an interface entry
func (b *QueueSpecBuilder) WithTBRSize(size uint32) *QueueSpecBuilder {
	b.spec.TBRSize = size
	return b
}

// WithCBQFlags adds flags to the CBQ options
func (b *QueueSpecBuilder) WithCBQFlags(flags CBQFlags) *QueueSpecBuilder {
	b.spec.CBQOpts.Flags |= flags
	return b
}

// WithPacketSize sets the average and maximum packet size of the CBQ options
func (b *QueueSpecBuilder) WithPacketSize(pktSize, maxPktSize uint32) *QueueSpecBuilder {
	b.spec.CBQOpts.PacketSize = pktSize
	b.spec.CBQOpts.MaxPacketSize = maxPktSize
	return b
}

// WithBurst sets the minimum and maximum burst of the CBQ options
func (b *QueueSpecBuilder) WithBurst(minBurst, maxBurst uint32) *QueueSpecBuilder {
	b.spec.CBQOpts.MinBurst = minBurst
	b.spec.CBQOpts.MaxBurst = maxBurst
	return b
}

// Build builds and returns a new QueueSpec instance
func (b *QueueSpecBuilder) Build() *QueueSpec {
	return b.spec.DeepCopy()
}
