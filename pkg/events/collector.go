package events

// Collector accumulates events raised during one use case so they can be
// published together after the transaction commits.
type Collector struct {
	events []DomainEvent
}

// Record appends domain events to the collector.
func (c *Collector) Record(evts ...DomainEvent) {
	c.events = append(c.events, evts...)
}

// Events returns the collected domain events without clearing them.
func (c *Collector) Events() []DomainEvent {
	return c.events
}

// Drain returns the collected domain events and clears the internal slice.
func (c *Collector) Drain() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}
