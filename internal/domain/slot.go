package domain

// DayCapacity is the occupancy of one weekday for a requested window
type DayCapacity struct {
	Day      Weekday
	Window   Window
	Used     int
	Capacity *int // nil = unlimited
}

// Remaining returns free slots, or nil when the capacity is unlimited
func (c *DayCapacity) Remaining() *int {
	if c.Capacity == nil {
		return nil
	}
	left := *c.Capacity - c.Used
	if left < 0 {
		left = 0
	}
	return &left
}

// IsFull returns true if no slot is left
func (c *DayCapacity) IsFull() bool {
	r := c.Remaining()
	return r != nil && *r == 0
}

// Fits returns true if slots more can be admitted on this day
func (c *DayCapacity) Fits(slots int) bool {
	if c.Capacity == nil {
		return true
	}
	return c.Used+slots <= *c.Capacity
}

// OccupancyRate returns the occupancy rate as a percentage (0-100); 0 for unlimited
func (c *DayCapacity) OccupancyRate() float64 {
	if c.Capacity == nil || *c.Capacity == 0 {
		return 0
	}
	return float64(c.Used) / float64(*c.Capacity) * 100
}
