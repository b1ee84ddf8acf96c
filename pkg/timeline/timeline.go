// Package timeline provides the sync providers that drive a demo: a named
// track is a float curve over time, and the provider owns the demo clock.
// The interpreter asks for track values by name once per frame; the app
// asks for the current time. Tracks must be declared with RequireTrack
// before the first frame so missing tracks fail at load time, not mid-demo.
package timeline

import "time"

// Provider is the timeline contract consumed by the scene and the driver
// loop. Update is called once per frame before the scene draws.
type Provider interface {
	// RequireTrack declares that the demo reads the named track.
	RequireTrack(track string) error
	// Update advances the provider's clock.
	Update()
	// Time returns the current demo time in seconds.
	Time() float32
	// Value returns the current value of the named track, or false when
	// the provider has no such track.
	Value(track string) (float32, bool)
}

// playStartPoint marks the time at which playback started or was resumed.
type playStartPoint struct {
	baseTime float64
	realTime time.Time
}

// playClock is a pausable wall clock: while playing, time advances with
// real time from the last start point; while paused it stands still.
type playClock struct {
	time  float64
	start *playStartPoint
}

func (c *playClock) playing() bool { return c.start != nil }

func (c *playClock) pause() {
	if c.start != nil {
		c.time = c.start.baseTime + time.Since(c.start.realTime).Seconds()
		c.start = nil
	}
}

func (c *playClock) play() {
	c.start = &playStartPoint{baseTime: c.time, realTime: time.Now()}
}

func (c *playClock) goToTime(t float64) {
	if c.start != nil {
		c.pause()
		c.time = t
		c.play()
	} else {
		c.time = t
	}
}

func (c *playClock) update() {
	if c.start != nil {
		c.time = c.start.baseTime + time.Since(c.start.realTime).Seconds()
	}
}
