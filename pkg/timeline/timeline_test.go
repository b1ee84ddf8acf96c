package timeline

import (
	"testing"
	"time"
)

func TestPlayClock_PausedClockStandsStill(t *testing.T) {
	var c playClock
	if c.playing() {
		t.Error("zero clock should be paused")
	}
	c.goToTime(1.5)
	c.update()
	if c.time != 1.5 {
		t.Errorf("time = %v, want 1.5", c.time)
	}
}

func TestPlayClock_PlayAdvances(t *testing.T) {
	var c playClock
	c.play()
	if !c.playing() {
		t.Fatal("clock should be playing")
	}
	time.Sleep(10 * time.Millisecond)
	c.update()
	if c.time <= 0 {
		t.Errorf("time = %v, want it to have advanced", c.time)
	}
}

func TestPlayClock_PauseFreezesTime(t *testing.T) {
	var c playClock
	c.play()
	time.Sleep(10 * time.Millisecond)
	c.pause()
	frozen := c.time
	if frozen <= 0 {
		t.Fatalf("time = %v, want positive", frozen)
	}
	time.Sleep(10 * time.Millisecond)
	c.update()
	if c.time != frozen {
		t.Errorf("time = %v, want the paused value %v", c.time, frozen)
	}
}

func TestPlayClock_GoToTimeWhilePlaying(t *testing.T) {
	var c playClock
	c.play()
	c.goToTime(5)
	if !c.playing() {
		t.Error("seeking should not pause a playing clock")
	}
	c.update()
	if c.time < 5 {
		t.Errorf("time = %v, want at least 5", c.time)
	}
}
