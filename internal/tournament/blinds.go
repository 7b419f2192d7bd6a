package tournament

import "time"

// BlindLevel is one step of the escalation schedule. The level advances when
// either MaxHands hands have been played at it or MaxTime has elapsed,
// whichever comes first. The final level holds for the rest of the
// tournament.
type BlindLevel struct {
	SmallBlind int
	BigBlind   int
	Ante       int
	MaxHands   int
	MaxTime    time.Duration
}

// Schedule is an ordered list of blind levels
type Schedule []BlindLevel

// Level returns the blind level for a zero-based index, clamping to the last
// level once the schedule runs out.
func (s Schedule) Level(idx int) BlindLevel {
	if idx >= len(s) {
		idx = len(s) - 1
	}
	return s[idx]
}

// DefaultSchedule is an aggressive structure sized for 30-60 minute
// tournaments at 10k starting stacks. Antes kick in at level 3.
func DefaultSchedule() Schedule {
	level := func(sb, bb, ante int) BlindLevel {
		return BlindLevel{
			SmallBlind: sb,
			BigBlind:   bb,
			Ante:       ante,
			MaxHands:   10,
			MaxTime:    5 * time.Minute,
		}
	}
	return Schedule{
		level(100, 200, 0),
		level(150, 300, 0),
		level(200, 400, 50),
		level(300, 600, 75),
		level(400, 800, 100),
		level(600, 1200, 150),
		level(800, 1600, 200),
		level(1000, 2000, 250),
		level(1500, 3000, 400),
		level(2000, 4000, 500),
		level(3000, 6000, 750),
		level(4000, 8000, 1000),
	}
}
