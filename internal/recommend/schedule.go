// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"fmt"
	"strconv"
	"strings"
)

// ClosedSentinel is the hours value the bank publishes for a day off.
const ClosedSentinel = "выходной"

// endOfDay is 24:00 expressed in minutes.
const endOfDay Clock = 24 * 60

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock parses "HH:MM". 24:00 is accepted as the end of the day.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || hh == "" || len(mm) != 2 {
		return 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("clock %q: %w", s, err)
	}
	c := Clock(h*60 + m)
	if h < 0 || m < 0 || m > 59 || c > endOfDay {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return c, nil
}

// Add returns c shifted by minutes. The result may exceed 24:00 and is
// never wrapped.
func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// String formats as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// WindowState is the outcome of parsing an hours string.
type WindowState int

const (
	WindowInvalid WindowState = iota
	WindowOpen
	WindowClosed
)

// String returns the lowercase name.
func (s WindowState) String() string {
	switch s {
	case WindowOpen:
		return "open"
	case WindowClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// Window is a parsed hours string. Opens and Closes are set only when
// State is WindowOpen.
type Window struct {
	State  WindowState
	Opens  Clock
	Closes Clock
}

// ParseWindow turns "HH:MM-HH:MM" or the closed sentinel into a Window.
// Anything else, including an overnight range, is WindowInvalid.
func ParseWindow(s string) Window {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, ClosedSentinel) || strings.EqualFold(s, "closed") {
		return Window{State: WindowClosed}
	}
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return Window{State: WindowInvalid}
	}
	opens, err := ParseClock(from)
	if err != nil {
		return Window{State: WindowInvalid}
	}
	closes, err := ParseClock(to)
	if err != nil || closes < opens {
		return Window{State: WindowInvalid}
	}
	return Window{State: WindowOpen, Opens: opens, Closes: closes}
}

// Admits reports whether the visit finishes inside the window, that is
// whether arrival+minutes falls within [Opens, Closes]. A customer waiting
// outside before opening is still admitted. Bounds are inclusive.
func (w Window) Admits(arrival Clock, minutes int) bool {
	if w.State != WindowOpen {
		return false
	}
	check := arrival.Add(minutes)
	return w.Opens <= check && check <= w.Closes
}
