package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meridianpsych/clinic-api/internal/model"
)

// parseClock converts an "HH:MM" string to minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// blockTimes emits slot start times inside [start, end), stepping by
// duration+buffer. A slot is emitted only when the full appointment
// fits before the block ends, so a 60-minute visit is never offered 30
// minutes before close.
func blockTimes(startMin, endMin, durationMin, bufferMin int) []string {
	if durationMin <= 0 {
		return nil
	}
	step := durationMin + bufferMin
	var times []string
	for t := startMin; t+durationMin <= endMin; t += step {
		times = append(times, formatClock(t))
	}
	return times
}

// dayInput is everything needed to compute one calendar day's slots.
type dayInput struct {
	date      time.Time
	blocks    []*model.WeeklyBlock
	exception *model.AvailabilityException
	booked    map[string]bool
	duration  int
	buffer    int
}

// daySlots applies the template, the date's exception and booked-time
// removal for one day. Booked removal matches the exact start time
// only; overlapping bookings at other start times are not inferred.
func daySlots(in dayInput) ([]string, error) {
	if in.exception != nil {
		switch in.exception.ExceptionType {
		case model.ExceptionUnavailable, model.ExceptionVacation:
			return nil, nil
		case model.ExceptionCustomHours:
			return customHoursSlots(in)
		case model.ExceptionPartialBlock:
			return partialBlockSlots(in)
		}
	}
	return templateSlots(in)
}

func templateSlots(in dayInput) ([]string, error) {
	weekday := int(in.date.Weekday())
	var times []string
	for _, block := range in.blocks {
		if block.DayOfWeek != weekday {
			continue
		}
		start, err := parseClock(block.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(block.EndTime)
		if err != nil {
			return nil, err
		}
		for _, t := range blockTimes(start, end, in.duration, in.buffer) {
			if !in.booked[t] {
				times = append(times, t)
			}
		}
	}
	return times, nil
}

// customHoursSlots replaces the whole weekly template with the
// exception's hours for that date.
func customHoursSlots(in dayInput) ([]string, error) {
	exc := in.exception
	if exc.StartTime == nil || exc.EndTime == nil {
		return nil, nil
	}
	start, err := parseClock(*exc.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(*exc.EndTime)
	if err != nil {
		return nil, err
	}
	var times []string
	for _, t := range blockTimes(start, end, in.duration, in.buffer) {
		if !in.booked[t] {
			times = append(times, t)
		}
	}
	return times, nil
}

// partialBlockSlots keeps the template but drops any slot whose start
// falls inside the blocked range [start, end).
func partialBlockSlots(in dayInput) ([]string, error) {
	template := in
	template.exception = nil
	times, err := templateSlots(template)
	if err != nil {
		return nil, err
	}

	exc := in.exception
	if exc.StartTime == nil || exc.EndTime == nil {
		return times, nil
	}
	blockStart, err := parseClock(*exc.StartTime)
	if err != nil {
		return nil, err
	}
	blockEnd, err := parseClock(*exc.EndTime)
	if err != nil {
		return nil, err
	}

	var kept []string
	for _, t := range times {
		m, err := parseClock(t)
		if err != nil {
			return nil, err
		}
		if m >= blockStart && m < blockEnd {
			continue
		}
		kept = append(kept, t)
	}
	return kept, nil
}
