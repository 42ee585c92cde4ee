package calendar

import (
	"strconv"
	"strings"

	"github.com/anasteisha/salon-booking/internal/salonapi"
)

// Schedule view kinds. DayOff wins over any slot content the API sends.
const (
	ScheduleDayOff  = "day_off"
	ScheduleNoSlots = "no_slots"
	ScheduleSlots   = "slots"
)

// Bucket groups available times within one part of the day. Empty buckets
// are omitted from the view, never rendered empty.
type Bucket struct {
	Label string   `json:"label"`
	Times []string `json:"times"`
}

// ScheduleView is the render-ready form of a day schedule.
type ScheduleView struct {
	Kind    string   `json:"kind"`
	Buckets []Bucket `json:"buckets,omitempty"`
}

// BucketSlots partitions available slots into morning/afternoon/evening by
// hour of day: morning before 12:00, afternoon 12:00-16:59, evening from
// 17:00.
func BucketSlots(slots []salonapi.Slot) []Bucket {
	var morning, afternoon, evening []string
	for _, s := range slots {
		if !s.Available {
			continue
		}
		switch hour := slotHour(s.Time); {
		case hour < 0:
			continue
		case hour < 12:
			morning = append(morning, s.Time)
		case hour < 17:
			afternoon = append(afternoon, s.Time)
		default:
			evening = append(evening, s.Time)
		}
	}

	var buckets []Bucket
	if len(morning) > 0 {
		buckets = append(buckets, Bucket{Label: "morning", Times: morning})
	}
	if len(afternoon) > 0 {
		buckets = append(buckets, Bucket{Label: "afternoon", Times: afternoon})
	}
	if len(evening) > 0 {
		buckets = append(buckets, Bucket{Label: "evening", Times: evening})
	}
	return buckets
}

// View converts a raw day schedule into its render-ready form.
func View(schedule *salonapi.DaySchedule) ScheduleView {
	if schedule == nil || !schedule.IsWorkingDay {
		return ScheduleView{Kind: ScheduleDayOff}
	}
	buckets := BucketSlots(schedule.Slots)
	if len(buckets) == 0 {
		return ScheduleView{Kind: ScheduleNoSlots}
	}
	return ScheduleView{Kind: ScheduleSlots, Buckets: buckets}
}

// HasTime reports whether the view offers the given time as selectable.
func (v ScheduleView) HasTime(t string) bool {
	for _, b := range v.Buckets {
		for _, bt := range b.Times {
			if bt == t {
				return true
			}
		}
	}
	return false
}

func slotHour(t string) int {
	head, _, ok := strings.Cut(t, ":")
	if !ok {
		return -1
	}
	hour, err := strconv.Atoi(head)
	if err != nil || hour < 0 || hour > 23 {
		return -1
	}
	return hour
}
