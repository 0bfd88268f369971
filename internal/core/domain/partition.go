package domain

import "sort"

// DayView is the presentation split of one day's slots.
type DayView struct {
	Date      Date   `json:"date"`
	Morning   []Slot `json:"morning"`
	Afternoon []Slot `json:"afternoon"`
}

// PartitionDay keeps the slots dated day, drops expired ones and splits the
// rest at AfternoonStart. Both halves are ordered by start time, then id.
func PartitionDay(slots []Slot, day Date) DayView {
	v := DayView{Date: day, Morning: []Slot{}, Afternoon: []Slot{}}
	for _, s := range slots {
		if s.Date != day || s.State == StateExpired {
			continue
		}
		if s.IsMorning() {
			v.Morning = append(v.Morning, s)
		} else {
			v.Afternoon = append(v.Afternoon, s)
		}
	}
	SortSlots(v.Morning)
	SortSlots(v.Afternoon)
	return v
}

// SortSlots orders slots by date, start time and id.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.ID < b.ID
	})
}

// FindSlot returns the slot with id.
func FindSlot(slots []Slot, id int64) (Slot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}
