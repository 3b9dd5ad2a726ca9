package scheduling

import (
	"fmt"
	"time"
)

// seedConfig drives the deterministic fixture generator for one project
type seedConfig struct {
	slotTimes []struct {
		name  string
		start string
		end   string
	}
	locations    []string
	reps         []string
	baseCapacity int
	dateOffset   int
}

var seedConfigs = map[string]seedConfig{
	"GreenX": {
		slotTimes: []struct{ name, start, end string }{
			{"Early Bird Special", "07:00", "10:00"},
			{"Mid Morning Session", "10:30", "13:30"},
			{"Lunch Hour Block", "13:00", "16:00"},
			{"Afternoon Peak", "16:30", "19:30"},
			{"Evening Premium", "19:00", "22:00"},
		},
		locations: []string{
			"Green Tower - Hall A", "Green Tower - Hall B", "Eco Wing Conference Center",
			"Garden View Executive Room", "Rooftop Terrace Suite", "Executive Boardroom Level 5",
			"Innovation Lab - West Wing", "Sky Lounge Premium", "Atrium Central Space", "Wellness Center East",
		},
		reps:         []string{"John Smith", "Emily Davis", "Michael Brown"},
		baseCapacity: 40,
		dateOffset:   0,
	},
	"Timber": {
		slotTimes: []struct{ name, start, end string }{
			{"Dawn Sunrise Slot", "06:00", "09:00"},
			{"Brunch Experience", "11:00", "14:00"},
			{"Midday Prime Block", "14:30", "17:30"},
			{"Sunset View Session", "17:00", "20:00"},
			{"Night Vista Hours", "20:30", "23:30"},
		},
		locations: []string{
			"Timber Hall - Main Floor", "Oak Room Premium", "Pine Conference Suite A",
			"Cedar Executive Meeting Space", "Forest View Terrace", "Woodland Pavilion Center",
			"Lakeside Conference Room", "Mountain View Hall West", "Timber Executive Lounge", "Nature Center Plaza",
		},
		reps:         []string{"Sarah Johnson", "David Wilson", "Emily Davis"},
		baseCapacity: 25,
		dateOffset:   2,
	},
}

// seedStart is the first fixture day.
var seedStart = time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC)

// DemoProjects returns the fixture projects
func DemoProjects() []Project {
	return []Project{
		{ID: 1, Name: "GreenX", Code: "GRX-001", Status: "Active", Location: "New York, USA", Timezone: "EST (UTC-5)"},
		{ID: 2, Name: "Timber", Code: "TMB-002", Status: "Active", Location: "Portland, Oregon", Timezone: "PST (UTC-8)"},
	}
}

// DemoSlots generates twenty deterministic slots per fixture project, for
// use with Service.Load in demos and tests
func DemoSlots() []Slot {
	var slots []Slot
	var id int64 = 1

	for _, project := range DemoProjects() {
		cfg, ok := seedConfigs[project.Name]
		if !ok {
			continue
		}
		for day := 0; day < 20; day++ {
			date := seedStart.AddDate(0, 0, day+cfg.dateOffset)
			slotTime := cfg.slotTimes[day%len(cfg.slotTimes)]
			location := cfg.locations[day%len(cfg.locations)]
			rep := cfg.reps[day%len(cfg.reps)]
			letterCode := string(rune('A' + day%26))

			slots = append(slots, Slot{
				ID:             id,
				ProjectName:    project.Name,
				Date:           date.Format("2006-01-02"),
				SlotName:       fmt.Sprintf("%s %s", slotTime.name, letterCode),
				StartTime:      slotTime.start,
				EndTime:        slotTime.end,
				Reps:           []string{rep},
				Capacity:       cfg.baseCapacity + (day*3)%30,
				ManualCapacity: true,
				Published:      (day+int(id))%4 != 0,
				Notes:          location,
			})
			id++
		}
	}
	return slots
}
