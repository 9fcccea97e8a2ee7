package session

import "github.com/JonMunkholm/gridsheet/internal/core"

// sampleRows are the job requests a new session starts with when
// GRID_SEED_SAMPLE is on.
var sampleRows = []map[string]string{
	{
		"jobRequest": "Quarterly revenue dashboard",
		"submitted":  "08-01-2024",
		"status":     string(core.StatusInProgress),
		"submitter":  "Finance",
		"url":        "https://intranet.example.com/req/101",
		"assigned":   "Dana",
		"priority":   string(core.PriorityHigh),
		"dueDate":    "01-02-2024",
		"estValue":   "12000",
	},
	{
		"jobRequest": "Onboarding checklist refresh",
		"submitted":  "15-01-2024",
		"status":     string(core.StatusNeedToStart),
		"submitter":  "People Ops",
		"url":        "https://intranet.example.com/req/102",
		"assigned":   "",
		"priority":   string(core.PriorityLow),
		"dueDate":    "15-03-2024",
		"estValue":   "1500",
	},
	{
		"jobRequest": "Vendor invoice import",
		"submitted":  "22-01-2024",
		"status":     string(core.StatusBlocked),
		"submitter":  "Accounting",
		"url":        "https://intranet.example.com/req/103",
		"assigned":   "Sam",
		"priority":   string(core.PriorityMedium),
		"dueDate":    "20-02-2024",
		"estValue":   "4800",
	},
	{
		"jobRequest": "Marketing site landing page",
		"submitted":  "02-02-2024",
		"status":     string(core.StatusComplete),
		"submitter":  "Marketing",
		"url":        "https://intranet.example.com/req/104",
		"assigned":   "Lee",
		"priority":   string(core.PriorityMedium),
		"dueDate":    "10-02-2024",
		"estValue":   "3200",
	},
	{
		"jobRequest": "Warehouse scanner integration",
		"submitted":  "09-02-2024",
		"status":     string(core.StatusInProgress),
		"submitter":  "Operations",
		"url":        "https://intranet.example.com/req/105",
		"assigned":   "Dana",
		"priority":   string(core.PriorityHigh),
		"dueDate":    "01-04-2024",
		"estValue":   "25000",
	},
}

// SeedSample appends the sample job requests to g.
func SeedSample(g *core.Grid) {
	for _, fields := range sampleRows {
		id := g.InsertRow(-1)
		for key, text := range fields {
			// Built-in keys always exist on a fresh grid.
			_ = g.SetField(id, key, text)
		}
	}
}
