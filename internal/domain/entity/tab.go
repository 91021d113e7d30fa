package entity

// TabID identifies a browser tab by its CDP target id.
type TabID string

// TabInfo describes an attached tab and the engine context running in it.
type TabInfo struct {
	ID       TabID   `json:"id"`
	URL      string  `json:"url"`
	Domain   string  `json:"domain"`
	Active   bool    `json:"active"`
	Engine   bool    `json:"engine"`
	Enabled  bool    `json:"enabled"`
	Zoom     float64 `json:"zoom,omitempty"`
	Tracking bool    `json:"tracking"`
}

// ActiveTab returns the tab marked active, if any.
func ActiveTab(tabs []TabInfo) (TabInfo, bool) {
	for _, t := range tabs {
		if t.Active {
			return t, true
		}
	}
	return TabInfo{}, false
}
