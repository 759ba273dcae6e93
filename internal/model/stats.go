package model

// Stats summarises the catalogue.
type Stats struct {
	Total         int             `json:"total"`
	ByCategory    []CategoryCount `json:"by_category"`
	Uncategorized int             `json:"uncategorized"`
	ByCondition   map[string]int  `json:"by_condition"`
	Recent        []Item          `json:"recent"`
	Categories    int             `json:"categories"`
	Locations     int             `json:"locations"`
	Donors        int             `json:"donors"`
	Photos        int             `json:"photos"`
}

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

// RecentLimit is the maximum number of recently registered items in Stats.
const RecentLimit = 10
