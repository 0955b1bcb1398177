package models

// Statistics is the per-date status breakdown shown on the staff dashboard.
type Statistics struct {
	Total   int `json:"total"`
	Waiting int `json:"waiting"`
	Serving int `json:"serving"`
	Served  int `json:"served"`
	Skipped int `json:"skipped"`
}
