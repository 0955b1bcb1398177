package models

// Settings holds the display configuration read by the public queue screen.
type Settings struct {
	QueuePrefix string `json:"queue_prefix"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
}
