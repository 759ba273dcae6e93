package model

import "time"

// Photo is an image attached to an item. The image bytes are loaded separately.
type Photo struct {
	ID           int64     `json:"id"`
	ItemID       int64     `json:"item_id"`
	Mime         string    `json:"mime"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Size         int64     `json:"size"`
	Description  string    `json:"description,omitempty"`
	Photographer string    `json:"photographer,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewPhoto holds a processed image ready to be stored.
type NewPhoto struct {
	ItemID       int64
	Data         []byte
	Mime         string
	Width        int
	Height       int
	Description  string
	Photographer string
}
