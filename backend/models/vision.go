package models

type VisionBoardImage struct {
	Entity
	ImageURL string `gorm:"type:text;not null" json:"imageUrl"`
	Caption  string `json:"caption,omitempty"`
	Position int    `gorm:"not null;default:0" json:"position"`
}
