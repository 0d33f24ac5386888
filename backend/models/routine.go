package models

type RoutineItem struct {
	Entity
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`
	Time        string `gorm:"size:5" json:"time,omitempty"`
	Order       int    `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsActive    bool   `gorm:"not null" json:"isActive"`
	Completed   bool   `gorm:"not null;default:false" json:"completed"`
}

// DefaultRoutine is the morning routine a new user starts with.
func DefaultRoutine(userID uint) []RoutineItem {
	items := []RoutineItem{
		{Title: "Hydratation matinale", Description: "Verre d'eau au réveil"},
		{Title: "Skincare routine", Description: "Nettoyage + hydratation"},
		{Title: "Mouvement doux", Description: "10 minutes de marche ou yoga"},
		{Title: "Journaling", Description: "Écrire ses pensées"},
		{Title: "Intention du jour", Description: "Définir son intention"},
	}
	for i := range items {
		items[i].UserID = userID
		items[i].Order = i + 1
		items[i].IsActive = true
	}
	return items
}
