package dog

import "time"

type Dog struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	AgeYears  int       `json:"age_years"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
