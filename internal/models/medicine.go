package models

import "time"

// Medicine représente un médicament du catalogue distant (lecture seule).
// Les champs suivent exactement le contrat JSON de l'API pharmacie.
type Medicine struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	ShortName   *string   `json:"short_name,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Picture     string    `json:"picture"`
	UpdatedAt   time.Time `json:"updated_at"`
}
