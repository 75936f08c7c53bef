package models

// CartItem = instantané du médicament au moment de l'ajout + quantité demandée.
// Une seule ligne par médicament dans le panier (clé = Medicine.ID).
type CartItem struct {
	Medicine
	Quantity int `json:"quantity"`
}

// Subtotal retourne le sous-total de la ligne (prix unitaire × quantité).
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
