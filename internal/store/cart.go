package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"pharmacy_storefront/internal/models"
	"pharmacy_storefront/internal/storage"
)

// Le panier expire côté stockage après 30 jours sans mutation.
const cartTTL = 30 * 24 * time.Hour

// Payloads publiés sur le canal du panier après chaque mutation.
const (
	CartUpdated = "updated"
	CartCleared = "cleared"
)

// CartLedger détient les lignes du panier d'une session navigateur.
// Ordre d'insertion préservé, une seule ligne par médicament. Chaque
// mutation remplace la collection puis déclenche le commit (persistance
// + notification) — la logique métier ne connaît pas Redis.
//
// Le ledger n'est pas partagé entre goroutines : il est construit et
// hydraté par requête, la cohérence vient du stockage durable.
type CartLedger struct {
	key      string
	items    []models.CartItem
	storage  storage.Storage
	notifier storage.Notifier // optionnel
}

// NewCartLedger construit le panier de la session donnée.
func NewCartLedger(sessionID string, st storage.Storage, n storage.Notifier) *CartLedger {
	return &CartLedger{
		key:      "cart:" + sessionID,
		storage:  st,
		notifier: n,
	}
}

// Channel retourne le canal de notification du panier de cette session.
func (l *CartLedger) Channel() string {
	return l.key
}

// Load hydrate le panier depuis le stockage durable.
// Clé absente ou contenu illisible = panier vide.
func (l *CartLedger) Load(ctx context.Context) {
	data, err := l.storage.Get(ctx, l.key)
	if err != nil || data == "" {
		l.items = nil
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		log.Printf("❌ Panier %s illisible, on repart à vide: %v", l.key, err)
		l.items = nil
		return
	}
	l.items = items
}

// Items retourne une copie des lignes, dans l'ordre d'insertion.
func (l *CartLedger) Items() []models.CartItem {
	out := make([]models.CartItem, len(l.items))
	copy(out, l.items)
	return out
}

// AddItem ajoute une ligne ou incrémente la quantité de la ligne existante.
// Aucune borne supérieure ici : le clamp contre le stock est fait par
// l'appelant au moment de la mutation.
func (l *CartLedger) AddItem(ctx context.Context, medicine models.Medicine, quantity int) {
	next := make([]models.CartItem, len(l.items))
	copy(next, l.items)

	found := false
	for i := range next {
		if next[i].ID == medicine.ID {
			next[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		next = append(next, models.CartItem{Medicine: medicine, Quantity: quantity})
	}

	l.items = next
	l.commit(ctx, CartUpdated)
}

// RemoveItem supprime la ligne du médicament. No-op si absente.
func (l *CartLedger) RemoveItem(ctx context.Context, medicineID int) {
	next := make([]models.CartItem, 0, len(l.items))
	for _, item := range l.items {
		if item.ID != medicineID {
			next = append(next, item)
		}
	}

	l.items = next
	l.commit(ctx, CartUpdated)
}

// UpdateQuantity remplace la quantité de la ligne. No-op si absente.
// Le ledger accepte la quantité telle quelle, l'appelant la borne.
func (l *CartLedger) UpdateQuantity(ctx context.Context, medicineID, quantity int) {
	next := make([]models.CartItem, len(l.items))
	copy(next, l.items)

	for i := range next {
		if next[i].ID == medicineID {
			next[i].Quantity = quantity
			break
		}
	}

	l.items = next
	l.commit(ctx, CartUpdated)
}

// Clear vide le panier inconditionnellement.
func (l *CartLedger) Clear(ctx context.Context) {
	l.items = nil
	l.commit(ctx, CartCleared)
}

// Total retourne la somme des sous-totaux. Toujours recalculé, jamais caché.
func (l *CartLedger) Total() float64 {
	total := 0.0
	for _, item := range l.items {
		total += item.Subtotal()
	}
	return total
}

// IsEmpty indique si le panier ne contient aucune ligne.
func (l *CartLedger) IsEmpty() bool {
	return len(l.items) == 0
}

// commit persiste l'instantané courant puis notifie les abonnés.
// Un échec de persistance est journalisé sans remonter : la mutation
// en mémoire reste acquise pour la requête en cours.
func (l *CartLedger) commit(ctx context.Context, payload string) {
	data, _ := json.Marshal(l.items)
	if err := l.storage.Set(ctx, l.key, string(data), cartTTL); err != nil {
		log.Printf("❌ Erreur sauvegarde panier %s: %v", l.key, err)
	}

	if l.notifier != nil {
		if err := l.notifier.Publish(ctx, l.key, payload); err != nil {
			log.Printf("⚠️ Notification panier %s non diffusée: %v", l.key, err)
		}
	}
}
