package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound est renvoyé quand la clé n'existe pas dans le stockage.
var ErrNotFound = errors.New("clé introuvable")

// Storage est la frontière de persistance durable du storefront.
// Le panier et le token de session survivent aux rechargements de page
// tant que l'entrée n'a pas expiré.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	// Incr incrémente un compteur et pose le TTL à la première incrémentation.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Notifier diffuse les changements de panier vers les clients connectés
// (synchronisation temps réel du badge panier via WebSocket).
type Notifier interface {
	Publish(ctx context.Context, channel, payload string) error
	// Subscribe retourne un canal de messages et une fonction d'annulation.
	Subscribe(ctx context.Context, channel string) (<-chan string, func())
}
