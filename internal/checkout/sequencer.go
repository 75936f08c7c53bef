package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pharmacy_storefront/internal/store"
)

var (
	// ErrUnauthenticated : checkout tenté sans profil chargé. Aucun appel
	// réseau n'a eu lieu.
	ErrUnauthenticated = errors.New("utilisateur non authentifié")

	// ErrInsufficientBalance : solde insuffisant pour couvrir le total.
	// Aucune commande soumise, l'appelant déclenche le parcours de
	// rechargement du compte.
	ErrInsufficientBalance = errors.New("solde insuffisant")
)

// SubmitError signale l'arrêt de la séquence après l'échec d'une soumission.
// Les lignes déjà envoyées ne sont pas annulées et le panier reste intact.
type SubmitError struct {
	MedicineID int
	Submitted  int // lignes envoyées avec succès avant l'arrêt
	Err        error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("commande interrompue au médicament %d (%d ligne(s) déjà envoyée(s)): %v",
		e.MedicineID, e.Submitted, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// OrderSubmitter envoie une commande pour une ligne du panier.
type OrderSubmitter interface {
	PlaceOrder(ctx context.Context, token string, medicineID, quantity int) error
}

// Sequencer exécute le checkout : validation du solde puis une commande
// par ligne, strictement séquentielle et dans l'ordre d'insertion du
// panier. Pas de retry, pas d'annulation en cours de route.
type Sequencer struct {
	submitter OrderSubmitter
}

func NewSequencer(submitter OrderSubmitter) *Sequencer {
	return &Sequencer{submitter: submitter}
}

// Run lit le panier et la session, valide le solde et soumet les
// commandes. En cas de succès complet le panier est vidé ; au premier
// échec la séquence s'arrête et le panier est laissé tel quel. Retourne
// le total facturé.
func (s *Sequencer) Run(ctx context.Context, ledger *store.CartLedger, session *store.AuthSession) (float64, error) {
	profile := session.Profile()
	if profile == nil {
		return 0, ErrUnauthenticated
	}

	total := ledger.Total()
	if profile.AccountBalance < total {
		return total, ErrInsufficientBalance
	}

	// Une commande par ligne, dans l'ordre du panier
	for i, item := range ledger.Items() {
		if err := s.submitter.PlaceOrder(ctx, session.Token(), item.ID, item.Quantity); err != nil {
			log.Printf("❌ Checkout interrompu ligne %d/%d: %v", i+1, len(ledger.Items()), err)
			return total, &SubmitError{MedicineID: item.ID, Submitted: i, Err: err}
		}
	}

	ledger.Clear(ctx)
	return total, nil
}
