package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmacy_storefront/internal/models"
)

// Client parle aux deux backends distants : l'API pharmacie (catalogue,
// token, profil, commandes) et le service utilisateur legacy (création de
// compte, session cookie). Aucun retry : chaque échec est une tentative
// unique remontée à l'appelant.
type Client struct {
	apiBase    string
	legacyBase string
	http       *http.Client
}

// NewClient construit le client distant. Le timeout vit ici, pas dans la
// logique métier.
func NewClient(apiBase, legacyBase string) *Client {
	return &Client{
		apiBase:    strings.TrimRight(apiBase, "/"),
		legacyBase: strings.TrimRight(legacyBase, "/"),
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// MedicineFilter regroupe les filtres du catalogue. Zéro = pas de filtre.
type MedicineFilter struct {
	Name     string
	Category string
	MaxPrice float64
	Limit    int
}

// Token échange les identifiants contre un bearer token via le endpoint
// de token (grant password, form-urlencoded).
func (c *Client) Token(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("grant_type", "password")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/v1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("échec authentification: %s", apiDetail(resp))
	}

	var auth models.TokenAuth
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("réponse token illisible: %w", err)
	}
	return auth.AccessToken, nil
}

// Profile récupère le profil de l'utilisateur porteur du token.
func (c *Client) Profile(ctx context.Context, token string) (*models.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/v1/profile", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("échec récupération profil: %s", apiDetail(resp))
	}

	var profile models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("profil illisible: %w", err)
	}
	return &profile, nil
}

// Medicines liste le catalogue, filtré côté serveur par nom, catégorie
// et prix maximum.
func (c *Client) Medicines(ctx context.Context, token string, filter MedicineFilter) ([]models.Medicine, error) {
	params := url.Values{}
	if filter.Name != "" {
		params.Set("name", filter.Name)
	}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if filter.MaxPrice > 0 {
		params.Set("price", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiBase+"/v1/medicine?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("échec catalogue: %s", apiDetail(resp))
	}

	var medicines []models.Medicine
	if err := json.NewDecoder(resp.Body).Decode(&medicines); err != nil {
		return nil, fmt.Errorf("catalogue illisible: %w", err)
	}
	return medicines, nil
}

// PlaceOrder soumet une commande pour un médicament : identifiant dans le
// chemin, quantité dans le corps. Chaque soumission porte une clé
// d'idempotence pour que le backend puisse dédupliquer un éventuel double
// envoi réseau.
func (c *Client) PlaceOrder(ctx context.Context, token string, medicineID, quantity int) error {
	body, _ := json.Marshal(map[string]int{"quantity": quantity})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/order/%d", c.apiBase, medicineID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("échec commande médicament %d: %s", medicineID, apiDetail(resp))
	}
	return nil
}

// LegacyLogin établit la session cookie côté service legacy.
func (c *Client) LegacyLogin(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.legacyBase+"/user/login?token="+url.QueryEscape(token), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("login legacy refusé (%d)", resp.StatusCode)
	}
	return nil
}

// Register crée un compte via le service legacy (multipart, comme le
// formulaire d'origine).
func (c *Client) Register(ctx context.Context, data models.RegisterData) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("username", data.Username)
	w.WriteField("email", data.Email)
	w.WriteField("password", data.Password)
	w.WriteField("location", data.Location)
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.legacyBase+"/user/create", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("échec inscription: %s", apiDetail(resp))
	}
	return nil
}

// apiDetail extrait le champ detail des réponses d'erreur de l'API,
// faute de quoi le statut HTTP brut.
func apiDetail(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var feedback struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &feedback) == nil && feedback.Detail != "" {
		return feedback.Detail
	}
	return resp.Status
}
