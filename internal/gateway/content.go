package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"maison_atelier/internal/domain/models"
)

// portfolioWire and friends absorb the remote service's id duality:
// some rows come back with "id", older ones with "_id".
type portfolioWire struct {
	ID          string   `json:"id"`
	MongoID     string   `json:"_id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Year        string   `json:"year"`
	Features    []string `json:"features"`
	Images      []string `json:"images"`
	Featured    bool     `json:"featured"`
	Sequence    int      `json:"sequence"`
}

type serviceWire struct {
	ID          string `json:"id"`
	MongoID     string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Image       string `json:"image"`
	Sequence    int    `json:"sequence"`
}

type projectWire struct {
	ID        string `json:"id"`
	MongoID   string `json:"_id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Sequence  int    `json:"sequence"`
	Published bool   `json:"published"`
	Featured  bool   `json:"featured"`
}

func pickID(id, mongoID string) string {
	if id != "" {
		return id
	}
	return mongoID
}

func (c *Client) ListPortfolio(ctx context.Context) ([]models.PortfolioItem, error) {
	const op = "gateway.Client.ListPortfolio"

	var wire []portfolioWire
	if err := c.do(ctx, http.MethodGet, "/api/portfolio", nil, &wire); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.PortfolioItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, models.PortfolioItem{
			ID:          pickID(w.ID, w.MongoID),
			Title:       w.Title,
			Subtitle:    w.Subtitle,
			Description: w.Description,
			Image:       w.Image,
			Category:    w.Category,
			Location:    w.Location,
			Year:        w.Year,
			Features:    w.Features,
			Images:      w.Images,
			Featured:    w.Featured,
			Sequence:    w.Sequence,
		})
	}

	return items, nil
}

func (c *Client) CreatePortfolioItem(ctx context.Context, item models.PortfolioItem) error {
	return c.do(ctx, http.MethodPost, "/api/admin/portfolio", item, nil)
}

func (c *Client) UpdatePortfolioItem(ctx context.Context, id string, item models.PortfolioItem) error {
	if id == "" {
		return fmt.Errorf("gateway.Client.UpdatePortfolioItem: empty id")
	}
	return c.do(ctx, http.MethodPut, "/api/admin/portfolio/"+url.PathEscape(id), item, nil)
}

func (c *Client) DeletePortfolioItem(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("gateway.Client.DeletePortfolioItem: empty id")
	}
	return c.do(ctx, http.MethodDelete, "/api/admin/portfolio/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListServices(ctx context.Context) ([]models.ServiceItem, error) {
	const op = "gateway.Client.ListServices"

	var wire []serviceWire
	if err := c.do(ctx, http.MethodGet, "/api/services", nil, &wire); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.ServiceItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, models.ServiceItem{
			ID:          pickID(w.ID, w.MongoID),
			Title:       w.Title,
			Description: w.Description,
			Icon:        w.Icon,
			Image:       w.Image,
			Sequence:    w.Sequence,
		})
	}

	return items, nil
}

func (c *Client) CreateServiceItem(ctx context.Context, item models.ServiceItem) error {
	return c.do(ctx, http.MethodPost, "/api/admin/services", item, nil)
}

func (c *Client) UpdateServiceItem(ctx context.Context, id string, item models.ServiceItem) error {
	if id == "" {
		return fmt.Errorf("gateway.Client.UpdateServiceItem: empty id")
	}
	return c.do(ctx, http.MethodPut, "/api/admin/services/"+url.PathEscape(id), item, nil)
}

func (c *Client) DeleteServiceItem(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("gateway.Client.DeleteServiceItem: empty id")
	}
	return c.do(ctx, http.MethodDelete, "/api/admin/services/"+url.PathEscape(id), nil, nil)
}

// ListSlideshow returns the raw ordered URL list; positions in this
// slice are the only identity slideshow images have.
func (c *Client) ListSlideshow(ctx context.Context) ([]string, error) {
	const op = "gateway.Client.ListSlideshow"

	var urls []string
	if err := c.do(ctx, http.MethodGet, "/api/slideshow", nil, &urls); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return urls, nil
}

func (c *Client) AddSlideshowImage(ctx context.Context, imageURL string) error {
	body := map[string]string{"image": imageURL}
	return c.do(ctx, http.MethodPost, "/api/admin/slideshow", body, nil)
}

// DeleteSlideshowImage addresses the image by its position in the list
// as last fetched. A concurrent admin session can shift indexes between
// fetch and delete; the wire contract offers nothing better.
func (c *Client) DeleteSlideshowImage(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("gateway.Client.DeleteSlideshowImage: negative index")
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/slideshow/%d", index), nil, nil)
}

// ListProjects tolerates both response shapes the sequence endpoint is
// known to produce: a bare array and a {data: [...]} envelope.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	const op = "gateway.Client.ListProjects"

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/projects/sequence", nil, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var wire []projectWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		var envelope struct {
			Data []projectWire `json:"data"`
		}
		if envErr := json.Unmarshal(raw, &envelope); envErr != nil {
			return nil, fmt.Errorf("%s: decode response: %w", op, err)
		}
		wire = envelope.Data
	}

	projects := make([]models.Project, 0, len(wire))
	for _, w := range wire {
		projects = append(projects, models.Project{
			ID:        pickID(w.ID, w.MongoID),
			Title:     w.Title,
			Category:  w.Category,
			Sequence:  w.Sequence,
			Published: w.Published,
			Featured:  w.Featured,
		})
	}

	return projects, nil
}

// UpdateProjectSequence submits the whole reordering as one request so
// the remote service sees a single atomic intent.
func (c *Client) UpdateProjectSequence(ctx context.Context, plan []models.SequenceEntry) error {
	body := map[string][]models.SequenceEntry{"sequences": plan}
	return c.do(ctx, http.MethodPut, "/api/projects/sequence", body, nil)
}

// Login exchanges operator credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	const op = "gateway.Client.Login"

	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}

	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !resp.Success || resp.Data.Token == "" {
		if resp.Message != "" {
			return "", fmt.Errorf("%s: %s", op, resp.Message)
		}
		return "", fmt.Errorf("%s: login rejected", op)
	}

	return resp.Data.Token, nil
}

func (c *Client) SubmitContact(ctx context.Context, msg models.ContactMessage) error {
	return c.do(ctx, http.MethodPost, "/api/contact", msg, nil)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}
