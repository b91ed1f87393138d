package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"maison_atelier/internal/domain/models"
)

// UploadImages posts the files as one multipart request (field name
// "images", which is what the remote upload endpoint expects) and
// returns the persisted asset paths in input order. Count checks belong
// to the upload broker; the gateway only normalizes the response shape.
func (c *Client) UploadImages(ctx context.Context, files []models.StagedFile) ([]string, error) {
	const op = "gateway.Client.UploadImages"

	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no files given", op)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, f := range files {
		part, err := writer.CreateFormFile("images", f.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/admin/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	raw, err := c.send(req, "UPLOAD")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Single uploads answer {path}, batches {paths}; the Cloudinary
	// variant of the endpoint answers {url}.
	var resp struct {
		Path  string   `json:"path"`
		Paths []string `json:"paths"`
		URL   string   `json:"url"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}

	switch {
	case len(resp.Paths) > 0:
		return resp.Paths, nil
	case resp.Path != "":
		return []string{resp.Path}, nil
	case resp.URL != "":
		return []string{resp.URL}, nil
	default:
		return nil, nil
	}
}
