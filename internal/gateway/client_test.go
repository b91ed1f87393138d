package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"maison_atelier/internal/domain/models"
	"maison_atelier/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenSource is an in-memory TokenSource; the redis-backed one is
// covered in the repository package.
type stubTokenSource struct {
	mu      sync.Mutex
	token   string
	cleared bool
}

func (s *stubTokenSource) AdminToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", storage.ErrNoToken
	}
	return s.token, nil
}

func (s *stubTokenSource) ClearAdminToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared = true
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *stubTokenSource) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &stubTokenSource{token: token}
	client := New(slog.Default(), srv.URL, 0, tokens)

	return client, tokens
}

func TestClient_BearerInjection(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]string{})
	}, "tok-123")

	_, err := client.ListSlideshow(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_NoStoredTokenSendsNoHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]string{})
	}, "")

	_, err := client.ListSlideshow(context.Background())

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}, "stale-token")

	hookFired := false
	client.SetUnauthorizedHook(func() { hookFired = true })

	err := client.DeletePortfolioItem(context.Background(), "p1")

	assert.ErrorIs(t, err, storage.ErrUnauthorized)
	assert.True(t, tokens.cleared)
	assert.Empty(t, tokens.token)
	assert.True(t, hookFired)
}

func TestClient_NonOKCarriesBodyMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "message field",
			status:  http.StatusBadRequest,
			body:    `{"message":"title is required"}`,
			wantMsg: "title is required",
		},
		{
			name:    "error field",
			status:  http.StatusConflict,
			body:    `{"error":"duplicate entry"}`,
			wantMsg: "duplicate entry",
		},
		{
			name:    "unparseable body",
			status:  http.StatusInternalServerError,
			body:    `<html>oops</html>`,
			wantMsg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "tok")

			err := client.CreatePortfolioItem(context.Background(), models.PortfolioItem{Title: "X"})

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.Code)
			assert.Equal(t, tt.wantMsg, statusErr.Message)
		})
	}
}

func TestClient_ListPortfolio_IDDuality(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/portfolio", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"new-1","title":"Loft"},
			{"_id":"legacy-2","title":"Bistro"}
		]`))
	}, "")

	items, err := client.ListPortfolio(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new-1", items[0].ID)
	assert.Equal(t, "legacy-2", items[1].ID)
}

func TestClient_ListProjects_ResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bare array", body: `[{"id":"p1","title":"Loft","sequence":0}]`},
		{name: "data envelope", body: `{"data":[{"id":"p1","title":"Loft","sequence":0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/projects/sequence", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			}, "")

			projects, err := client.ListProjects(context.Background())

			require.NoError(t, err)
			require.Len(t, projects, 1)
			assert.Equal(t, "p1", projects[0].ID)
		})
	}
}

func TestClient_UpdateProjectSequence_Payload(t *testing.T) {
	var got map[string][]models.SequenceEntry
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/projects/sequence", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}, "tok")

	plan := []models.SequenceEntry{{ID: "a", Sequence: 0}, {ID: "b", Sequence: 1}}

	err := client.UpdateProjectSequence(context.Background(), plan)

	require.NoError(t, err)
	assert.Equal(t, plan, got["sequences"])
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		wantToken string
		wantErr   string
	}{
		{
			name:      "success",
			status:    http.StatusOK,
			body:      `{"success":true,"data":{"token":"jwt-token"}}`,
			wantToken: "jwt-token",
		},
		{
			name:    "success flag false",
			status:  http.StatusOK,
			body:    `{"success":false,"message":"invalid credentials"}`,
			wantErr: "invalid credentials",
		},
		{
			name:    "success without token",
			status:  http.StatusOK,
			body:    `{"success":true,"data":{}}`,
			wantErr: "login rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/login", r.URL.Path)

				var creds map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "studio@example.com", creds["email"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "")

			token, err := client.Login(context.Background(), "studio@example.com", "secret")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestClient_UploadImages(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantURLs []string
	}{
		{name: "batch paths", body: `{"paths":["/uploads/a.jpg","/uploads/b.jpg"]}`, wantURLs: []string{"/uploads/a.jpg", "/uploads/b.jpg"}},
		{name: "single path", body: `{"path":"/uploads/a.jpg"}`, wantURLs: []string{"/uploads/a.jpg"}},
		{name: "cloudinary url", body: `{"url":"https://cdn.example.com/a.jpg"}`, wantURLs: []string{"https://cdn.example.com/a.jpg"}},
		{name: "empty envelope", body: `{}`, wantURLs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/admin/upload", r.URL.Path)

				require.NoError(t, r.ParseMultipartForm(1<<20))
				parts := r.MultipartForm.File["images"]
				assert.Len(t, parts, 1)

				_, _ = w.Write([]byte(tt.body))
			}, "tok")

			urls, err := client.UploadImages(context.Background(), []models.StagedFile{
				{Name: "a.jpg", Data: []byte("jpegdata")},
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantURLs, urls)
		})
	}
}

func TestClient_DeleteSlideshowImage_NegativeIndex(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "tok")

	err := client.DeleteSlideshowImage(context.Background(), -1)

	assert.Error(t, err)
	assert.False(t, called)
}

func TestClient_TransportErrorSurfaces(t *testing.T) {
	client := New(slog.Default(), "http://127.0.0.1:1", 0, &stubTokenSource{})

	err := client.Health(context.Background())

	require.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrUnauthorized))
}
