package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"artlink/internal/config"
	"artlink/internal/database"
	"artlink/internal/models"
	"artlink/internal/repository"
	"artlink/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockPostStore is a mock of repository.Store[models.Post].
type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) Create(ctx context.Context, post *models.Post) (string, error) {
	args := m.Called(ctx, post)
	return args.String(0), args.Error(1)
}

func (m *MockPostStore) List(ctx context.Context, filter repository.Filter, limit int) ([]models.Post, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

// MockCommentStore is a mock of repository.Store[models.Comment].
type MockCommentStore struct {
	mock.Mock
}

func (m *MockCommentStore) Create(ctx context.Context, comment *models.Comment) (string, error) {
	args := m.Called(ctx, comment)
	return args.String(0), args.Error(1)
}

func (m *MockCommentStore) List(ctx context.Context, filter repository.Filter, limit int) ([]models.Comment, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestServer(t *testing.T, db *gorm.DB, flags string) (*Server, *fiber.App) {
	t.Helper()
	srv, err := NewServerWithDeps(&config.Config{
		Port:           "8000",
		AllowedOrigins: "*",
		FeatureFlags:   flags,
	}, db, nil)
	require.NoError(t, err)
	return srv, srv.NewApp()
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeError(t *testing.T, body []byte) models.ErrorResponse {
	t.Helper()
	var er models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &er), string(body))
	return er
}

func errorFields(er models.ErrorResponse) []string {
	out := make([]string, 0, len(er.Fields))
	for _, f := range er.Fields {
		out = append(out, f.Field)
	}
	return out
}

func createID(t *testing.T, app *fiber.App, path string, body any) string {
	t.Helper()
	resp, raw := doJSON(t, app, http.MethodPost, path, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var created CreateResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestRoot(t *testing.T) {
	_, app := newTestServer(t, nil, "")

	resp, body := doJSON(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"name":"ArtLink","status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestUsers_CreateAppliesDefaults(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	id := createID(t, app, "/api/users", map[string]any{"name": "Ada", "email": "ada@example.com"})

	resp, body := doJSON(t, app, http.MethodGet, "/api/users", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var users []models.User
	require.NoError(t, json.Unmarshal(body, &users))
	require.Len(t, users, 1)
	assert.Equal(t, id, users[0].ID)
	assert.Equal(t, models.RoleBoth, users[0].Role)
	assert.True(t, users[0].IsActive)
	require.NotNil(t, users[0].Bio)
	assert.Equal(t, "", *users[0].Bio)
}

func TestArtworks_ValidationFailureReportsAllFields(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	resp, body := doJSON(t, app, http.MethodPost, "/api/artworks", map[string]any{
		"artist_id":           "u1",
		"availability_status": "lost",
		"images":              []string{"not-a-url"},
		"likes":               -1,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	er := decodeError(t, body)
	assert.Equal(t, models.CodeValidation, er.Code)
	assert.ElementsMatch(t,
		[]string{"title", "availability_status", "images[0]", "likes"},
		errorFields(er))

	resp, body = doJSON(t, app, http.MethodGet, "/api/artworks", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestArtworks_TagFilterAndLimit(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	abstractID := createID(t, app, "/api/artworks", map[string]any{
		"artist_id": "u1", "title": "One", "tags": []string{"abstract"},
	})
	createID(t, app, "/api/artworks", map[string]any{
		"artist_id": "u1", "title": "Two", "tags": []string{"portrait"},
	})

	_, body := doJSON(t, app, http.MethodGet, "/api/artworks?tag=abstract", nil)
	var artworks []models.Artwork
	require.NoError(t, json.Unmarshal(body, &artworks))
	require.Len(t, artworks, 1)
	assert.Equal(t, abstractID, artworks[0].ID)
	assert.Equal(t, models.DefaultShippingOptions, []string(artworks[0].ShippingOptions))

	for i := 0; i < 58; i++ {
		createID(t, app, "/api/artworks", map[string]any{"artist_id": "u1", "title": fmt.Sprintf("p%d", i)})
	}
	_, body = doJSON(t, app, http.MethodGet, "/api/artworks", nil)
	require.NoError(t, json.Unmarshal(body, &artworks))
	assert.Len(t, artworks, 50)
}

func TestPurchaseRequests_DefaultStatus(t *testing.T) {
	db := setupTestDB(t)
	_, app := newTestServer(t, db, "")

	id := createID(t, app, "/api/purchase-requests", map[string]any{
		"artwork_id": "a1", "buyer_name": "Bo", "buyer_email": "bo@example.com",
	})

	var pr models.PurchaseRequest
	require.NoError(t, db.First(&pr, "id = ?", id).Error)
	assert.Equal(t, models.InquiryNew, pr.Status)
	require.NotNil(t, pr.Message)
	assert.Equal(t, "", *pr.Message)
}

func TestSupplies_CategoryFilter(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	createID(t, app, "/api/supplies", map[string]any{"title": "Round brush", "price": 3.5, "category": "Brushes"})
	createID(t, app, "/api/supplies", map[string]any{"title": "Ochre", "price": 7, "category": "Paints"})

	resp, body := doJSON(t, app, http.MethodPost, "/api/supplies", map[string]any{"title": "Free", "category": "Misc"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"price"}, errorFields(decodeError(t, body)))

	_, body = doJSON(t, app, http.MethodGet, "/api/supplies?category=Brushes", nil)
	var supplies []models.Supply
	require.NoError(t, json.Unmarshal(body, &supplies))
	require.Len(t, supplies, 1)
	assert.Equal(t, "Round brush", supplies[0].Title)
}

func TestOrders_TotalIsComputedAndStatusForced(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	createID(t, app, "/api/orders", map[string]any{
		"buyer_name":       "Ada",
		"buyer_email":      "ada@example.com",
		"shipping_address": "1 Canvas Way",
		"total_amount":     999,
		"status":           "paid",
		"items": []map[string]any{
			{"supply_id": "s1", "title": "Brush", "price": 10, "quantity": 2},
			{"supply_id": "s2", "title": "Ink", "price": 5},
		},
	})

	_, body := doJSON(t, app, http.MethodGet, "/api/orders", nil)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(body, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, 25.0, orders[0].TotalAmount)
	assert.Equal(t, models.OrderPending, orders[0].Status)
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, 1, orders[0].Items[1].Quantity)
}

func TestOrders_InvalidInput(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	resp, body := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{"buyer_name": "Ada"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.ElementsMatch(t,
		[]string{"buyer_email", "shipping_address", "items"},
		errorFields(decodeError(t, body)))

	resp, body = doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"buyer_name":       "Ada",
		"buyer_email":      "ada@example.com",
		"shipping_address": "1 Canvas Way",
		"items":            []map[string]any{{"supply_id": "s1", "title": "Brush", "price": "lots"}},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"items[0].price"}, errorFields(decodeError(t, body)))
}

func TestComments_RequirePostID(t *testing.T) {
	srv, app := newTestServer(t, setupTestDB(t), "")
	comments := new(MockCommentStore)
	srv.repos.Comments = comments

	resp, body := doJSON(t, app, http.MethodGet, "/api/comments", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeMissingParameter, decodeError(t, body).Code)
	comments.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestComments_ListByPost(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	for _, postID := range []string{"p1", "p2", "p1"} {
		createID(t, app, "/api/comments", map[string]any{
			"post_id": postID, "author_id": "a1", "text": "lovely",
			"created_at": "2024-05-01T12:00:00Z",
		})
	}

	_, body := doJSON(t, app, http.MethodGet, "/api/comments?post_id=p1", nil)
	var comments []models.Comment
	require.NoError(t, json.Unmarshal(body, &comments))
	assert.Len(t, comments, 2)

	resp, body := doJSON(t, app, http.MethodGet, "/api/comments?post_id=", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestPosts_StorageErrors(t *testing.T) {
	srv, app := newTestServer(t, setupTestDB(t), "")
	posts := new(MockPostStore)
	srv.repos.Posts = posts

	posts.On("List", mock.Anything, mock.Anything, repository.PostListLimit).
		Return(nil, fmt.Errorf("%w: relation missing", repository.ErrStorage)).Once()
	posts.On("Create", mock.Anything, mock.AnythingOfType("*models.Post")).
		Return("", fmt.Errorf("%w: refused", repository.ErrStorageUnavailable)).Once()

	resp, body := doJSON(t, app, http.MethodGet, "/api/posts?tag=ink", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.CodeStorage, decodeError(t, body).Code)

	resp, body = doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{"author_id": "a1", "text": "hello"})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, models.CodeStorageUnavailable, decodeError(t, body).Code)

	posts.AssertExpectations(t)
}

func TestPosts_ValidationHappensBeforeStore(t *testing.T) {
	srv, app := newTestServer(t, setupTestDB(t), "")
	posts := new(MockPostStore)
	srv.repos.Posts = posts

	resp, body := doJSON(t, app, http.MethodPost, "/api/posts", `{"author_id": 7, "likes": "many"}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.ElementsMatch(t, []string{"author_id", "likes", "text"}, errorFields(decodeError(t, body)))
	posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPosts_TextRoundTripsByDefault(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	text := `Use <canvas> & oil, a<b but b>c`
	id := createID(t, app, "/api/posts", map[string]any{"author_id": "a1", "text": text})

	_, body := doJSON(t, app, http.MethodGet, "/api/posts", nil)
	var posts []models.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, id, posts[0].ID)
	assert.Equal(t, text, posts[0].Text)
}

func TestPosts_SanitizeFlagOn(t *testing.T) {
	db := setupTestDB(t)
	_, app := newTestServer(t, db, "sanitize_input=on")

	id := createID(t, app, "/api/posts", map[string]any{
		"author_id": "a1",
		"text":      `<script>alert(1)</script><b>Fresh</b> paint & "varnish"`,
	})

	var p models.Post
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	assert.Equal(t, `Fresh paint & "varnish"`, p.Text)
}

func TestPosts_TagFilter(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	inkID := createID(t, app, "/api/posts", map[string]any{
		"author_id": "a1", "text": "wip", "tags": []string{"ink", "sketch"},
	})
	createID(t, app, "/api/posts", map[string]any{
		"author_id": "a2", "text": "done", "tags": []string{"oil"},
	})

	_, body := doJSON(t, app, http.MethodGet, "/api/posts?tag=ink", nil)
	var posts []models.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, inkID, posts[0].ID)

	_, body = doJSON(t, app, http.MethodGet, "/api/posts?tag=watercolor", nil)
	assert.JSONEq(t, `[]`, string(body))

	_, body = doJSON(t, app, http.MethodGet, "/api/posts", nil)
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Len(t, posts, 2)
}

func TestCreate_EmptyStringsAreValues(t *testing.T) {
	db := setupTestDB(t)
	_, app := newTestServer(t, db, "")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{"name": "", "email": ""})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/posts", map[string]any{"author_id": "a", "text": ""})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{"email": "e"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"name"}, errorFields(decodeError(t, body)))
}

func TestNoDatabase(t *testing.T) {
	_, app := newTestServer(t, nil, "")

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{"name": "Ada", "email": "ada@example.com"})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, models.CodeStorageUnavailable, decodeError(t, body).Code)

	resp, body = doJSON(t, app, http.MethodGet, "/test", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report service.DiagnosticsReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "❌ Not Available", report.Database)
	assert.Equal(t, "Not Connected", report.ConnectionStatus)

	resp, _ = doJSON(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestDiagnostics_Connected(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	resp, body := doJSON(t, app, http.MethodGet, "/test", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var report service.DiagnosticsReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "✅ Connected & Working", report.Database)
	assert.Contains(t, report.Collections, "purchaserequest")
}

func TestHealth(t *testing.T) {
	_, app := newTestServer(t, setupTestDB(t), "")

	resp, _ := doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"redis":"unavailable"`)
}

func TestUnknownRoute(t *testing.T) {
	_, app := newTestServer(t, nil, "")

	resp, body := doJSON(t, app, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, decodeError(t, body).Code)
}

func TestPanicIsInternalError(t *testing.T) {
	srv, _ := newTestServer(t, nil, "")
	app := fiber.New(fiber.Config{ErrorHandler: srv.ErrorHandler})
	srv.SetupMiddleware(app)
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	resp, body := doJSON(t, app, http.MethodGet, "/boom", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.CodeInternal, decodeError(t, body).Code)
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	_, app := newTestServer(t, nil, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "https://gallery.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "Content-Type, X-Custom", resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestNewServerWithDeps_NilConfig(t *testing.T) {
	_, err := NewServerWithDeps(nil, nil, nil)
	assert.Error(t, err)
}
