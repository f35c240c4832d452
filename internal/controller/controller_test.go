package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"code-concierge-be/internal/controller"
	"code-concierge-be/internal/entity"
	"code-concierge-be/internal/pkg/logger"
	"code-concierge-be/internal/pkg/serverutils"
	"code-concierge-be/internal/pkg/storage"
	"code-concierge-be/internal/repository/memory"
	"code-concierge-be/internal/repository/unitofwork"
	"code-concierge-be/internal/service"
	"code-concierge-be/internal/testutil"
	"code-concierge-be/pkg/events"
	"code-concierge-be/pkg/extract"
	"code-concierge-be/pkg/rag/prompt"
	"code-concierge-be/pkg/rag/response"
	"code-concierge-be/pkg/rag/search"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSecret = "controller-secret"

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, event events.Event) error { return nil }

type noScraper struct{}

func (noScraper) Scrape(ctx context.Context, url string) (*extract.ScrapedPage, error) {
	return nil, extract.ErrInvalidURL
}

type cannedAnswerer struct{}

func (cannedAnswerer) Answer(ctx context.Context, message string, knowledge prompt.Knowledge) *response.AnswerResult {
	return &response.AnswerResult{Answer: "canned"}
}

type testApp struct {
	app    *fiber.App
	uow    unitofwork.RepositoryFactory
	signer *serverutils.DownloadSigner
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := unitofwork.NewRepositoryFactory(db)
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	cache := memory.NewStatsCache(time.Minute)
	log := logger.NewNopLogger()
	signer := serverutils.NewDownloadSigner(testSecret, time.Hour, "http://test")

	opts := search.DefaultOptions()
	opts.Locator = signer.Locator
	engine := search.NewEngine(search.NewRepositoryStore(uow, cache), opts, log)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(log)})
	api := app.Group("/api")
	controller.NewKnowledgeController(service.NewKnowledgeService(uow, files, noScraper{}, nopPublisher{}, cache, log), testSecret).RegisterRoutes(api)
	controller.NewSearchController(service.NewSearchService(engine, log)).RegisterRoutes(api)
	controller.NewChatController(service.NewChatService(uow, engine, cannedAnswerer{}, signer.Locator, log), testSecret).RegisterRoutes(api)
	controller.NewFileController(service.NewFileService(uow, files, signer, log)).RegisterRoutes(api)
	controller.NewLogController(log, testSecret).RegisterRoutes(api)

	return &testApp{app: app, uow: uow, signer: signer}
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.Unmarshal(body, &out)
	return resp, out
}

func jsonRequest(method, target, body, auth string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}

func uploadRequest(t *testing.T, target, auth, filename string, data []byte, mode string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("files", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	if mode != "" {
		require.NoError(t, w.WriteField("mode", mode))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", auth)
	return req
}

func mappingXlsx(t *testing.T) []byte {
	t.Helper()
	x := excelize.NewFile()
	defer x.Close()
	require.NoError(t, x.SetSheetRow("Sheet1", "A1", &[]interface{}{"query_term", "pdf_filename", "category"}))
	require.NoError(t, x.SetSheetRow("Sheet1", "A2", &[]interface{}{"Persona", "persona.pdf", "Canvas"}))
	buf, err := x.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestKnowledgeRoutes_RequireAdmin(t *testing.T) {
	a := newTestApp(t)

	cases := []struct {
		name string
		auth string
		want int
	}{
		{"no token", "", fiber.StatusUnauthorized},
		{"user role", bearer(t, "user"), fiber.StatusForbidden},
		{"admin", bearer(t, serverutils.RoleAdmin), fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := a.do(t, jsonRequest(http.MethodGet, "/api/admin/v1/knowledge/stats", "", tc.auth))
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestKnowledgeRoutes_ImportClearExport(t *testing.T) {
	a := newTestApp(t)
	admin := bearer(t, serverutils.RoleAdmin)

	resp, body := a.do(t, uploadRequest(t, "/api/admin/v1/knowledge/workbooks", admin, "mapping.xlsx", mappingXlsx(t), "append"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["succeeded"])

	resp, _ = a.do(t, uploadRequest(t, "/api/admin/v1/knowledge/workbooks", admin, "mapping.xlsx", mappingXlsx(t), "merge"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(t, jsonRequest(http.MethodPost, "/api/admin/v1/knowledge/urls", `{"urls":["not a url"]}`, admin))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req := jsonRequest(http.MethodGet, "/api/admin/v1/knowledge/export?table=mappings&format=csv", "", admin)
	raw, err := a.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, raw.StatusCode)
	assert.Contains(t, raw.Header.Get(fiber.HeaderContentDisposition), "excel_mappings_")
	csvBody, _ := io.ReadAll(raw.Body)
	assert.Contains(t, string(csvBody), "Persona,persona.pdf,Canvas")

	resp, _ = a.do(t, jsonRequest(http.MethodDelete, "/api/admin/v1/knowledge/users", "", admin))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = a.do(t, jsonRequest(http.MethodDelete, "/api/admin/v1/knowledge/mappings", "", admin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["deleted"])
}

func TestSearchAndChatRoutes(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, jsonRequest(http.MethodPost, "/api/search/v1", `{"query":""}`, ""))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, body = a.do(t, jsonRequest(http.MethodGet, "/api/search/v1?q=persona", "", ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "not-found", body["data"].(map[string]interface{})["type"])

	resp, body = a.do(t, jsonRequest(http.MethodPost, "/api/chat/v1", `{"message":"persona"}`, ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "empty_knowledge_base", body["data"].(map[string]interface{})["outcome"])

	resp, _ = a.do(t, jsonRequest(http.MethodGet, "/api/chat/v1/sessions", "", ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	user := bearer(t, "user")
	resp, body = a.do(t, jsonRequest(http.MethodPost, "/api/chat/v1/sessions", "", user))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "New Chat", body["data"].(map[string]interface{})["title"])

	resp, _ = a.do(t, jsonRequest(http.MethodGet, "/api/chat/v1/sessions/"+uuid.NewString()+"/messages", "", user))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = a.do(t, jsonRequest(http.MethodGet, "/api/chat/v1/sessions/not-a-uuid/messages", "", user))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFileRoutes(t *testing.T) {
	a := newTestApp(t)
	admin := bearer(t, serverutils.RoleAdmin)
	ctx := context.Background()

	resp, _ := a.do(t, uploadRequest(t, "/api/admin/v1/knowledge/pdfs", admin, "persona.pdf", []byte("%PDF-1.4 persona"), ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, a.uow.NewUnitOfWork(ctx).PdfFileRepository().Create(ctx, &entity.PdfFile{
		Filename: "Post",
		FilePath: "https://example.com/post",
		Metadata: map[string]interface{}{"scraped": true},
	}))

	token, err := a.signer.Sign("persona.pdf")
	require.NoError(t, err)
	raw, err := a.app.Test(httptest.NewRequest(http.MethodGet, "/api/files/v1/download?token="+token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, raw.StatusCode)
	data, _ := io.ReadAll(raw.Body)
	assert.Equal(t, "%PDF-1.4 persona", string(data))

	token, err = a.signer.Sign("Post")
	require.NoError(t, err)
	raw, err = a.app.Test(httptest.NewRequest(http.MethodGet, "/api/files/v1/download?token="+token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, raw.StatusCode)
	assert.Equal(t, "https://example.com/post", raw.Header.Get("Location"))

	resp, _ = a.do(t, httptest.NewRequest(http.MethodGet, "/api/files/v1/download?token=bogus", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err = a.signer.Sign("ghost.pdf")
	require.NoError(t, err)
	resp, _ = a.do(t, httptest.NewRequest(http.MethodGet, "/api/files/v1/download?token="+token, nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body := a.do(t, httptest.NewRequest(http.MethodGet, "/api/files/v1/persona.pdf/link", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]interface{})["available"])
}

func TestLogRoutes(t *testing.T) {
	a := newTestApp(t)
	resp, body := a.do(t, jsonRequest(http.MethodGet, "/api/admin/v1/logs?level=ERROR", "", bearer(t, serverutils.RoleAdmin)))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])
}
