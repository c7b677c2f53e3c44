package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"dealer-admin-backend/internal/document"
	"dealer-admin-backend/internal/embed"
	"dealer-admin-backend/internal/export"
	"dealer-admin-backend/internal/handlers"
	"dealer-admin-backend/internal/models"
	"dealer-admin-backend/internal/render"
	"dealer-admin-backend/internal/session"
)

func newTestRouter() *gin.Engine {
	return newRouterWithStore(session.NewStore(nil, time.Hour))
}

func newRouterWithStore(store *session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)

	builder := document.NewBuilder(document.CompanyFacts{Name: "Prestige Dealer Exchange"})
	coordinator := export.NewCoordinator(render.NewPDFRenderer(), nil, nil, nil)

	sessions := handlers.NewSessionsHandler(store)
	signatures := handlers.NewSignaturesHandler(store)
	exports := handlers.NewExportHandler(store, builder, coordinator)

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/invoice-sessions", sessions.CreateSession)
	api.GET("/invoice-sessions/:session_id", sessions.GetSession)
	api.DELETE("/invoice-sessions/:session_id", sessions.DeleteSession)
	api.POST("/invoice-sessions/:session_id/signatures/:surface/strokes", signatures.Stroke)
	api.POST("/invoice-sessions/:session_id/signatures/:surface/clear", signatures.Clear)
	api.POST("/invoice-sessions/:session_id/export", exports.Export)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router *gin.Engine, body models.CreateSessionRequest) models.SessionResponse {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/v1/invoice-sessions", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.SessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateSession(t *testing.T) {
	router := newTestRouter()

	resp := createSession(t, router, models.CreateSessionRequest{
		Product: &document.ProductFacts{Brand: "Omega", Model: "Speedmaster"},
	})

	assert.NotEmpty(t, resp.SessionID)
	assert.Regexp(t, `^INV-\d{8}-\d{3}$`, resp.InvoiceNumber)
	assert.True(t, resp.HasProduct)
	assert.True(t, resp.ProductImage.Resolved)
	assert.False(t, resp.ProductImage.Embedded)
	assert.Contains(t, resp.Signatures, "admin")
	assert.Contains(t, resp.Signatures, "organizer")
	assert.False(t, resp.Signatures["admin"].Present)
}

func TestGetSession(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{})

	w := doJSON(t, router, "GET", "/api/v1/invoice-sessions/"+created.SessionID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.InvoiceNumber, resp.InvoiceNumber, "invoice number never changes for an open session")
	assert.False(t, resp.HasProduct)
}

func TestGetSession_NotFound(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, "GET", "/api/v1/invoice-sessions/6fa2c1ce-2b0c-4f6e-9f2d-6f1f53bb2a4e", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSession_InvalidID(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, "GET", "/api/v1/invoice-sessions/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSession(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{})

	w := doJSON(t, router, "DELETE", "/api/v1/invoice-sessions/"+created.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/invoice-sessions/"+created.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func strokeBody(typ string, x, y float64) models.StrokeRequest {
	return models.StrokeRequest{Type: typ, X: x, Y: y, DisplayWidth: 600, DisplayHeight: 200}
}

func TestStroke_DrawAndCapture(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{})
	base := "/api/v1/invoice-sessions/" + created.SessionID + "/signatures/admin"

	for _, body := range []models.StrokeRequest{
		strokeBody("mousedown", 40, 60),
		strokeBody("mousemove", 150, 90),
		strokeBody("mouseup", 150, 90),
	} {
		w := doJSON(t, router, "POST", base+"/strokes", body)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.StrokeResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Accepted)
	}

	w := doJSON(t, router, "GET", "/api/v1/invoice-sessions/"+created.SessionID, nil)
	var resp models.SessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Signatures["admin"].Present)
	assert.False(t, resp.Signatures["organizer"].Present)
}

func TestStroke_InactiveSurfaceIgnored(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{})
	base := "/api/v1/invoice-sessions/" + created.SessionID + "/signatures/"

	w := doJSON(t, router, "POST", base+"admin/strokes", strokeBody("touchstart", 40, 60))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", base+"organizer/strokes", strokeBody("touchmove", 80, 60))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.StrokeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)
	assert.Equal(t, "admin", resp.ActiveSurface)
}

func TestStroke_UnknownSurface(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{})

	w := doJSON(t, router, "POST", "/api/v1/invoice-sessions/"+created.SessionID+"/signatures/witness/strokes", strokeBody("down", 40, 60))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStroke_UnknownEventType(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{})

	w := doJSON(t, router, "POST", "/api/v1/invoice-sessions/"+created.SessionID+"/signatures/admin/strokes", strokeBody("wheel", 40, 60))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearSignature(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{})
	base := "/api/v1/invoice-sessions/" + created.SessionID + "/signatures/admin"

	doJSON(t, router, "POST", base+"/strokes", strokeBody("down", 40, 60))
	doJSON(t, router, "POST", base+"/strokes", strokeBody("up", 40, 60))

	w := doJSON(t, router, "POST", base+"/clear", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Signatures["admin"].Present)
}

func TestExport_Print(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{
		Product: &document.ProductFacts{Brand: "Omega", Model: "Speedmaster"},
	})

	w := doJSON(t, router, "POST", "/api/v1/invoice-sessions/"+created.SessionID+"/export", models.ExportRequest{Mode: "print"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Invoice-"+created.InvoiceNumber+".pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestExport_Download(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{
		Product: &document.ProductFacts{Brand: "Omega", Model: "Speedmaster"},
	})

	w := doJSON(t, router, "POST", "/api/v1/invoice-sessions/"+created.SessionID+"/export", models.ExportRequest{Mode: "download"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestExport_DoesNotWaitForImage(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := session.NewStore(embed.NewEmbedder(5*time.Second), time.Hour)
	router := newRouterWithStore(store)

	created := createSession(t, router, models.CreateSessionRequest{
		Product:         &document.ProductFacts{Brand: "Omega", Model: "Speedmaster"},
		ProductImageURL: server.URL + "/watch.jpg",
	})
	assert.False(t, created.ProductImage.Resolved)

	base := "/api/v1/invoice-sessions/" + created.SessionID + "/signatures/admin"
	doJSON(t, router, "POST", base+"/strokes", strokeBody("down", 40, 60))
	doJSON(t, router, "POST", base+"/strokes", strokeBody("up", 40, 60))

	// Export while the image fetch is still held open. It must render the
	// placeholder immediately instead of waiting on the in-flight embed.
	exported := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		exported <- doJSON(t, router, "POST", "/api/v1/invoice-sessions/"+created.SessionID+"/export", models.ExportRequest{Mode: "download"})
	}()

	var w *httptest.ResponseRecorder
	select {
	case w = <-exported:
	case <-time.After(2 * time.Second):
		close(release)
		t.Fatal("export blocked on the in-flight image")
	}

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF", w.Body.String()[:4])

	close(release)

	assert.Eventually(t, func() bool {
		w := doJSON(t, router, "GET", "/api/v1/invoice-sessions/"+created.SessionID, nil)
		var resp models.SessionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			return false
		}
		return resp.ProductImage.Resolved
	}, 2*time.Second, 10*time.Millisecond, "image state never became terminal")

	w = doJSON(t, router, "GET", "/api/v1/invoice-sessions/"+created.SessionID, nil)
	var resp models.SessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.ProductImage.Embedded, "failed fetch resolves to the empty image")
	assert.True(t, resp.Signatures["admin"].Present)
	assert.False(t, resp.Signatures["organizer"].Present)
}

func TestExport_NoProduct(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{})

	w := doJSON(t, router, "POST", "/api/v1/invoice-sessions/"+created.SessionID+"/export", models.ExportRequest{Mode: "print"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.EmptyState)
}

func TestExport_UnknownMode(t *testing.T) {
	router := newTestRouter()
	created := createSession(t, router, models.CreateSessionRequest{
		Product: &document.ProductFacts{Brand: "Omega"},
	})

	w := doJSON(t, router, "POST", "/api/v1/invoice-sessions/"+created.SessionID+"/export", models.ExportRequest{Mode: "email"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
