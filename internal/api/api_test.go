package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/coverapp/internal/export"
	imagepkg "github.com/youruser/coverapp/internal/image"
	"github.com/youruser/coverapp/internal/notify"
	"github.com/youruser/coverapp/internal/profile"
	"github.com/youruser/coverapp/internal/session"
)

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

type holdScheduler struct{}

func (holdScheduler) AfterFunc(time.Duration, func()) notify.Timer { return heldTimer{} }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seed := uint64(9)
	s, err := session.New(session.Options{Seed: &seed, Scheduler: holdScheduler{}, PhotoMaxBytes: 1 << 16})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return NewRouter(NewHandler(s, nil), RouterOptions{
		CORSEnabled: true,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "coverapp_operation_errors_total 0\n")
		}),
	})
}

func do(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r http.Handler, method, path string, v any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return do(r, method, path, bytes.NewReader(b), "application/json")
}

func decodePNG(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func photoUpload(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	t.Parallel()

	w := do(newTestRouter(t), http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProfileRoundTrip(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/profile", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got profile.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "INFJ", got.Personality)

	p := profile.Default()
	p.Name = "Ada"
	p.Games = []profile.Game{{Title: "Chess", InGameID: "ada"}}
	w = doJSON(t, r, http.MethodPut, "/api/profile", p)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Ada", got.Name)

	p.Games = nil
	w = doJSON(t, r, http.MethodPut, "/api/profile", p)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid profile")

	w = do(r, http.MethodPut, "/api/profile", strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPresetAndTemplate(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/preset", gin.H{"preset": "mobile"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"mobile","width":640,"height":360}`, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/api/preset", gin.H{"preset": "tablet"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/preset", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/template", gin.H{"template": "minimal"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"template":"minimal"}`, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/api/template", gin.H{"template": "fancy"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewIsScaled(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/preview?width=410", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "0.5", w.Header().Get(headerPreviewScale))
	assert.Equal(t, "Preview scaled to 50% - Export will be full resolution", w.Header().Get(headerPreviewLabel))
	assert.Equal(t, image.Rect(0, 0, 410, 180), decodePNG(t, w.Body.Bytes()).Bounds())

	w = do(r, http.MethodGet, "/api/preview?width=wide", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportIsFullResolution(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	p := profile.Default()
	p.Name = "Ada"
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/api/profile", p).Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/preview?width=300", nil, "").Code)

	w := do(r, http.MethodPost, "/api/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "facebook-cover-Ada.png", params["filename"])
	assert.Equal(t, image.Rect(0, 0, 1640, 720), decodePNG(t, w.Body.Bytes()).Bounds())

	w = do(r, http.MethodGet, "/api/notifications", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Notifications []notify.Toast `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, notify.KindSuccess, list.Notifications[1].Kind)

	id := list.Notifications[0].ID
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/notifications/"+id, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/notifications/"+id, nil, "").Code)
}

func TestPhotoUpload(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, image.NewNRGBA(image.Rect(0, 0, 3, 3))))
	body, ct := photoUpload(t, "photo", "me.png", raw.Bytes())
	w := do(r, http.MethodPost, "/api/profile/photo", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got profile.Profile
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, "/api/profile", nil, "").Body.Bytes(), &got))
	assert.True(t, strings.HasPrefix(got.Photo, "data:image/png;base64,"))

	// A profile update without a photo keeps the uploaded one.
	got.Photo = ""
	got.Name = "Ada"
	w = doJSON(t, r, http.MethodPut, "/api/profile", got)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data:image/png;base64,")

	body, ct = photoUpload(t, "photo", "notes.txt", []byte("definitely not an image"))
	w = do(r, http.MethodPost, "/api/profile/photo", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = photoUpload(t, "photo", "big.png", make([]byte, 1<<17))
	w = do(r, http.MethodPost, "/api/profile/photo", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = photoUpload(t, "avatar", "me.png", raw.Bytes())
	w = do(r, http.MethodPost, "/api/profile/photo", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/profile/photo", nil, "").Code)
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, "/api/profile", nil, "").Body.Bytes(), &got))
	assert.Empty(t, got.Photo)
}

func TestLookups(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/templates", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"minimal"`)

	w = do(r, http.MethodGet, "/api/presets", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"width":820`)

	w = do(r, http.MethodGet, "/api/platforms", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"color":"#718096"`)
	assert.Contains(t, w.Body.String(), `"icon":"Github"`)

	w = do(r, http.MethodGet, "/api/groups/intj", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Analyst"`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/groups/ABCD", nil, "").Code)

	w = do(r, http.MethodGet, "/api/theme", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"gradient_angle":135`)
}

func TestQR(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/qr?platform=github&handle=ada&size=128", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 128, decodePNG(t, w.Body.Bytes()).Bounds().Dx())

	w = do(r, http.MethodGet, "/api/qr?platform=github", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsAndCORS(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "coverapp_operation_errors_total")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusConflict, statusFor(export.ErrExportInFlight))
	assert.Equal(t, http.StatusBadRequest, statusFor(imagepkg.ErrPhotoTooLarge))
	assert.Equal(t, http.StatusBadRequest, statusFor(session.ErrNoPhoto))
	assert.Equal(t, http.StatusInternalServerError, statusFor(&export.ExportError{Op: "rasterize", Err: imagepkg.ErrDetached}))
}
