package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/coverapp/internal/export"
	imagepkg "github.com/youruser/coverapp/internal/image"
	"github.com/youruser/coverapp/internal/layout"
	"github.com/youruser/coverapp/internal/profile"
	"github.com/youruser/coverapp/internal/session"
	"github.com/youruser/coverapp/internal/social"
	"github.com/youruser/coverapp/internal/theme"
	"github.com/youruser/coverapp/internal/util"
)

const (
	headerPreviewScale = "X-Preview-Scale"
	headerPreviewLabel = "X-Preview-Label"
	photoField         = "photo"
)

type Handler struct {
	session *session.Session
	logger  *zap.Logger
}

func NewHandler(s *session.Session, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{session: s, logger: logger}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, export.ErrExportInFlight):
		return http.StatusConflict
	case errors.Is(err, profile.ErrInvalidProfile),
		errors.Is(err, profile.ErrMalformedDataURI),
		errors.Is(err, imagepkg.ErrPhotoTooLarge),
		errors.Is(err, imagepkg.ErrUnsupportedPhoto),
		errors.Is(err, imagepkg.ErrEmptyHandle),
		errors.Is(err, session.ErrNoPhoto),
		errors.Is(err, session.ErrUnknownPreset),
		errors.Is(err, session.ErrUnknownTemplate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Profile())
}

// putProfile replaces the profile. An empty photo keeps the current one;
// photos are managed through the photo endpoints.
func (h *Handler) putProfile(c *gin.Context) {
	var p profile.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.Photo == "" {
		p.Photo = h.session.Profile().Photo
	}
	if err := h.session.SetProfile(p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Profile())
}

func (h *Handler) uploadPhoto(c *gin.Context) {
	fh, err := c.FormFile(photoField)
	if err != nil {
		h.fail(c, session.ErrNoPhoto)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	if err := h.session.LoadPhoto(c.Request.Context(), f); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photo": true})
}

func (h *Handler) deletePhoto(c *gin.Context) {
	h.session.ClearPhoto()
	c.Status(http.StatusNoContent)
}

func (h *Handler) putPreset(c *gin.Context) {
	var req struct {
		Preset string `json:"preset" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.session.SetPreset(req.Preset); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Preset())
}

func (h *Handler) putTemplate(c *gin.Context) {
	var req struct {
		Template string `json:"template" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.session.SetTemplate(req.Template); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": h.session.Template()})
}

func (h *Handler) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Theme())
}

func (h *Handler) preview(c *gin.Context) {
	width := 0.0
	if v := c.Query("width"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a number"})
			return
		}
		width = w
	}
	pv, err := h.session.Preview(c.Request.Context(), width)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Header(headerPreviewScale, strconv.FormatFloat(pv.Scale, 'f', -1, 64))
	c.Header(headerPreviewLabel, pv.Label())
	c.Data(http.StatusOK, "image/png", pv.PNG)
}

func (h *Handler) exportCover(c *gin.Context) {
	art, err := h.session.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", util.AttachmentDisposition(art.Filename))
	c.Data(http.StatusOK, "image/png", art.PNG)
}

func (h *Handler) listNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.session.Notifications()})
}

func (h *Handler) dismissNotification(c *gin.Context) {
	if !h.session.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": layout.Templates()})
}

func listPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": layout.Targets()})
}

func listPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"platforms": social.Platforms()})
}

func getGroup(c *gin.Context) {
	code := c.Param("code")
	g, ok := theme.GroupOf(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown personality code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": g, "scheme": theme.SchemeOf(code)})
}

// qrHandler returns a PNG QR code linking to a social profile.
func (h *Handler) qrHandler(c *gin.Context) {
	size := imagepkg.DefaultQRSize
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}
	b, err := imagepkg.SocialQR(c.Query("platform"), c.Query("handle"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
