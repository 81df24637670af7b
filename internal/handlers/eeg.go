package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"synapse-go/internal/config"
	"synapse-go/internal/reporting"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EEGHandler proxies EEG report processing to the analytics backend. The
// heavy lifting (signal analysis, PDF generation, WhatsApp delivery)
// happens there; this side only accepts uploads and streams results back.
type EEGHandler struct {
	log      *zap.Logger
	reporter *reporting.Client
}

func NewEEGHandler(log *zap.Logger, reporter *reporting.Client) *EEGHandler {
	return &EEGHandler{log: log, reporter: reporter}
}

const maxUploadBytes = 64 << 20

// ProcessCSV accepts the two EEG CSV exports plus an optional audio note
// and forwards them for report generation.
func (h *EEGHandler) ProcessCSV(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	csv1, err := c.FormFile("csv_file_1")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv_file_1 is required"})
		return
	}
	csv2, err := c.FormFile("csv_file_2")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv_file_2 is required"})
		return
	}

	f1, err := csv1.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read csv_file_1"})
		return
	}
	defer f1.Close()
	f2, err := csv2.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read csv_file_2"})
		return
	}
	defer f2.Close()

	job := reporting.CSVJob{
		UserID:       fmt.Sprintf("%d", userID),
		CSVFile1:     f1,
		CSVFile1Name: csv1.Filename,
		CSVFile2:     f2,
		CSVFile2Name: csv2.Filename,
	}

	if audio, err := c.FormFile("audio_file"); err == nil {
		fa, err := audio.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read audio_file"})
			return
		}
		defer fa.Close()
		job.AudioFile = fa
		job.AudioFileName = audio.Filename
	}

	outcome, err := h.reporter.ProcessCSVFiles(c, job)
	if err != nil {
		h.log.Error("EEG processing submission failed", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "processing backend unavailable"})
		return
	}

	h.log.Info("EEG files submitted for processing",
		zap.Uint("user_id", userID),
		zap.String("outcome", outcome.String()),
	)
	c.JSON(http.StatusAccepted, gin.H{"status": "processing"})
}

// DownloadReport streams the generated EEG PDF back to the caller.
func (h *EEGHandler) DownloadReport(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	body, contentType, err := h.reporter.DownloadEEGReport(c, fmt.Sprintf("%d", userID))
	if err != nil {
		h.log.Warn("EEG report not available", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusNotFound, gin.H{"error": "report not available yet"})
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=eeg-report-%d.pdf", userID))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.log.Error("Failed to stream EEG report", zap.Error(err), zap.Uint("user_id", userID))
	}
}

type whatsappRequest struct {
	WithUpload bool `json:"withUpload"`
}

// SendWhatsApp asks the backend to push the latest report over WhatsApp.
func (h *EEGHandler) SendWhatsApp(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req whatsappRequest
	// Body is optional; an empty one means plain send.
	_ = c.ShouldBindJSON(&req)

	if err := h.reporter.TriggerWhatsAppSend(c, fmt.Sprintf("%d", userID), req.WithUpload); err != nil {
		h.log.Error("WhatsApp send failed", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "delivery backend unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// UploadVideo forwards a captured session recording and, when the upload
// lands, notifies the backend that footage exists for this user.
func (h *EEGHandler) UploadVideo(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	gameID := c.PostForm("game_id")
	video, err := c.FormFile("video_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_file is required"})
		return
	}
	f, err := video.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read video_file"})
		return
	}
	defer f.Close()

	outcome, err := h.reporter.UploadVideo(c, userID, gameID, video.Filename, f)
	if err != nil {
		// Recording delivery never gates gameplay: park the file on disk
		// so nothing is lost, and report the degraded path to the client.
		if saveErr := h.saveVideoLocally(userID, video.Filename, c); saveErr != nil {
			h.log.Error("Video upload failed and local save failed",
				zap.Error(err),
				zap.NamedError("save_error", saveErr),
				zap.Uint("user_id", userID),
			)
			c.JSON(http.StatusBadGateway, gin.H{"error": "upload backend unavailable"})
			return
		}
		h.log.Warn("Video upload failed, saved locally", zap.Error(err), zap.Uint("user_id", userID))
		c.JSON(http.StatusOK, gin.H{"status": reporting.SavedLocally.String()})
		return
	}

	notify := h.reporter.NotifyVideoSent(c, userID, gameID)
	h.log.Info("Session video uploaded",
		zap.Uint("user_id", userID),
		zap.String("upload_outcome", outcome.String()),
		zap.String("notify_outcome", notify.String()),
	)
	c.JSON(http.StatusOK, gin.H{"status": outcome.String()})
}

// saveVideoLocally parks an undeliverable recording under the data dir.
func (h *EEGHandler) saveVideoLocally(userID uint, filename string, c *gin.Context) error {
	dir := filepath.Join(config.Conf.Server.DataDir, "videos", fmt.Sprintf("%d", userID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	video, err := c.FormFile("video_file")
	if err != nil {
		return err
	}
	src, err := video.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filepath.Base(filename)))
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}
