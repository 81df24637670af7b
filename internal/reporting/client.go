package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"synapse-go/internal/repository"

	"go.uber.org/zap"
)

// Outcome says what happened to one payload sent toward the analytics
// backend.
type Outcome int

const (
	// Delivered means the primary backend accepted the payload.
	Delivered Outcome = iota
	// DeliveredDegraded means the primary failed but the degraded
	// backend accepted it.
	DeliveredDegraded
	// SavedLocally means both backends refused and the payload was
	// parked in pending_reports instead of being dropped.
	SavedLocally
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case DeliveredDegraded:
		return "delivered_degraded"
	default:
		return "saved_locally"
	}
}

// Client talks to the external analytics backend. Every send tries the
// primary base URL, falls back once to the degraded base URL, and on a
// second failure persists the payload locally. Sends never surface an
// error to game flow; the Outcome tells the caller which path was taken.
type Client struct {
	baseURL         string
	degradedBaseURL string
	http            *http.Client
	log             *zap.Logger
	park            func(ctx context.Context, userID uint, kind string, payload json.RawMessage) error
}

func NewClient(baseURL, degradedBaseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:         baseURL,
		degradedBaseURL: degradedBaseURL,
		http:            &http.Client{Timeout: timeout},
		log:             log,
		park:            repository.SavePendingReport,
	}
}

// GameScorePayload mirrors the backend's game-score contract.
type GameScorePayload struct {
	UserID         string  `json:"user_id"`
	GameID         string  `json:"game_id"`
	Score          float64 `json:"score"`
	Accuracy       float64 `json:"accuracy"`
	MemoryPower    float64 `json:"memory_power"`
	CognitiveScore float64 `json:"cognitive_score"`
	DurationSecs   float64 `json:"duration_seconds"`
	Timestamp      string  `json:"timestamp"`
}

// SendGameScore pushes one finished game summary to the backend.
func (c *Client) SendGameScore(ctx context.Context, userID uint, p GameScorePayload) Outcome {
	body, err := json.Marshal(p)
	if err != nil {
		c.log.Error("Failed to encode game score payload", zap.Error(err))
		return SavedLocally
	}
	return c.sendJSON(ctx, userID, "game-score", "/game-score", body)
}

// NotifyVideoSent tells the backend a session recording was captured
// for a user.
func (c *Client) NotifyVideoSent(ctx context.Context, userID uint, gameID string) Outcome {
	body, _ := json.Marshal(map[string]string{
		"user_id": fmt.Sprintf("%d", userID),
		"game_id": gameID,
	})
	return c.sendJSON(ctx, userID, "video-sent", "/video-sent", body)
}

// sendJSON posts a JSON body to path on the primary backend, retries the
// degraded backend once, then parks the payload.
func (c *Client) sendJSON(ctx context.Context, userID uint, kind, path string, body []byte) Outcome {
	if err := c.postJSON(ctx, c.baseURL+path, body); err == nil {
		return Delivered
	} else {
		c.log.Warn("Primary backend rejected payload, retrying degraded",
			zap.String("kind", kind),
			zap.Error(err),
		)
	}

	if c.degradedBaseURL != "" {
		if err := c.postJSON(ctx, c.degradedBaseURL+path, body); err == nil {
			return DeliveredDegraded
		} else {
			c.log.Warn("Degraded backend rejected payload",
				zap.String("kind", kind),
				zap.Error(err),
			)
		}
	}

	if err := c.park(ctx, userID, kind, body); err != nil {
		c.log.Error("Failed to park undeliverable payload",
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
	return SavedLocally
}

func (c *Client) postJSON(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return nil
}

// UploadVideo forwards a captured session recording as multipart form
// data. Video bytes are not parked locally on failure; only the
// video-sent notification is, so the outcome reflects the upload alone.
func (c *Client) UploadVideo(ctx context.Context, userID uint, gameID, filename string, video io.Reader) (Outcome, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("user_id", fmt.Sprintf("%d", userID)); err != nil {
		return SavedLocally, err
	}
	if err := w.WriteField("game_id", gameID); err != nil {
		return SavedLocally, err
	}
	part, err := w.CreateFormFile("video_file", filename)
	if err != nil {
		return SavedLocally, err
	}
	if _, err := io.Copy(part, video); err != nil {
		return SavedLocally, err
	}
	if err := w.Close(); err != nil {
		return SavedLocally, err
	}

	send := func(base string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/upload-video", bytes.NewReader(buf.Bytes()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("backend returned status %d", resp.StatusCode)
		}
		return nil
	}

	if err := send(c.baseURL); err == nil {
		return Delivered, nil
	} else if c.degradedBaseURL != "" {
		c.log.Warn("Primary backend refused video upload, retrying degraded", zap.Error(err))
		if err := send(c.degradedBaseURL); err == nil {
			return DeliveredDegraded, nil
		}
	}
	return SavedLocally, fmt.Errorf("video upload failed on all backends")
}

// CSVJob bundles the EEG processing inputs forwarded to the backend.
type CSVJob struct {
	UserID        string
	CSVFile1      io.Reader
	CSVFile1Name  string
	CSVFile2      io.Reader
	CSVFile2Name  string
	AudioFile     io.Reader // optional
	AudioFileName string
}

// ProcessCSVFiles forwards two EEG CSV exports (plus an optional audio
// note) for report generation. The backend responds asynchronously; a
// 2xx only means the job was accepted.
func (c *Client) ProcessCSVFiles(ctx context.Context, job CSVJob) (Outcome, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("user_id", job.UserID); err != nil {
		return SavedLocally, err
	}
	files := []struct {
		field, name string
		r           io.Reader
	}{
		{"csv_file_1", job.CSVFile1Name, job.CSVFile1},
		{"csv_file_2", job.CSVFile2Name, job.CSVFile2},
	}
	if job.AudioFile != nil {
		files = append(files, struct {
			field, name string
			r           io.Reader
		}{"audio_file", job.AudioFileName, job.AudioFile})
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			return SavedLocally, err
		}
		if _, err := io.Copy(part, f.r); err != nil {
			return SavedLocally, err
		}
	}
	if err := w.Close(); err != nil {
		return SavedLocally, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process-csv-files", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return SavedLocally, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return SavedLocally, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SavedLocally, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return Delivered, nil
}

// DownloadEEGReport streams the generated PDF for a user. The caller
// owns the returned body and must close it.
func (c *Client) DownloadEEGReport(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	url := fmt.Sprintf("%s/download-eeg-report/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return resp.Body, contentType, nil
}

// TriggerWhatsAppSend asks the backend to push the latest report over
// WhatsApp. Two backend routes exist for historical reasons; withUpload
// picks the one that re-uploads before sending.
func (c *Client) TriggerWhatsAppSend(ctx context.Context, userID string, withUpload bool) error {
	path := "/whatsapp-eeg-send"
	if withUpload {
		path = "/upload-and-send-whatsapp"
	}
	url := fmt.Sprintf("%s%s?user_id=%s", c.baseURL, path, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return nil
}
