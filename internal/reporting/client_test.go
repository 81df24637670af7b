package reporting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(primary, degraded string) (*Client, *[]string) {
	c := NewClient(primary, degraded, 2*time.Second, zap.NewNop())
	var parked []string
	c.park = func(ctx context.Context, userID uint, kind string, payload json.RawMessage) error {
		parked = append(parked, kind)
		return nil
	}
	return c, &parked
}

func okServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.WriteHeader(http.StatusOK)
	}))
}

func failServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
}

func TestSendGameScoreDelivered(t *testing.T) {
	var hits int
	srv := okServer(t, &hits)
	defer srv.Close()

	c, parked := newTestClient(srv.URL, "")
	outcome := c.SendGameScore(context.Background(), 1, GameScorePayload{UserID: "1", GameID: "sequence_recall"})

	if outcome != Delivered {
		t.Errorf("outcome = %v, want Delivered", outcome)
	}
	if hits != 1 {
		t.Errorf("primary hits = %d, want 1", hits)
	}
	if len(*parked) != 0 {
		t.Errorf("parked %d payloads, want 0", len(*parked))
	}
}

func TestSendGameScoreFallsBackToDegraded(t *testing.T) {
	var primaryHits, degradedHits int
	primary := failServer(t, &primaryHits)
	defer primary.Close()
	degraded := okServer(t, &degradedHits)
	defer degraded.Close()

	c, parked := newTestClient(primary.URL, degraded.URL)
	outcome := c.SendGameScore(context.Background(), 1, GameScorePayload{UserID: "1", GameID: "matching_pairs"})

	if outcome != DeliveredDegraded {
		t.Errorf("outcome = %v, want DeliveredDegraded", outcome)
	}
	if primaryHits != 1 || degradedHits != 1 {
		t.Errorf("hits = %d/%d, want 1/1", primaryHits, degradedHits)
	}
	if len(*parked) != 0 {
		t.Errorf("parked %d payloads, want 0", len(*parked))
	}
}

func TestSendGameScoreParksAfterBothFail(t *testing.T) {
	var primaryHits, degradedHits int
	primary := failServer(t, &primaryHits)
	defer primary.Close()
	degraded := failServer(t, &degradedHits)
	defer degraded.Close()

	c, parked := newTestClient(primary.URL, degraded.URL)
	outcome := c.SendGameScore(context.Background(), 7, GameScorePayload{UserID: "7", GameID: "story_builder"})

	if outcome != SavedLocally {
		t.Errorf("outcome = %v, want SavedLocally", outcome)
	}
	if degradedHits != 1 {
		t.Errorf("degraded retried %d times, want exactly 1", degradedHits)
	}
	if len(*parked) != 1 || (*parked)[0] != "game-score" {
		t.Errorf("parked = %v, want [game-score]", *parked)
	}
}

func TestSendGameScoreParksWithoutDegradedBackend(t *testing.T) {
	var hits int
	primary := failServer(t, &hits)
	defer primary.Close()

	c, parked := newTestClient(primary.URL, "")
	outcome := c.NotifyVideoSent(context.Background(), 3, "focus_detective")

	if outcome != SavedLocally {
		t.Errorf("outcome = %v, want SavedLocally", outcome)
	}
	if len(*parked) != 1 || (*parked)[0] != "video-sent" {
		t.Errorf("parked = %v, want [video-sent]", *parked)
	}
}

func TestProcessCSVFilesSendsMultipart(t *testing.T) {
	var gotUserID string
	var gotFields []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		gotUserID = r.FormValue("user_id")
		for field := range r.MultipartForm.File {
			gotFields = append(gotFields, field)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, "")
	outcome, err := c.ProcessCSVFiles(context.Background(), CSVJob{
		UserID:       "42",
		CSVFile1:     strings.NewReader("a,b\n1,2\n"),
		CSVFile1Name: "left.csv",
		CSVFile2:     strings.NewReader("a,b\n3,4\n"),
		CSVFile2Name: "right.csv",
	})
	if err != nil {
		t.Fatalf("ProcessCSVFiles: %v", err)
	}
	if outcome != Delivered {
		t.Errorf("outcome = %v, want Delivered", outcome)
	}
	if gotUserID != "42" {
		t.Errorf("user_id = %q, want 42", gotUserID)
	}
	if len(gotFields) != 2 {
		t.Errorf("file fields = %v, want csv_file_1 and csv_file_2", gotFields)
	}
}

func TestDownloadEEGReportStreamsPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download-eeg-report/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, "")
	body, contentType, err := c.DownloadEEGReport(context.Background(), "42")
	if err != nil {
		t.Fatalf("DownloadEEGReport: %v", err)
	}
	defer body.Close()

	if contentType != "application/pdf" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := map[Outcome]string{
		Delivered:         "delivered",
		DeliveredDegraded: "delivered_degraded",
		SavedLocally:      "saved_locally",
	}
	for outcome, want := range cases {
		if got := outcome.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", outcome, got, want)
		}
	}
}
