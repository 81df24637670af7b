package handlers

import (
	"net/http"
	"strings"

	"synapse-go/internal/games"
	"synapse-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type DashboardHandler struct {
	log *zap.Logger
}

func NewDashboardHandler(log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{log: log}
}

var dashboardMetrics = map[string]string{
	"accuracy":        "Accuracy (%)",
	"memory_power":    "Memory Power",
	"cognitive_score": "Cognitive Score",
	"duration":        "Session Duration (s)",
	"points":          "Points Earned",
	"switch_cost":     "Rule Switch Cost (ms)",
	"mood_score":      "Mood (1-5)",
}

var dashboardGames = map[string]bool{
	string(games.KindSequence):  true,
	string(games.KindPairs):     true,
	string(games.KindStory):     true,
	string(games.KindAttention): true,
	"mood":                      true,
}

// Summary returns the child's headline numbers for the dashboard landing
// view: recent results, totals and the screening baseline if one exists.
func (h *DashboardHandler) Summary(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	childID, ok := queryChildID(c)
	if !ok {
		return
	}
	if _, err := repository.GetChildProfile(c, userID, childID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
		return
	}

	recent, err := repository.GetRecentResults(c, childID, 10)
	if err != nil {
		h.log.Error("Failed to load recent results", zap.Error(err), zap.Uint("child_id", childID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	totalPoints, err := repository.TotalPoints(c, childID)
	if err != nil {
		h.log.Error("Failed to sum points", zap.Error(err), zap.Uint("child_id", childID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	modules, err := repository.CompletedModules(c, childID)
	if err != nil {
		h.log.Error("Failed to list completed modules", zap.Error(err), zap.Uint("child_id", childID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	baseline, err := repository.GetLatestBaseline(c, childID)
	if err != nil {
		h.log.Error("Failed to load screening baseline", zap.Error(err), zap.Uint("child_id", childID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	resp := gin.H{
		"recentResults":    recent,
		"totalPoints":      totalPoints,
		"completedModules": modules,
	}
	if baseline != nil {
		resp["baseline"] = gin.H{
			"score":    baseline.Score,
			"maxScore": baseline.MaxScore,
			"severity": baseline.Severity,
			"takenAt":  baseline.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Timeline returns ECharts options for one metric of one game over time.
func (h *DashboardHandler) Timeline(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	childID, ok := queryChildID(c)
	if !ok {
		return
	}
	if _, err := repository.GetChildProfile(c, userID, childID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
		return
	}

	gameID := c.DefaultQuery("game", string(games.KindSequence))
	metricKey := c.DefaultQuery("metric", "memory_power")
	if !dashboardGames[gameID] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game"})
		return
	}
	metricLabel, ok := dashboardMetrics[metricKey]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown metric"})
		return
	}

	data, err := repository.GetTimelineData(c, childID, gameID, metricKey)
	if err != nil {
		h.log.Error("Failed to get timeline data",
			zap.Error(err),
			zap.String("game_id", gameID),
			zap.String("metric_key", metricKey),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load timeline"})
		return
	}

	chart := generateTimelineChart(data, metricLabel)
	if c.Query("format") == "html" {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := chart.Render(c.Writer); err != nil {
			h.log.Error("Failed to render timeline chart", zap.Error(err))
		}
		return
	}
	c.JSON(http.StatusOK, chart.JSON())
}

// MoodCorrelation returns ECharts options plotting a game metric against
// same-day mood.
func (h *DashboardHandler) MoodCorrelation(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	childID, ok := queryChildID(c)
	if !ok {
		return
	}
	if _, err := repository.GetChildProfile(c, userID, childID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
		return
	}

	gameID := c.DefaultQuery("game", string(games.KindSequence))
	metricKey := c.DefaultQuery("metric", "memory_power")
	metricLabel, ok := dashboardMetrics[metricKey]
	if !ok || !dashboardGames[gameID] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game or metric"})
		return
	}

	data, err := repository.GetMoodCorrelationData(c, childID, gameID, metricKey)
	if err != nil {
		h.log.Error("Failed to get mood correlation data",
			zap.Error(err),
			zap.String("game_id", gameID),
			zap.String("metric_key", metricKey),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load correlation"})
		return
	}

	chart := generateCorrelationChart(data, metricLabel)
	if c.Query("format") == "html" {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := chart.Render(c.Writer); err != nil {
			h.log.Error("Failed to render correlation chart", zap.Error(err))
		}
		return
	}
	c.JSON(http.StatusOK, chart.JSON())
}

func generateTimelineChart(data []repository.TimelineDataPoint, metricLabel string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Progress Over Time",
			Subtitle: metricLabel,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0, len(data))
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
	}

	line.AddSeries(metricLabel, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

func generateCorrelationChart(data []repository.CorrelationDataPoint, metricLabel string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Performance vs. Mood",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: strings.ToLower(metricLabel),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "mood (1-5)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.ScatterData, 0, len(data))
	for _, point := range data {
		items = append(items, opts.ScatterData{Value: []interface{}{point.MetricValue, point.MoodScore}})
	}

	scatter.AddSeries(metricLabel, items)
	return scatter
}
