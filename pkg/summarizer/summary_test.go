package summarizer

import (
	"testing"
	"time"

	"github.com/user/pagecast/pkg/pipeline"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithPage(t *testing.T) {
	summary := NewBuilder().
		WithPage("Test Title", "https://example.com").
		Build()

	if summary.Page.Title != "Test Title" {
		t.Errorf("expected title 'Test Title', got '%s'", summary.Page.Title)
	}
	if summary.Page.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got '%s'", summary.Page.URL)
	}
}

func TestBuilder_WithSession(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stats := pipeline.SessionStats{
		SessionID:      "abc",
		FPS:            25,
		StartedAt:      start,
		StoppedAt:      start.Add(10 * time.Second),
		FramesCaptured: 230,
		Flushes:        45,
		EncoderFrames:  250,
	}

	summary := NewBuilder().WithSession(stats, pipeline.StopDuration).Build()

	s := summary.Session
	if s.ID != "abc" || s.Reason != pipeline.StopDuration {
		t.Errorf("unexpected session identity %+v", s)
	}
	if s.ElapsedSeconds != 10 {
		t.Errorf("expected 10s elapsed, got %v", s.ElapsedSeconds)
	}
	if s.VideoSeconds != 10 {
		t.Errorf("expected 10s of video, got %v", s.VideoSeconds)
	}
	if s.FramesCaptured != 230 || s.Flushes != 45 || s.EncoderFrames != 250 {
		t.Errorf("unexpected counters %+v", s)
	}
}

func TestBuilder_WithSettingsAndVideo(t *testing.T) {
	settings := Settings{Preset: "mobile", FPS: 30, CPUThrottling: 4}
	video := VideoInfo{Path: "out.mp4", Probed: true, FrameCount: 300}

	summary := NewBuilder().WithSettings(settings).WithVideo(video).Build()

	if summary.Settings != settings {
		t.Errorf("expected %+v, got %+v", settings, summary.Settings)
	}
	if summary.Video != video {
		t.Errorf("expected %+v, got %+v", video, summary.Video)
	}
}
