package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/hangry/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkDinnerRush BookmarkType = "dinner_rush"
	BookmarkMeltdown   BookmarkType = "meltdown"
	BookmarkFlawless   BookmarkType = "flawless"
)

// Bookmark is an automatically detected moment worth revisiting.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches window stats for rushes, meltdowns and flawless service.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	history     []WindowStats
	historyIdx  int
	historyFull bool

	inRush bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		cfg:     cfg,
		history: make([]WindowStats, historySize),
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	if b := bd.checkRush(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkMeltdown(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFlawless(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % len(bd.history)
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkRush fires when the hungry peak jumps well above its rolling average.
// It fires once per rush and re-arms after the peak falls back.
func (bd *BookmarkDetector) checkRush(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 2 {
		return nil
	}
	var total int
	for _, h := range history {
		total += h.HungryPeak
	}
	avg := float64(total) / float64(len(history))

	rushing := stats.HungryPeak >= bd.cfg.Rush.MinHungry &&
		float64(stats.HungryPeak) > avg*bd.cfg.Rush.Multiplier
	if !rushing {
		bd.inRush = false
		return nil
	}
	if bd.inRush {
		return nil
	}
	bd.inRush = true
	return &Bookmark{
		Type:        BookmarkDinnerRush,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d hungry at once, %.1fx the rolling average (%.1f)", stats.HungryPeak, float64(stats.HungryPeak)/max(avg, 1), avg),
	}
}

func (bd *BookmarkDetector) checkMeltdown(stats WindowStats) *Bookmark {
	if stats.Hangry < bd.cfg.Meltdown.MinHangry {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkMeltdown,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d fish left hangry in one window", stats.Hangry),
	}
}

func (bd *BookmarkDetector) checkFlawless(stats WindowStats) *Bookmark {
	if stats.Meals < bd.cfg.Flawless.MinServed || stats.Hangry > 0 {
		return nil
	}
	if stats.VerdictHigh != stats.Meals {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFlawless,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d meals served, all rated high, nobody left hangry", stats.Meals),
	}
}
