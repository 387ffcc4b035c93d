package controller

import (
	"time"

	m "github.com/mouse-blink/stubweave/internal/model"
)

type tickMsg time.Time

// Message types.
type runStartedMsg struct {
	root  string
	total int
}

type fileStartedMsg struct {
	path  string
	index int
}

type fileFinishedMsg struct {
	path     string
	output   string
	inserted int
	missing  int
	status   string
	index    int
}

type runFinishedMsg struct {
	stats *m.Stats
}

// List item types.
type fileRow struct {
	path     string
	status   string
	inserted int
	missing  int
}

func (f fileRow) FilterValue() string {
	return f.path + " " + f.status
}

type estimateRow struct {
	path    string
	stubs   int
	missing int
}

func (e estimateRow) FilterValue() string {
	return e.path
}
