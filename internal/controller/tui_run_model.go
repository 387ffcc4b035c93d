package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/stubweave/internal/model"
)

// fileRowDelegate renders processed files in the results list.
type fileRowDelegate struct {
	offset int
}

func (d fileRowDelegate) Height() int  { return 1 }
func (d fileRowDelegate) Spacing() int { return 0 }
func (d fileRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d fileRowDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	row, ok := item.(fileRow)
	if !ok {
		return
	}

	isSelected := index == lm.Index()
	pathWidth := lm.Width() - 30 // Reserve space for Status, Stubs, Missing columns

	statusStyle, countStyle, pathStyle, displayPath := d.stylesAndPath(row, isSelected, pathWidth)

	line := fmt.Sprintf("%s  %s  %s  %s",
		statusStyle.Render(fmt.Sprintf("%-8s", row.status)),
		countStyle.Render(fmt.Sprintf("%6d", row.inserted)),
		countStyle.Render(fmt.Sprintf("%7d", row.missing)),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

func (d fileRowDelegate) stylesAndPath(row fileRow, isSelected bool, pathWidth int) (lipgloss.Style, lipgloss.Style, lipgloss.Style, string) {
	if isSelected {
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)

		return selected.Width(10).Align(lipgloss.Left),
			selected.Width(8).Align(lipgloss.Right),
			selected,
			animateScroll(row.path, pathWidth, d.offset)
	}

	statusColorMap := map[string]lipgloss.Color{
		"updated": lipgloss.Color("2"), // Green
		"skipped": lipgloss.Color("8"), // Gray
		"failed":  lipgloss.Color("1"), // Red
	}

	statusColor, ok := statusColorMap[row.status]
	if !ok {
		statusColor = lipgloss.Color("8")
	}

	return lipgloss.NewStyle().
			Foreground(statusColor).
			Bold(true).
			Width(10).
			Align(lipgloss.Left),
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Width(8).
			Align(lipgloss.Right),
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")),
		truncateToWidth(row.path, pathWidth)
}

// runModel handles the TUI display during a directory run.
type runModel struct {
	width           int
	height          int
	progressBar     progress.Model
	root            string
	totalFiles      int
	completedCount  int
	progressPercent float64
	activeFiles     map[int]string // index in walk order -> path still processing
	rows            []fileRow
	resultsList     list.Model
	delegate        fileRowDelegate
	stats           *m.Stats
	rendered        bool
	finished        bool
	animOffset      int
	lastSelected    int
}

func newRunModel() runModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	delegate := fileRowDelegate{}
	resultsList := list.New([]list.Item{}, delegate, 80, 20)
	resultsList.SetShowPagination(false)
	resultsList.SetShowFilter(true)
	resultsList.SetShowHelp(false)
	resultsList.SetShowTitle(false)
	resultsList.SetShowStatusBar(false)
	resultsList.FilterInput.Placeholder = "Filter results…"

	return runModel{
		progressBar:  prog,
		resultsList:  resultsList,
		delegate:     delegate,
		activeFiles:  make(map[int]string),
		lastSelected: -1,
	}
}

func (rm runModel) Init() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm = rm.handleWindowSize(msg)

	case tea.KeyMsg:
		rm, cmd = rm.handleKeyMsg(msg)

	case tickMsg:
		return rm.handleTickMsg(msg)

	case runStartedMsg:
		rm.root = msg.root
		rm.totalFiles = msg.total
		rm.completedCount = 0
		rm.progressPercent = 0
		rm.rendered = true

	case fileStartedMsg:
		rm.activeFiles[msg.index] = msg.path
		rm.rendered = true

	case fileFinishedMsg:
		rm = rm.handleFileFinished(msg)

	case runFinishedMsg:
		rm.stats = msg.stats
		rm.finished = true
	}

	return rm, cmd
}

func (rm runModel) handleFileFinished(msg fileFinishedMsg) runModel {
	delete(rm.activeFiles, msg.index)
	rm.completedCount++

	rm.rows = append(rm.rows, fileRow{
		path:     msg.path,
		status:   msg.status,
		inserted: msg.inserted,
		missing:  msg.missing,
	})

	items := make([]list.Item, 0, len(rm.rows))
	for _, row := range rm.rows {
		items = append(items, row)
	}

	rm.resultsList.SetItems(items)

	if rm.totalFiles > 0 {
		rm.progressPercent = float64(rm.completedCount) / float64(rm.totalFiles)
	}

	return rm
}

func (rm runModel) handleKeyMsg(msg tea.KeyMsg) (runModel, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return rm, tea.Quit
	default:
		if !rm.finished {
			return rm, nil
		}

		var (
			newList list.Model
			cmd     tea.Cmd
		)

		newList, cmd = rm.resultsList.Update(msg)
		rm.resultsList = newList

		// Detect selection change to reset animation
		if rm.resultsList.Index() != rm.lastSelected {
			rm.lastSelected = rm.resultsList.Index()
			rm.animOffset = 0
			rm.delegate.offset = 0
			rm.resultsList.SetDelegate(rm.delegate)
		}

		return rm, cmd
	}
}

func (rm runModel) handleWindowSize(msg tea.WindowSizeMsg) runModel {
	rm.width = msg.Width
	rm.height = msg.Height

	rm.progressBar.Width = rm.width - 8
	if rm.progressBar.Width < 20 {
		rm.progressBar.Width = 20
	}

	return rm
}

func (rm runModel) handleTickMsg(_ tickMsg) (runModel, tea.Cmd) {
	if rm.finished && rm.resultsList.FilterState() != list.Filtering {
		rm.animOffset++
		rm.delegate.offset = rm.animOffset
		rm.resultsList.SetDelegate(rm.delegate)
	}

	return rm, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (rm runModel) View() string {
	if !rm.rendered {
		return "Preparing stub insertion…\n"
	}

	if rm.finished {
		return rm.viewResults()
	}

	return rm.viewProgress()
}

func (rm runModel) viewProgress() string {
	accentColor := lipgloss.Color("6") // Cyan

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render("🧵 Stubweave Insertion")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  •  Root: %s",
		accentStyle.Render(fmt.Sprintf("%d", rm.completedCount)),
		accentStyle.Render(fmt.Sprintf("%d", rm.totalFiles)),
		accentStyle.Render(rm.root),
	))

	progressStyle := lipgloss.NewStyle().
		Padding(0, 2)

	progressView := progressStyle.Render(rm.progressBar.ViewAs(rm.progressPercent))

	activeBox := rm.renderActiveBox(accentColor)

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(rm.width)

	footer := footerStyle.Render("Press q to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		progressView,
		activeBox,
		footer,
	)
}

func (rm runModel) renderActiveBox(accentColor lipgloss.Color) string {
	contentStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 1, 1, 0).
		Width(rm.width - 4)

	fileStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	availableWidth := rm.width - 4 - 2 - 2

	if len(rm.activeFiles) == 0 {
		return contentStyle.Render("idle")
	}

	// Walk-order indexes keep the box stable between refreshes.
	indexes := make([]int, 0, len(rm.activeFiles))
	for index := range rm.activeFiles {
		indexes = append(indexes, index)
	}

	for i := 0; i < len(indexes); i++ {
		for j := i + 1; j < len(indexes); j++ {
			if indexes[i] > indexes[j] {
				indexes[i], indexes[j] = indexes[j], indexes[i]
			}
		}
	}

	lines := make([]string, 0, len(indexes))
	for _, index := range indexes {
		lines = append(lines, fileStyle.Render(truncateToWidth(rm.activeFiles[index], availableWidth)))
	}

	return contentStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (rm runModel) viewResults() string {
	accentColor := lipgloss.Color("6") // Cyan

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render("🧵 Stubweave Results")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Scanned: %s  •  Updated: %s  •  Stubs: %s  •  Failed: %s  •  Missing anchors: %s",
		accentStyle.Render(fmt.Sprintf("%d", rm.stats.ScannedFiles)),
		accentStyle.Render(fmt.Sprintf("%d", rm.stats.UpdatedFiles)),
		accentStyle.Render(fmt.Sprintf("%d", rm.stats.InsertedStubs)),
		accentStyle.Render(fmt.Sprintf("%d", rm.stats.FailedFiles)),
		accentStyle.Render(fmt.Sprintf("%d", len(rm.stats.Missing))),
	))

	resultsBox := rm.renderResultsBox(accentColor)

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(rm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		resultsBox,
		footer,
	)
}

func (rm runModel) renderResultsBox(accentColor lipgloss.Color) string {
	listWidth := rm.width - 4

	listHeight := rm.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	rm.resultsList.SetHeight(listHeight)
	rm.resultsList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%-10s  %6s  %7s  %s", "Status", "Stubs", "Missing", "File"))

	resultsStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1)

	return resultsStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			rm.resultsList.View(),
		),
	)
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	textWidth := lipgloss.Width(text)
	if textWidth <= width {
		return text
	}

	// Gap between repeats
	gap := "   "

	// Initial pause before scrolling starts (in ticks)
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	effectiveStep := offset - pause

	runes := []rune(text + gap)
	n := len(runes)

	if n == 0 {
		return ""
	}

	start := effectiveStep % n

	res := make([]rune, 0, width)
	for i := range width {
		idx := (start + i) % n
		res = append(res, runes[idx])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}
