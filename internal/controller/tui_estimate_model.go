package controller

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mouse-blink/stubweave/internal/domain"
)

// estimateDelegate renders one file per line with its stub count.
type estimateDelegate struct {
	offset int
}

func (d estimateDelegate) Height() int  { return 1 }
func (d estimateDelegate) Spacing() int { return 0 }
func (d estimateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d estimateDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	row, ok := item.(estimateRow)
	if !ok {
		return
	}

	isSelected := index == lm.Index()

	var countStyle, pathStyle lipgloss.Style

	var displayPath string

	width := lm.Width() - 18 // Subtract count columns + spacing

	if isSelected {
		countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true).
			Width(7).
			Align(lipgloss.Right)
		pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)

		displayPath = animateScroll(row.path, width, d.offset)
	} else {
		countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(7).
			Align(lipgloss.Right)
		pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

		displayPath = truncateToWidth(row.path, width)
	}

	missingStyle := countStyle
	if !isSelected && row.missing > 0 {
		missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true).
			Width(7).
			Align(lipgloss.Right)
	}

	line := fmt.Sprintf("%s  %s  %s",
		countStyle.Render(fmt.Sprintf("%d", row.stubs)),
		missingStyle.Render(fmt.Sprintf("%d", row.missing)),
		pathStyle.Render(displayPath),
	)
	_, _ = fmt.Fprint(w, line)
}

// estimateModel lists per-file stub counts without writing anything.
type estimateModel struct {
	width        int
	height       int
	fileList     list.Model
	delegate     estimateDelegate
	totalStubs   int
	totalMissing int
	totalFiles   int
	rendered     bool
	animOffset   int
	lastSelected int
}

func newEstimateModel(estimates []domain.FileEstimate) estimateModel {
	delegate := estimateDelegate{}
	fileList := list.New([]list.Item{}, delegate, 80, 20)
	fileList.SetShowPagination(false)
	fileList.SetShowFilter(true)
	fileList.SetShowHelp(false)
	fileList.SetShowTitle(false)
	fileList.SetShowStatusBar(false)
	fileList.FilterInput.Placeholder = "Filter by path…"

	em := estimateModel{
		fileList:     fileList,
		delegate:     delegate,
		lastSelected: -1,
	}

	sorted := make([]domain.FileEstimate, len(estimates))
	copy(sorted, estimates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].File < sorted[j].File
	})

	items := make([]list.Item, 0, len(sorted))

	for _, estimate := range sorted {
		items = append(items, estimateRow{
			path:    string(estimate.File),
			stubs:   estimate.Points,
			missing: len(estimate.Missing),
		})

		em.totalStubs += estimate.Points
		em.totalMissing += len(estimate.Missing)
	}

	em.fileList.SetItems(items)
	em.totalFiles = len(items)
	em.rendered = true

	if len(items) > 0 {
		em.lastSelected = 0
	}

	return em
}

// needsPagination reports whether the list overflows the terminal height.
func (em estimateModel) needsPagination() bool {
	return em.height > 0 && em.totalFiles+9 > em.height
}

func (em estimateModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (em estimateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		em.width = msg.Width
		em.height = msg.Height
		em.fileList.SetWidth(em.width)

	case tickMsg:
		if em.fileList.FilterState() != list.Filtering && em.rendered {
			em.animOffset++
			em.delegate.offset = em.animOffset
			em.fileList.SetDelegate(em.delegate)
		}

		return em, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return em, tea.Quit
		default:
			var newList list.Model

			newList, cmd = em.fileList.Update(msg)
			em.fileList = newList

			// Detect selection change to reset animation
			if em.fileList.Index() != em.lastSelected {
				em.lastSelected = em.fileList.Index()
				em.animOffset = 0
				em.delegate.offset = 0
				em.fileList.SetDelegate(em.delegate)
			}

			return em, cmd
		}
	}

	return em, cmd
}

func (em estimateModel) View() string {
	if !em.rendered {
		return "Scanning for anchors…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan

	title := titleStyle.Render("🧵 Stubweave Estimate")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Stubs: %s   Missing anchors: %s   Files: %s",
		accentStyle.Render(fmt.Sprintf("%d", em.totalStubs)),
		accentStyle.Render(fmt.Sprintf("%d", em.totalMissing)),
		accentStyle.Render(fmt.Sprintf("%d", em.totalFiles)),
	))

	table := em.renderTable()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(em.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		table,
		footer,
	)
}

func (em estimateModel) renderTable() string {
	listHeight := em.height - 9
	if listHeight < 5 {
		listHeight = 5
	}

	listWidth := em.width - 6

	em.fileList.SetHeight(listHeight)
	em.fileList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%7s  %7s  %s", "Stubs", "Missing", "File Path"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			em.fileList.View(),
		),
	)
}
