// Package tui is a terminal browser for the output folders. It drives the
// same gallery.Manager commands as the web Gallery tab.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/petervdpas/sdcpp-webui/internal/gallery"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	infoStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("86")).
			Padding(0, 1)
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model of the terminal gallery.
type Model struct {
	mgr  *gallery.Manager
	view gallery.View

	selected int
	info     string
	err      error

	keys keyMap
	help help.Model
}

// New opens the gallery on target at page one.
func New(mgr *gallery.Manager, target gallery.Target) *Model {
	m := &Model{mgr: mgr, keys: defaultKeys(), help: help.New()}
	m.apply(gallery.Command{Op: gallery.OpReload, Target: target})
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

// Page returns the gallery page on screen.
func (m *Model) Page() gallery.View { return m.view }

func (m *Model) Selected() int { return m.selected }

func (m *Model) Info() string { return m.info }

func (m *Model) apply(cmd gallery.Command) {
	v, err := m.mgr.Apply(cmd)
	m.err = err
	if err != nil {
		return
	}
	if v.Target != m.view.Target || v.Page != m.view.Page {
		m.selected = 0
		m.info = ""
	}
	m.view = v
	if m.selected >= len(v.Images) {
		m.selected = max(len(v.Images)-1, 0)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.apply(gallery.Command{Op: gallery.OpNext})
		case key.Matches(msg, m.keys.Prev):
			m.apply(gallery.Command{Op: gallery.OpPrev})
		case key.Matches(msg, m.keys.First):
			m.apply(gallery.Command{Op: gallery.OpFirst})
		case key.Matches(msg, m.keys.Last):
			m.apply(gallery.Command{Op: gallery.OpLast})
		case key.Matches(msg, m.keys.Reload):
			m.apply(gallery.Command{Op: gallery.OpReload})
		case key.Matches(msg, m.keys.Switch):
			next := gallery.Img2Img
			if m.view.Target == gallery.Img2Img {
				next = gallery.Txt2Img
			}
			m.apply(gallery.Command{Op: gallery.OpReload, Target: next})
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
				m.info = ""
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.view.Images)-1 {
				m.selected++
				m.info = ""
			}
		case key.Matches(msg, m.keys.Info):
			if len(m.view.Images) > 0 {
				m.info = m.mgr.ImgInfo(m.selected)
				if m.info == "" {
					m.info = "(no generation parameters)"
				}
			}
		}
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s gallery", m.view.Target)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  page %d/%d, %d images", m.view.Page, m.view.Pages, m.view.Total)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.mgr.Dir(m.view.Target)))
	b.WriteString("\n\n")

	if len(m.view.Images) == 0 {
		b.WriteString(dimStyle.Render("  no images"))
		b.WriteString("\n")
	}
	for i, img := range m.view.Images {
		line := fmt.Sprintf("%-40s %8s  %s", img.Name, humanSize(img.Size), img.Mod.Format("2006-01-02 15:04"))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.info != "" {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(m.info))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Run starts the terminal gallery and blocks until the user quits.
func Run(mgr *gallery.Manager, target gallery.Target) error {
	_, err := tea.NewProgram(New(mgr, target), tea.WithAltScreen()).Run()
	return err
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
