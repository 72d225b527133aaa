package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gdnative-go/gdnative/api"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#478CBF")).
			Padding(0, 1)

	classStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#478CBF"))

	docStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D0D0D0"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserState int

const (
	stateSelectClass browserState = iota
	stateShowClass
)

type browserModel struct {
	filename string
	model    *api.Model
	docs     *api.Docs

	all      []*api.Class
	filtered []*api.Class
	filter   textinput.Model

	selected int
	offset   int
	height   int
	state    browserState
}

func newBrowserModel(filename string, model *api.Model, docs *api.Docs) *browserModel {
	all := append([]*api.Class(nil), model.Classes...)
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	filter := textinput.New()
	filter.Placeholder = "filter classes"
	filter.Prompt = "/ "
	filter.Width = 40
	filter.Focus()

	return &browserModel{
		filename: filename,
		model:    model,
		docs:     docs,
		all:      all,
		filtered: all,
		filter:   filter,
		height:   24,
		state:    stateSelectClass,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowClass {
				m.state = stateSelectClass
				return m, nil
			}
			return m, tea.Quit

		case "up", "ctrl+k":
			if m.state == stateSelectClass && m.selected > 0 {
				m.selected--
			}
			if m.state == stateShowClass && m.offset > 0 {
				m.offset--
			}
			return m, nil

		case "down", "ctrl+j":
			if m.state == stateSelectClass && m.selected < len(m.filtered)-1 {
				m.selected++
			}
			if m.state == stateShowClass {
				m.offset++
			}
			return m, nil

		case "enter":
			if m.state == stateSelectClass && len(m.filtered) > 0 {
				m.state = stateShowClass
				m.offset = 0
			}
			return m, nil

		case "esc":
			if m.state == stateShowClass {
				m.state = stateSelectClass
				return m, nil
			}
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.applyFilter()
			}
			return m, nil
		}
	}

	if m.state == stateSelectClass {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}
	return m, nil
}

func (m *browserModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	if query == "" {
		m.filtered = m.all
	} else {
		var out []*api.Class
		for _, c := range m.all {
			if strings.Contains(strings.ToLower(c.Name), query) {
				out = append(out, c)
			}
		}
		m.filtered = out
	}
	if m.selected >= len(m.filtered) {
		m.selected = len(m.filtered) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *browserModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Binding Browser"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectClass:
		m.viewClassList(&b)
	case stateShowClass:
		m.viewClassDetail(&b)
	}
	return b.String()
}

func (m *browserModel) viewClassList(b *strings.Builder) {
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	visible := m.height - 8
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := start + visible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := start; i < end; i++ {
		c := m.filtered[i]
		line := fmt.Sprintf("%-32s %s", c.GoName(), m.classSummary(c))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(helpStyle.Render("  no classes match"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter open • esc clear filter • q quit"))
}

func (m *browserModel) classSummary(c *api.Class) string {
	parts := []string{fmt.Sprintf("%d methods", len(c.Methods))}
	if c.BaseClass != "" {
		parts = append(parts, "< "+c.BaseClass)
	}
	if c.Singleton {
		parts = append(parts, "singleton")
	}
	return typeStyle.Render(strings.Join(parts, " • "))
}

func (m *browserModel) viewClassDetail(b *strings.Builder) {
	c := m.filtered[m.selected]

	header := classStyle.Render(c.GoName())
	for _, anc := range m.model.Ancestors(c) {
		header += " < " + anc.GoName()
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	var lines []string
	if len(c.Enums) > 0 {
		enums := append([]api.Enum(nil), c.Enums...)
		sort.Slice(enums, func(i, j int) bool { return enums[i].Name < enums[j].Name })
		for _, e := range enums {
			lines = append(lines, typeStyle.Render("enum "+e.Name)+" ("+fmt.Sprint(len(e.Values))+" values)")
		}
		lines = append(lines, "")
	}

	methods := append([]api.Method(nil), c.Methods...)
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	for _, meth := range methods {
		lines = append(lines, classStyle.Render(meth.Name)+strings.TrimPrefix(formatMethod(meth), meth.Name))
		if m.docs != nil {
			// Stored descriptions are already reformatted by the doc index;
			// rendering them through Reformat again would corrupt the links
			// it produced.
			if desc, ok := m.docs.Get(c.Name, meth.Name); ok {
				lines = append(lines, docStyle.Render("    "+firstSentence(desc)))
			}
		}
	}
	if len(methods) == 0 {
		lines = append(lines, helpStyle.Render("no methods"))
	}

	visible := m.height - 6
	if visible < 5 {
		visible = 5
	}
	if m.offset > len(lines)-visible {
		m.offset = len(lines) - visible
	}
	if m.offset < 0 {
		m.offset = 0
	}
	end := m.offset + visible
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[m.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • ctrl+c quit"))
}

func firstSentence(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if idx := strings.Index(s, ". "); idx >= 0 {
		return s[:idx+1]
	}
	if len(s) > 120 {
		return s[:120] + "…"
	}
	return s
}

func runInteractive(filename string, model *api.Model, docs *api.Docs) error {
	p := tea.NewProgram(newBrowserModel(filename, model, docs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
