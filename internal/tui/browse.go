// Package tui provides the interactive live-search terminal UI.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/catalog"
	"github.com/lepinkainen/bookshelf/internal/search"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 16
)

// searchController is the slice of the orchestrator the UI drives.
type searchController interface {
	UpdateInput(string)
	SetSearchType(book.SearchType)
	SetSources(catalog.Sources)
	SearchType() book.SearchType
	Sources() catalog.Sources
	Retry()
	LoadNextPage()
	Close()
}

// detailController is the slice of the detail resolver the UI drives.
type detailController interface {
	Resolve(ctx context.Context, id string, source book.Source)
	Retry(ctx context.Context)
}

// stateMsg and detailMsg carry published states into the update loop.
type stateMsg search.State
type detailMsg search.DetailState

// programPresenter bridges the orchestrator's state stream into a running
// bubbletea program. States published before the program is attached are
// dropped; the model starts from Idle anyway.
type programPresenter struct {
	mu      sync.Mutex
	program *tea.Program
}

func (p *programPresenter) attach(program *tea.Program) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.program = program
}

func (p *programPresenter) Publish(s search.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.program != nil {
		p.program.Send(stateMsg(s))
	}
}

func (p *programPresenter) PublishDetail(s search.DetailState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.program != nil {
		p.program.Send(detailMsg(s))
	}
}

type bookItem struct {
	book.Book
}

func (i bookItem) Title() string {
	return i.Book.Title
}

func (i bookItem) Description() string {
	return fmt.Sprintf("%s · %s", strings.Join(i.Authors, ", "), i.PublishedDate)
}

func (i bookItem) FilterValue() string {
	return i.Book.Title
}

type itemStyles struct {
	normal    lipgloss.Style
	selected  lipgloss.Style
	title     lipgloss.Style
	meta      lipgloss.Style
	provider  lipgloss.Style
	separator string
}

func newItemStyles() itemStyles {
	return itemStyles{
		normal: lipgloss.NewStyle().
			Padding(0, 1),
		selected: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("230")),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		meta: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		provider: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func (d bookDelegate) Height() int                         { return 3 }
func (d bookDelegate) Spacing() int                        { return 0 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	entry, ok := item.(bookItem)
	if !ok {
		return
	}

	label := "[GOOGLE]"
	if entry.Provider == book.SourceOpenLibrary {
		label = "[OPENLIB]"
	}

	title := truncate(entry.Book.Title, m.Width()-12)
	meta := truncate(entry.Description(), m.Width()-4)

	content := lipgloss.JoinVertical(lipgloss.Left,
		d.styles.provider.Render(label)+" "+d.styles.title.Render(title),
		d.styles.meta.Render(meta),
	)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type browseModel struct {
	input    textinput.Model
	results  list.Model
	spinner  spinner.Model
	orch     searchController
	resolver detailController

	state      search.State
	detail     *search.DetailState
	searchType book.SearchType
	sources    catalog.Sources
	width      int
}

func newBrowseModel(orch searchController, resolver detailController) *browseModel {
	input := textinput.New()
	input.Placeholder = "Start typing to search books..."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	l := list.New(nil, bookDelegate{styles: newItemStyles()}, defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()

	return &browseModel{
		input:      input,
		results:    l,
		spinner:    sp,
		orch:       orch,
		resolver:   resolver,
		state:      search.State{Kind: search.StateIdle},
		searchType: orch.SearchType(),
		sources:    orch.Sources(),
	}
}

func (m *browseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = search.State(msg)
		if m.state.Kind == search.StateSuccess {
			items := make([]list.Item, len(m.state.Books))
			for i, b := range m.state.Books {
				items[i] = bookItem{Book: b}
			}
			m.results.SetItems(items)
		}
		return m, nil

	case detailMsg:
		detail := search.DetailState(msg)
		m.detail = &detail
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.results.SetSize(clamp(defaultListWidth, msg.Width-4, 40), clamp(defaultListHeight, msg.Height-8, 5))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.orch.Close()
		return m, tea.Quit

	case "esc":
		if m.detail != nil {
			m.detail = nil
			return m, nil
		}
		m.orch.Close()
		return m, tea.Quit

	case "tab":
		m.searchType = nextSearchType(m.searchType)
		m.orch.SetSearchType(m.searchType)
		return m, nil

	case "ctrl+g":
		return m.toggleSource(catalog.Sources{
			GoogleBooks: !m.sources.GoogleBooks,
			OpenLibrary: m.sources.OpenLibrary,
		})

	case "ctrl+o":
		return m.toggleSource(catalog.Sources{
			GoogleBooks: m.sources.GoogleBooks,
			OpenLibrary: !m.sources.OpenLibrary,
		})

	case "ctrl+r":
		if m.detail != nil && m.detail.Kind == search.StateError && m.detail.Retryable {
			resolver := m.resolver
			return m, func() tea.Msg {
				resolver.Retry(context.Background())
				return nil
			}
		}
		m.orch.Retry()
		return m, nil

	case "ctrl+n":
		m.orch.LoadNextPage()
		return m, nil

	case "enter":
		if m.detail != nil {
			return m, nil
		}
		if selected, ok := m.results.SelectedItem().(bookItem); ok {
			resolver := m.resolver
			id, source := selected.ID, selected.Provider
			return m, func() tea.Msg {
				resolver.Resolve(context.Background(), id, source)
				return nil
			}
		}
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.orch.UpdateInput(m.input.Value())
	}
	return m, cmd
}

func (m *browseModel) toggleSource(next catalog.Sources) (tea.Model, tea.Cmd) {
	if !next.Any() {
		return m, nil // at least one source stays active
	}
	m.sources = next
	m.orch.SetSources(next)
	return m, nil
}

func (m *browseModel) View() string {
	if m.detail != nil {
		return m.detailView()
	}

	header := headerStyle.Render("bookshelf") + "  " +
		facetStyle.Render(fmt.Sprintf("type:%s  sources:%s", m.searchType, sourcesLabel(m.sources)))

	var body string
	switch m.state.Kind {
	case search.StateIdle:
		body = hintStyle.Render("Type a query to search Google Books and Open Library.")
	case search.StateLoading:
		body = m.spinner.View() + " searching..."
	case search.StateError:
		body = errorStyle.Render(fmt.Sprintf("%v", m.state.Err)) + "\n" +
			hintStyle.Render("ctrl+r retry")
	case search.StateSuccess:
		if len(m.state.Books) == 0 {
			body = hintStyle.Render("No results.")
		} else {
			body = fmt.Sprintf("%d results\n%s", m.state.Total, m.results.View())
		}
	}

	help := helpStyle.Render("tab search-type | ctrl+g/ctrl+o toggle source | enter details | ctrl+n more | esc quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.input.View(), body, help)
}

func (m *browseModel) detailView() string {
	switch m.detail.Kind {
	case search.StateLoading:
		return m.spinner.View() + " fetching details..."
	case search.StateError:
		body := errorStyle.Render(fmt.Sprintf("%v", m.detail.Err))
		if m.detail.Retryable {
			body += "\n" + hintStyle.Render("ctrl+r retry | esc back")
		} else {
			body += "\n" + hintStyle.Render("esc back")
		}
		return body
	default:
		b := m.detail.Book
		lines := []string{
			headerStyle.Render(b.Title),
			facetStyle.Render(strings.Join(b.Authors, ", ")),
			"",
			fmt.Sprintf("Published: %s", b.PublishedDate),
		}
		if b.PageCount > 0 {
			lines = append(lines, fmt.Sprintf("Pages: %d", b.PageCount))
		}
		if len(b.Categories) > 0 {
			lines = append(lines, "Categories: "+strings.Join(b.Categories, ", "))
		}
		if b.EbookAvailable != nil {
			ebook := "No"
			if *b.EbookAvailable {
				ebook = "Yes"
			}
			lines = append(lines, "eBook available: "+ebook)
		}
		lines = append(lines, "", truncate(b.Description, 400), "", hintStyle.Render("esc back"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	facetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("161"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

func nextSearchType(t book.SearchType) book.SearchType {
	switch t {
	case book.SearchByTitle:
		return book.SearchByAuthor
	case book.SearchByAuthor:
		return book.SearchBySubject
	default:
		return book.SearchByTitle
	}
}

func sourcesLabel(s catalog.Sources) string {
	switch {
	case s.GoogleBooks && s.OpenLibrary:
		return "both"
	case s.GoogleBooks:
		return "google"
	default:
		return "openlibrary"
	}
}

func clamp(preferred, max, min int) int {
	if max < min {
		return min
	}
	if preferred > max {
		return max
	}
	if preferred < min {
		return min
	}
	return preferred
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

// Browse runs the interactive search UI until the user quits.
func Browse(client *catalog.Client, opts ...search.OrchestratorOption) error {
	presenter := &programPresenter{}

	orch := search.NewOrchestrator(client, presenter, opts...)
	defer orch.Close()
	resolver := search.NewDetailResolver(client, presenter)

	m := newBrowseModel(orch, resolver)
	program := tea.NewProgram(m, tea.WithAltScreen())
	presenter.attach(program)

	_, err := program.Run()
	return err
}
