package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/appengine-ltd/steelball/internal/game"
	"github.com/appengine-ltd/steelball/internal/logger"
	"github.com/appengine-ltd/steelball/internal/parser"
	"github.com/appengine-ltd/steelball/internal/scene"
)

type AppConfig struct {
	Version   string
	Rules     game.Rules
	QueueSize int
}

type App struct {
	cfg AppConfig
}

func NewApp(cfg AppConfig) *App {
	return &App{cfg: cfg}
}

// Run plays in the terminal until the player quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	effects := newTermEffects(16)
	mem := scene.NewMemory()
	session, err := game.NewSession(a.cfg.Rules, mem, game.MultiEffects{
		game.LogEffects{Log: logger.For("effects")},
		effects,
	})
	if err != nil {
		return err
	}
	runner := game.NewRunner(session, a.cfg.QueueSize)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		m := newModel(gctx, a.cfg, runner, mem, effects)
		_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(gctx)).Run()
		if gctx.Err() != nil {
			return nil
		}
		return err
	})
	return g.Wait()
}

// --- Styles ---
var (
	green       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	brightGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimGreen    = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	amber       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	banner      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Bold(true).Padding(0, 2)
	mapBox      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("2"))
	sideBox     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("22")).Padding(0, 1).Width(28)
)

const (
	refreshEvery = 100 * time.Millisecond
	maxMessages  = 6
	bannerFor    = 3 * time.Second
)

type refreshMsg time.Time

type snapshotMsg struct {
	snap     game.Snapshot
	entities []scene.Entity
}

type eventMsg game.Event

type model struct {
	ctx     context.Context
	cfg     AppConfig
	runner  *game.Runner
	mem     *scene.Memory
	effects *termEffects
	parser  *parser.Parser

	snap     game.Snapshot
	entities []scene.Entity

	width, height int

	cmdMode bool
	input   string

	status      string
	messages    []string
	banner      string
	bannerUntil time.Time
	quitting    bool
}

func newModel(ctx context.Context, cfg AppConfig, runner *game.Runner, mem *scene.Memory, effects *termEffects) model {
	return model{
		ctx:     ctx,
		cfg:     cfg,
		runner:  runner,
		mem:     mem,
		effects: effects,
		parser:  parser.New(),
		width:   80,
		height:  30,
		status:  "Building the play field…",
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(), m.waitForEvent(), m.waitForEffect())
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

func (m model) snapshotCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, time.Second)
		defer cancel()
		snap, ok := m.runner.Snapshot(ctx)
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap, entities: m.mem.Entities()}
	}
}

func (m model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-m.runner.Events():
			return eventMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m model) waitForEffect() tea.Cmd {
	if m.effects == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-m.effects.out:
			return e
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case refreshMsg:
		return m, tea.Batch(m.snapshotCmd(), refreshCmd())
	case snapshotMsg:
		m.snap = msg.snap
		m.entities = msg.entities
		if !m.bannerUntil.IsZero() && time.Now().After(m.bannerUntil) {
			m.banner = ""
			m.bannerUntil = time.Time{}
		}
		return m, nil
	case eventMsg:
		m = m.applyEvent(game.Event(msg))
		return m, m.waitForEvent()
	case effectMsg:
		if msg.banner {
			m.banner = strings.ToUpper(msg.text)
			m.bannerUntil = time.Now().Add(bannerFor)
		} else {
			m.pushMessage(msg.text)
		}
		return m, m.waitForEffect()
	case tea.KeyMsg:
		if m.cmdMode {
			return m.updateCommandLine(msg)
		}
		return m.updatePlay(msg)
	}
	return m, nil
}

func (m model) applyEvent(ev game.Event) model {
	m.snap = ev.Snapshot
	switch ev.Kind {
	case game.EventStarted:
		m.status = "Roll the ball onto the platform. e flips the world."
	case game.EventTriggered:
		m.status = fmt.Sprintf("Flipped (%d/%d)", ev.Snapshot.Presses, m.cfg.Rules.TriggerThreshold)
	case game.EventRelocated:
		m.pushMessage("The platform moved.")
	case game.EventWon:
		m.pushMessage(fmt.Sprintf("Win #%d", ev.Snapshot.Wins))
		m.status = "New field. Go again."
	case game.EventRestarted:
		m.pushMessage("Restarted.")
	case game.EventFallback:
		m.pushMessage("Crowded field: placement fell back.")
	}
	return m
}

func (m *model) pushMessage(text string) {
	stamp := time.Now().Format("15:04:05")
	m.messages = append(m.messages, fmt.Sprintf("[%s] %s", stamp, text))
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

func (m model) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if intent, ok := keyIntent(msg); ok {
		m.runner.Enqueue(intent)
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case ":", "/":
		m.cmdMode = true
		m.input = ""
		return m, nil
	case "?":
		m.status = helpText()
		return m, nil
	}
	return m, nil
}

func (m model) updateCommandLine(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.cmdMode = false
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		raw := m.input
		m.cmdMode = false
		m.input = ""
		return m.submit(raw)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m model) submit(raw string) (tea.Model, tea.Cmd) {
	intent := m.parser.Parse(raw)
	if intent.Clarify != nil {
		m.status = clarifyText(intent.Clarify)
		return m, nil
	}
	switch intent.Action {
	case parser.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case parser.ActionHelp:
		m.status = helpText()
		return m, nil
	case parser.ActionStatus:
		m.status = statusText(m.snap)
		return m, nil
	}
	for _, gi := range intent.GameIntents() {
		m.runner.Enqueue(gi)
	}
	m.status = "> " + parser.IntentToCommandString(intent)
	return m, nil
}

// keyIntent mirrors the graphical client: arrows nudge, e triggers, r restarts.
func keyIntent(msg tea.KeyMsg) (game.Intent, bool) {
	switch msg.String() {
	case "up":
		return game.IntentForKeyCode("ArrowUp")
	case "down":
		return game.IntentForKeyCode("ArrowDown")
	case "left":
		return game.IntentForKeyCode("ArrowLeft")
	case "right":
		return game.IntentForKeyCode("ArrowRight")
	case "e", "E":
		return game.IntentForKeyCode("KeyE")
	case "r", "R":
		return game.IntentForKeyCode("KeyR")
	}
	return game.Intent{}, false
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	title := brightGreen.Render("STEEL BALL") + dimGreen.Render("  v"+m.cfg.Version)

	mapW := clampInt(m.width-36, 16, 160)
	mapH := clampInt(m.height-8, 8, 80)
	field := renderFieldANSI(m.entities, m.snap.Backdrop, m.cfg.Rules.HalfExtent, mapW, mapH)

	body := lipgloss.JoinHorizontal(lipgloss.Top, mapBox.Render(field), sideBox.Render(m.sidePanel()))

	var b strings.Builder
	b.WriteString(title + "\n")
	if m.banner != "" {
		b.WriteString(banner.Render(m.banner) + "\n")
	}
	b.WriteString(body + "\n")
	if m.cmdMode {
		b.WriteString(amber.Render(":"+m.input+"█") + "\n")
	} else {
		b.WriteString(dimGreen.Render("←↑↓→ roll  e flip  r restart  : command  q quit") + "\n")
	}
	if m.status != "" {
		b.WriteString(green.Render(m.status) + "\n")
	}
	return b.String()
}

func (m model) sidePanel() string {
	var b strings.Builder
	b.WriteString(brightGreen.Render("Field") + "\n")
	b.WriteString(statusText(m.snap) + "\n\n")
	b.WriteString(brightGreen.Render("Log") + "\n")
	for _, line := range m.messages {
		b.WriteString(dimGreen.Render(line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusText(s game.Snapshot) string {
	if !s.Ready {
		return "loading…"
	}
	ball := "hidden"
	if s.Ball.Visible {
		ball = fmt.Sprintf("%.1f, %.1f", s.Ball.Position.X, s.Ball.Position.Z)
	}
	platform := "hidden"
	if s.Platform.Visible {
		platform = fmt.Sprintf("%.1f, %.1f", s.Platform.Position.X, s.Platform.Position.Z)
	}
	return strings.Join([]string{
		"ball:     " + ball,
		"platform: " + platform,
		fmt.Sprintf("presses:  %d", s.Presses),
		"sky:      " + s.Backdrop.String(),
		fmt.Sprintf("wins:     %d", s.Wins),
	}, "\n")
}

func helpText() string {
	return "Commands: up/down/left/right [n], move <dir> [n], trigger [n], restart, status, help, quit"
}

func clarifyText(q *parser.ClarifyQuestion) string {
	if len(q.Options) == 0 {
		return q.Prompt
	}
	names := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		names = append(names, parser.IntentToCommandString(opt))
	}
	return q.Prompt + " " + strings.Join(names, ", ")
}
