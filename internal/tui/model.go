// Package tui is the interactive review loop. It follows the Elm
// architecture: the Model holds all state, Update reacts to messages, View
// renders. The pipeline runs as an asynchronous command so the terminal
// keeps redrawing while a generation is in flight.
package tui

import (
	"context"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gitscribe/internal/gitmoji"
	"github.com/gitscribe/internal/presets"
	"github.com/gitscribe/pkg/models"
)

// mode is the review state machine's current state. Normal is the hub; every
// other mode returns to it.
type mode int

const (
	modeNormal mode = iota
	modeEditingMessage
	modeEditingInstructions
	modeEditingUserInfo
	modeSelectingEmoji
	modeSelectingPreset
	modeGenerating
)

// Backend is the slice of the session service the review loop drives.
type Backend interface {
	GenerateMessage(ctx context.Context, instructions string) (models.GeneratedMessage, error)
	PerformCommit(ctx context.Context, msg models.GeneratedMessage) error
	SetPreset(name string)
	SetUserInfo(name, email string)
	Provider() string
}

// generationResultMsg delivers the outcome of one async pipeline run. seq
// ties it to the request that started it; stale results are discarded.
type generationResultMsg struct {
	seq int
	msg models.GeneratedMessage
	err error
}

// commitResultMsg delivers the outcome of an async commit attempt.
type commitResultMsg struct {
	err error
}

// Model is the review session state.
type Model struct {
	backend Backend

	messages []models.GeneratedMessage
	index    int
	mode     mode

	instructions string
	generating   bool
	committing   bool
	genSeq       int
	status       string

	userName  string
	userEmail string

	spinner    spinner.Model
	editor     textarea.Model
	nameInput  textinput.Model
	emailInput textinput.Model
	emojiList  list.Model
	presetList list.Model

	width  int
	height int

	// Committed reports whether the session ended with a commit.
	Committed bool
}

type emojiItem struct {
	entry gitmoji.Entry
}

func (i emojiItem) Title() string {
	if i.entry.Emoji == "" {
		return i.entry.Type
	}
	return i.entry.Emoji + " " + i.entry.Type
}
func (i emojiItem) Description() string { return i.entry.Description }
func (i emojiItem) FilterValue() string { return i.entry.Type }

type presetItem struct {
	preset presets.Preset
}

func (i presetItem) Title() string       { return i.preset.Name }
func (i presetItem) Description() string { return i.preset.Description }
func (i presetItem) FilterValue() string { return i.preset.Name }

// New builds the review model seeded with the initial candidate.
func New(backend Backend, seed models.GeneratedMessage, instructions, userName, userEmail string) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	editor := textarea.New()
	editor.CharLimit = 0

	nameInput := textinput.New()
	nameInput.Placeholder = "Name"
	emailInput := textinput.New()
	emailInput.Placeholder = "Email"

	emojiItems := []list.Item{emojiItem{entry: gitmoji.Entry{Type: "none", Description: "No emoji prefix"}}}
	for _, e := range gitmoji.List() {
		emojiItems = append(emojiItems, emojiItem{entry: e})
	}
	emojiList := list.New(emojiItems, list.NewDefaultDelegate(), 0, 0)
	emojiList.Title = "Choose an emoji"
	emojiList.SetShowHelp(false)

	presetItems := make([]list.Item, 0)
	for _, p := range presets.List() {
		presetItems = append(presetItems, presetItem{preset: p})
	}
	presetList := list.New(presetItems, list.NewDefaultDelegate(), 0, 0)
	presetList.Title = "Choose an instruction preset"
	presetList.SetShowHelp(false)

	return Model{
		backend:      backend,
		messages:     []models.GeneratedMessage{seed},
		mode:         modeNormal,
		instructions: instructions,
		userName:     userName,
		userEmail:    userEmail,
		spinner:      sp,
		editor:       editor,
		nameInput:    nameInput,
		emailInput:   emailInput,
		emojiList:    emojiList,
		presetList:   presetList,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// current returns the message under the cursor.
func (m Model) current() models.GeneratedMessage {
	return m.messages[m.index]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(msg.Width - 4)
		m.editor.SetHeight(msg.Height / 2)
		m.emojiList.SetSize(msg.Width-4, msg.Height-6)
		m.presetList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generationResultMsg:
		return m.handleGenerationResult(msg)

	case commitResultMsg:
		m.committing = false
		if msg.err != nil {
			// The session stays alive; the failure becomes status text.
			m.status = "commit failed: " + msg.err.Error()
			return m, nil
		}
		m.Committed = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleGenerationResult(msg generationResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.genSeq {
		// A cancelled generation finishing late; drop it.
		return m, nil
	}
	m.generating = false
	m.mode = modeNormal
	if msg.err != nil {
		m.status = msg.err.Error()
		return m, nil
	}
	m.messages = append(m.messages, msg.msg)
	m.index = len(m.messages) - 1
	m.status = ""
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeNormal:
		return m.handleNormalKey(msg)
	case modeGenerating:
		return m.handleGeneratingKey(msg)
	case modeEditingMessage:
		return m.handleEditMessageKey(msg)
	case modeEditingInstructions:
		return m.handleEditInstructionsKey(msg)
	case modeEditingUserInfo:
		return m.handleEditUserInfoKey(msg)
	case modeSelectingEmoji:
		return m.handleEmojiKey(msg)
	case modeSelectingPreset:
		return m.handlePresetKey(msg)
	}
	return m, nil
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.committing {
		// One commit at a time; keys are refused until its result lands.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "enter":
		m.committing = true
		m.status = ""
		current := m.current()
		backend := m.backend
		return m, func() tea.Msg {
			return commitResultMsg{err: backend.PerformCommit(context.Background(), current)}
		}

	case "left", "h":
		m.index--
		if m.index < 0 {
			m.index = len(m.messages) - 1
		}
		return m, nil

	case "right", "l":
		m.index++
		if m.index >= len(m.messages) {
			m.index = 0
		}
		return m, nil

	case "r":
		return m.startGeneration()

	case "e":
		m.mode = modeEditingMessage
		m.editor.SetValue(editBuffer(m.current()))
		m.editor.Focus()
		return m, textarea.Blink

	case "i":
		m.mode = modeEditingInstructions
		m.editor.SetValue(m.instructions)
		m.editor.Focus()
		return m, textarea.Blink

	case "u":
		m.mode = modeEditingUserInfo
		m.nameInput.SetValue(m.userName)
		m.emailInput.SetValue(m.userEmail)
		m.nameInput.Focus()
		m.emailInput.Blur()
		return m, textinput.Blink

	case "g":
		m.mode = modeSelectingEmoji
		return m, nil

	case "p":
		m.mode = modeSelectingPreset
		return m, nil
	}
	return m, nil
}

func (m Model) handleGeneratingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		// Resets UI state only. The in-flight call runs to completion and
		// its result is discarded by the sequence check.
		m.genSeq++
		m.generating = false
		m.mode = modeNormal
		m.status = "generation cancelled"
		return m, nil
	}
	// Every other transition is refused while generating.
	return m, nil
}

func (m Model) handleEditMessageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		edited := splitEditedMessage(m.editor.Value(), m.current().Emoji)
		m.messages[m.index] = edited
		m.mode = modeNormal
		m.editor.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleEditInstructionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.instructions = m.editor.Value()
		m.editor.Blur()
		return m.startGeneration()
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleEditUserInfoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.userName = m.nameInput.Value()
		m.userEmail = m.emailInput.Value()
		m.backend.SetUserInfo(m.userName, m.userEmail)
		m.nameInput.Blur()
		m.emailInput.Blur()
		return m.startGeneration()
	case "tab", "enter":
		if m.nameInput.Focused() {
			m.nameInput.Blur()
			m.emailInput.Focus()
		} else {
			m.emailInput.Blur()
			m.nameInput.Focus()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.nameInput.Focused() {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleEmojiKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil
	case "enter":
		if item, ok := m.emojiList.SelectedItem().(emojiItem); ok {
			current := m.current()
			current.Emoji = item.entry.Emoji
			m.messages[m.index] = current
		}
		m.mode = modeNormal
		return m, nil
	}
	var cmd tea.Cmd
	m.emojiList, cmd = m.emojiList.Update(msg)
	return m, cmd
}

func (m Model) handlePresetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil
	case "enter":
		if item, ok := m.presetList.SelectedItem().(presetItem); ok {
			m.backend.SetPreset(item.preset.Name)
		}
		return m.startGeneration()
	}
	var cmd tea.Cmd
	m.presetList, cmd = m.presetList.Update(msg)
	return m, cmd
}

// startGeneration kicks off one async pipeline run. Only one may be in
// flight; further requests are refused, not queued.
func (m Model) startGeneration() (tea.Model, tea.Cmd) {
	if m.generating {
		m.status = "a generation is already running"
		m.mode = modeGenerating
		return m, nil
	}
	m.generating = true
	m.mode = modeGenerating
	m.status = ""
	m.genSeq++

	seq := m.genSeq
	backend := m.backend
	instructions := m.instructions
	generate := func() tea.Msg {
		msg, err := backend.GenerateMessage(context.Background(), instructions)
		return generationResultMsg{seq: seq, msg: msg, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, generate)
}

// editBuffer renders a message into the edit textarea: title line, blank
// line, body.
func editBuffer(msg models.GeneratedMessage) string {
	if strings.TrimSpace(msg.Message) == "" {
		return msg.Title
	}
	return msg.Title + "\n\n" + msg.Message
}

// splitEditedMessage re-splits raw edit text into a structured message: the
// first line becomes the title, with a leading emoji extracted; lines after
// the blank separator become the body. The previously selected emoji is kept
// when the edited title carries none.
func splitEditedMessage(text, previousEmoji string) models.GeneratedMessage {
	lines := strings.Split(text, "\n")

	title := ""
	rest := 0
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			title = strings.TrimSpace(line)
			rest = i + 1
			break
		}
		rest = i + 1
	}

	emoji, title := extractLeadingEmoji(title)
	if emoji == "" {
		emoji = previousEmoji
	}

	for rest < len(lines) && strings.TrimSpace(lines[rest]) == "" {
		rest++
	}
	body := strings.TrimRight(strings.Join(lines[rest:], "\n"), "\n ")

	return models.GeneratedMessage{Emoji: emoji, Title: title, Message: body}
}

// extractLeadingEmoji splits an emoji prefix off a title line.
func extractLeadingEmoji(title string) (string, string) {
	fields := strings.SplitN(title, " ", 2)
	if len(fields) == 0 || fields[0] == "" {
		return "", title
	}
	if !isEmoji(fields[0]) {
		return "", title
	}
	if len(fields) == 1 {
		return fields[0], ""
	}
	return fields[0], strings.TrimSpace(fields[1])
}

// isEmoji reports whether s consists of symbol runes rather than words.
func isEmoji(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) {
			return false
		}
		if r < 0x2000 {
			return false
		}
	}
	return s != ""
}
