package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/gitscribe/pkg/models"
)

// fakeBackend records calls and returns scripted results.
type fakeBackend struct {
	mu          sync.Mutex
	generated   []string
	generateMsg models.GeneratedMessage
	generateErr error
	committed   []models.GeneratedMessage
	commitErr   error
	preset      string
	userName    string
	userEmail   string
}

func (f *fakeBackend) GenerateMessage(ctx context.Context, instructions string) (models.GeneratedMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generated = append(f.generated, instructions)
	return f.generateMsg, f.generateErr
}

func (f *fakeBackend) PerformCommit(ctx context.Context, msg models.GeneratedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = append(f.committed, msg)
	return nil
}

func (f *fakeBackend) SetPreset(name string) { f.preset = name }

func (f *fakeBackend) SetUserInfo(name, email string) {
	f.userName = name
	f.userEmail = email
}

func (f *fakeBackend) Provider() string { return "test" }

func seedMessage() models.GeneratedMessage {
	return models.GeneratedMessage{Title: "initial candidate", Message: "Seed body."}
}

func newTestModel(backend Backend) Model {
	return New(backend, seedMessage(), "", "Dev", "dev@example.com")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func withMessages(m Model, n int) Model {
	for i := 1; i < n; i++ {
		m.messages = append(m.messages, models.GeneratedMessage{Title: "alt"})
	}
	return m
}

func TestNavigationWraparound(t *testing.T) {
	m := withMessages(newTestModel(&fakeBackend{}), 3)

	require.Equal(t, 0, m.index)
	m, _ = update(t, m, key("left"))
	require.Equal(t, 2, m.index, "previous from the first message wraps to the last")

	m, _ = update(t, m, key("right"))
	require.Equal(t, 0, m.index, "next from the last message wraps to the first")
}

func TestRegenerationAppendsAndMovesCursor(t *testing.T) {
	backend := &fakeBackend{generateMsg: models.GeneratedMessage{Title: "second take"}}
	m := newTestModel(backend)

	m, cmd := update(t, m, key("r"))
	require.Equal(t, modeGenerating, m.mode)
	require.True(t, m.generating)
	require.NotNil(t, cmd)

	m, _ = update(t, m, generationResultMsg{seq: m.genSeq, msg: models.GeneratedMessage{Title: "second take"}})
	require.Equal(t, modeNormal, m.mode)
	require.False(t, m.generating)
	require.Len(t, m.messages, 2, "history is append-only")
	require.Equal(t, "initial candidate", m.messages[0].Title)
	require.Equal(t, 1, m.index, "cursor moves to the new candidate")
}

func TestGenerationFailureReturnsToNormal(t *testing.T) {
	m := newTestModel(&fakeBackend{})

	m, _ = update(t, m, key("r"))
	m, _ = update(t, m, generationResultMsg{seq: m.genSeq, err: errors.New("failed to generate message: provider request failed")})

	require.Equal(t, modeNormal, m.mode)
	require.False(t, m.generating)
	require.Len(t, m.messages, 1, "a failed generation adds no message")
	require.Contains(t, m.status, "failed to generate message")
}

func TestGeneratingRefusesModeTransitions(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = update(t, m, key("r"))

	for _, k := range []string{"e", "i", "u", "g", "p", "r", "enter", "left", "right"} {
		next, cmd := update(t, m, key(k))
		require.Equal(t, modeGenerating, next.mode, "key %q must be refused while generating", k)
		require.True(t, next.generating)
		require.Nil(t, cmd)
	}
}

func TestCancelledGenerationDiscardsLateResult(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = update(t, m, key("r"))
	staleSeq := m.genSeq

	m, _ = update(t, m, key("esc"))
	require.Equal(t, modeNormal, m.mode)
	require.False(t, m.generating)
	require.Contains(t, m.status, "cancelled")

	m, _ = update(t, m, generationResultMsg{seq: staleSeq, msg: models.GeneratedMessage{Title: "late"}})
	require.Len(t, m.messages, 1, "a cancelled generation's result must be discarded")
}

func TestEditMessageReplacesCurrentEntry(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.messages[0].Emoji = "🐛"

	m, _ = update(t, m, key("e"))
	require.Equal(t, modeEditingMessage, m.mode)

	m.editor.SetValue("rewritten title\n\nRewritten body line.")
	m, _ = update(t, m, key("esc"))

	require.Equal(t, modeNormal, m.mode)
	require.Len(t, m.messages, 1, "editing replaces, never appends")
	require.Equal(t, "rewritten title", m.messages[0].Title)
	require.Equal(t, "Rewritten body line.", m.messages[0].Message)
	require.Equal(t, "🐛", m.messages[0].Emoji, "previous emoji is kept when the edit carries none")
}

func TestEditMessageExtractsLeadingEmoji(t *testing.T) {
	m := newTestModel(&fakeBackend{})

	m, _ = update(t, m, key("e"))
	m.editor.SetValue("✨ sparkle title\n\nBody.")
	m, _ = update(t, m, key("esc"))

	require.Equal(t, "✨", m.messages[0].Emoji)
	require.Equal(t, "sparkle title", m.messages[0].Title)
}

func TestEditInstructionsTriggersRegeneration(t *testing.T) {
	backend := &fakeBackend{generateMsg: models.GeneratedMessage{Title: "with instructions"}}
	m := newTestModel(backend)

	m, _ = update(t, m, key("i"))
	require.Equal(t, modeEditingInstructions, m.mode)

	m.editor.SetValue("mention the ticket number")
	m, cmd := update(t, m, key("esc"))

	require.Equal(t, modeGenerating, m.mode)
	require.True(t, m.generating)
	require.Equal(t, "mention the ticket number", m.instructions)
	require.NotNil(t, cmd, "leaving instruction editing must start a generation")
}

func TestCommitSuccessQuits(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)

	m, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	result := cmd()
	commitMsg, ok := result.(commitResultMsg)
	require.True(t, ok)
	require.NoError(t, commitMsg.err)
	require.Equal(t, "initial candidate", backend.committed[0].Title)

	m, quitCmd := update(t, m, commitMsg)
	require.True(t, m.Committed)
	require.NotNil(t, quitCmd)
}

func TestCommitFailureKeepsSessionAlive(t *testing.T) {
	backend := &fakeBackend{commitErr: errors.New("pre-commit hook rejected")}
	m := newTestModel(backend)

	m, cmd := update(t, m, key("enter"))
	result := cmd()
	m, quitCmd := update(t, m, result)

	require.Nil(t, quitCmd)
	require.False(t, m.Committed)
	require.False(t, m.committing)
	require.Equal(t, modeNormal, m.mode)
	require.Contains(t, m.status, "pre-commit hook rejected")
}

func TestCommitInFlightRefusesKeys(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)

	m, cmd := update(t, m, key("enter"))
	require.True(t, m.committing)
	require.NotNil(t, cmd)

	// Until the commit result lands, no second commit or generation may start.
	for _, k := range []string{"enter", "r", "e", "i", "u", "g", "p", "left", "right", "q"} {
		next, extra := update(t, m, key(k))
		require.Equal(t, modeNormal, next.mode, "key %q must be refused while committing", k)
		require.True(t, next.committing)
		require.Nil(t, extra)
	}

	result := cmd()
	require.Len(t, backend.committed, 1, "exactly one commit despite repeated enter")

	m, quitCmd := update(t, m, result)
	require.True(t, m.Committed)
	require.NotNil(t, quitCmd)
}

func TestCommitFailureAllowsRetry(t *testing.T) {
	backend := &fakeBackend{commitErr: errors.New("hook rejected")}
	m := newTestModel(backend)

	m, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())
	require.False(t, m.committing)

	backend.commitErr = nil
	m, cmd = update(t, m, key("enter"))
	require.True(t, m.committing, "a failed commit must not wedge the enter key")
	m, quitCmd := update(t, m, cmd())
	require.True(t, m.Committed)
	require.NotNil(t, quitCmd)
}

func TestHistoryCountsRegenerations(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)

	for i := 0; i < 4; i++ {
		m, _ = update(t, m, key("r"))
		m, _ = update(t, m, generationResultMsg{seq: m.genSeq, msg: models.GeneratedMessage{Title: "take"}})
	}
	require.Len(t, m.messages, 5, "1 seed plus one entry per successful regeneration")
}

func TestSplitEditedMessage(t *testing.T) {
	msg := splitEditedMessage("only a title", "")
	require.Equal(t, "only a title", msg.Title)
	require.Empty(t, msg.Message)

	msg = splitEditedMessage("title\n\n\nbody first\nbody second", "")
	require.Equal(t, "title", msg.Title)
	require.Equal(t, "body first\nbody second", msg.Message)

	msg = splitEditedMessage("\n\ntitle after blanks\n\nbody", "")
	require.Equal(t, "title after blanks", msg.Title)
	require.Equal(t, "body", msg.Message)
}
