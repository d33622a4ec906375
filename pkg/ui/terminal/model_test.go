package terminal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrianliechti/wingman-ask/pkg/ask"
	"github.com/adrianliechti/wingman-ask/pkg/question"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	events []ask.Event
}

func (r *recorder) send(e ask.Event) {
	r.events = append(r.events, e)
}

func testModel(q *question.Question) (model, *recorder) {
	r := &recorder{}
	m := newModel(q, newStyles(lipgloss.DefaultRenderer()), "notty", 1024, r.send)

	return m, r
}

func update(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func TestModelFreeText(t *testing.T) {
	q := &question.Question{Kind: question.FreeText, Title: "Thoughts?"}

	m, r := testModel(q)

	m = update(m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")},
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)

	want := []ask.Event{
		ask.TextChanged{Text: "h"},
		ask.TextChanged{Text: "hi"},
		ask.Submitted{},
	}

	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestModelChoice(t *testing.T) {
	q := &question.Question{
		Kind:  question.SingleChoice,
		Title: "Pick",
		Options: question.WithOther([]question.Option{
			{Value: "a", Label: "A"},
			{Value: "b", Label: "B"},
		}),
	}

	m, r := testModel(q)

	m = update(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyEsc},
	)

	want := []ask.Event{
		ask.OptionSelected{Value: "b"},
		ask.OptionSelected{Value: question.OtherValue},
		ask.OptionSelected{Value: "a"},
		ask.OptionSelected{Value: question.OtherValue},
		ask.Cancelled{},
	}

	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestModelAttach(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "shot.png")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	if err := os.WriteFile(path, png, 0644); err != nil {
		t.Fatal(err)
	}

	q := &question.Question{Kind: question.FreeText, Title: "Screenshot?"}

	m, r := testModel(q)

	m = update(m, tea.KeyMsg{Type: tea.KeyCtrlO})

	if !m.attaching {
		t.Fatal("ctrl+o did not open the attach prompt")
	}

	m = update(m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(`"` + path + `"`)},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if m.attaching {
		t.Fatal("attach prompt still open")
	}

	want := []ask.Event{
		ask.ImageAttached{Data: png, MimeType: "image/png"},
	}

	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"shot.png"}, m.attachments); diff != "" {
		t.Errorf("attachments mismatch (-want +got):\n%s", diff)
	}

	m = update(m, rejectMsg{Message: "unsupported", Dropped: []int{0}})

	if len(m.attachments) != 0 {
		t.Errorf("attachments = %v after rejection, want none", m.attachments)
	}

	if m.err != "unsupported" {
		t.Errorf("err = %q, want %q", m.err, "unsupported")
	}
}

func TestReadImageLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.bin")

	if err := os.WriteFile(path, make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}

	data, name, err := readImage(path, 10)

	if err != nil {
		t.Fatalf("readImage() error = %v", err)
	}

	if len(data) != 11 || name != "big.bin" {
		t.Errorf("readImage() = %d bytes, %q", len(data), name)
	}

	if _, _, err := readImage("  ", 10); err != errNoFile {
		t.Errorf("readImage(blank) error = %v, want %v", err, errNoFile)
	}
}
