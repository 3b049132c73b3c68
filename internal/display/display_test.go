package display

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickRefreshesStatus(t *testing.T) {
	status := Status{Open: 3, Completed: 1, Flow: "needsShortfallReview", Recipe: "Pancakes"}
	m := newModel(textinput.New(), func() Status { return status }, make(chan string, 1), make(chan struct{}), nil)

	next, _ := m.Update(tickMsg{})
	got := next.(model)
	assert.Equal(t, status, got.status)
	assert.Equal(t, "PantryPal | Pancakes: needsShortfallReview", got.titleStr())

	bar := got.renderBar()
	assert.Contains(t, bar, "open: ")
	assert.Contains(t, bar, "3")
	assert.Contains(t, bar, "needsShortfallReview")
}

func TestBarWithoutFlow(t *testing.T) {
	m := newModel(textinput.New(), nil, make(chan string, 1), make(chan struct{}), nil)
	next, _ := m.Update(tickMsg{})
	got := next.(model)
	assert.Equal(t, "PantryPal", got.titleStr())
	assert.NotContains(t, got.renderBar(), "check")
}

func TestEnterSendsInput(t *testing.T) {
	inputs := make(chan string, 1)
	ti := textinput.New()
	ti.Focus()
	ti.SetValue("add milk")

	var echoed string
	m := newModel(ti, nil, inputs, make(chan struct{}), func(s string) { echoed = s })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, "add milk", <-inputs)
	assert.Equal(t, "add milk", echoed)
	assert.Empty(t, next.(model).input.Value())
}

func TestEnterIgnoresBlank(t *testing.T) {
	inputs := make(chan string, 1)
	ti := textinput.New()
	ti.SetValue("   ")
	m := newModel(ti, nil, inputs, make(chan struct{}), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, inputs)
}

func TestRenderBannerCentres(t *testing.T) {
	out := RenderBanner()
	assert.Contains(t, out, "|_|")
}

func TestCentrePadsEvenly(t *testing.T) {
	out := centre("ab\nabcd\n", 10)
	lines := splitLines(out)
	require.Len(t, lines, 2)
	assert.True(t, len(lines[0]) >= 3 && lines[0][:3] == "   ")
	assert.True(t, len(lines[1]) >= 3 && lines[1][:3] == "   ")

	narrow := splitLines(centre("abcdef", 4))
	require.Len(t, narrow, 1)
	assert.NotEqual(t, byte(' '), narrow[0][0])
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
