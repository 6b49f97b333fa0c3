package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
	assert.NotEmpty(t, string(theme.Bar))
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	accents := []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error}

	seen := make(map[string]bool)
	for _, c := range accents {
		assert.False(t, seen[string(c)], "duplicate accent: %s", c)
		seen[string(c)] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_AllStylesInitialised(t *testing.T) {
	styles := DefaultStyles()

	for name, st := range map[string]lipgloss.Style{
		"Title":      styles.Title,
		"Subtitle":   styles.Subtitle,
		"Normal":     styles.Normal,
		"Muted":      styles.Muted,
		"Error":      styles.Error,
		"Success":    styles.Success,
		"Warning":    styles.Warning,
		"Heading":    styles.Heading,
		"Badge":      styles.Badge,
		"InputField": styles.InputField,
		"StatusBar":  styles.StatusBar,
		"Help":       styles.Help,
		"Panel":      styles.Panel,
	} {
		assert.NotEqual(t, lipgloss.Style{}, st, name)
	}
}

func TestStyles_Markdown(t *testing.T) {
	styles := DefaultStyles()

	out := styles.Markdown("### Incident Summary\nBird strike on climb out.\n- ### not a heading")

	assert.Contains(t, out, "Incident Summary")
	assert.NotContains(t, out, "### Incident Summary")
	assert.Contains(t, out, "Bird strike on climb out.")
	assert.Contains(t, out, "- ### not a heading")
}
