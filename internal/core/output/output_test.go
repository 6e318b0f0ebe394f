package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestMessages(t *testing.T) {
	u, out, errOut := newTestUI()
	u.Info("hello %s", "world")
	u.Success("done %d", 42)
	u.Warning("careful %s", "now")
	u.Error("failed %s", "badly")

	assert.Contains(t, out.String(), "hello world")
	assert.Contains(t, out.String(), "done 42")
	assert.Contains(t, errOut.String(), "careful now")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestVerboseLog(t *testing.T) {
	u, out, _ := newTestUI()
	u.VerboseLog("detail %d", 1)
	assert.Empty(t, out.String())

	u.Verbose = true
	u.VerboseLog("detail %d", 1)
	assert.Contains(t, out.String(), "detail 1")
}

func TestTable(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"Habit", "Folder"})
	require.NoError(t, table.Append([]string{"Read", "Learning"}))
	require.NoError(t, table.Render())

	s := out.String()
	assert.Contains(t, strings.ToUpper(s), "HABIT")
	assert.Contains(t, s, "Read")
	assert.Contains(t, s, "Learning")
}

func TestBar(t *testing.T) {
	tests := []struct {
		fraction float64
		width    int
		filled   int
	}{
		{0, 10, 0},
		{0.5, 10, 5},
		{1, 10, 10},
		{1.5, 10, 10},
		{-1, 10, 0},
		{0.5, 0, 0},
	}
	for _, tt := range tests {
		bar := Bar(tt.fraction, tt.width)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "fraction %v", tt.fraction)
		assert.Equal(t, tt.width, len([]rune(bar)))
	}
}

func TestClock(t *testing.T) {
	assert.Equal(t, "25:00", Clock(1500))
	assert.Equal(t, "00:09", Clock(9))
	assert.Equal(t, "1:01:05", Clock(3665))
	assert.Equal(t, "00:00", Clock(-3))
}

func TestColorHelpers(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	assert.Equal(t, "running", StateColor("running"))
	assert.Equal(t, "[ ]", DoneMark(false))
	assert.Contains(t, DoneMark(true), "✓")
	assert.Equal(t, "7", StreakColor(7))
}
