package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secretsanta/internal/services"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const families = `Kid 1,1,email1@test.com,Lego
Kid 2,1,email1@test.com,Books
Kid 3,2,email2@test.com,Puzzles
Kid 4,2,email2@test.com,Socks
Kid 5,3,email3@test.com,Paint
Kid 6,3,email3@test.com,Games
`

func TestDrawCmd(t *testing.T) {
	path := writeRoster(t, families)

	first, err := run(t, "draw", path, "--seed", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(first), "\n")
	require.Len(t, lines, 6)
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, "Kid "+string(rune('1'+i))+" -> "), line)
	}

	second, err := run(t, "draw", path, "--seed", "5")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	dry, err := run(t, "draw", path, "--seed", "5", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(dry, "Subject: Secret Santa Assignment For Kid"))
}

func TestDrawCmd_Infeasible(t *testing.T) {
	path := writeRoster(t, "Kid 1,1,a\nKid 2,1,b\nKid 3,1,c\nKid 4,2,d\n")

	_, err := run(t, "draw", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInfeasible)
	assert.NotErrorIs(t, err, services.ErrInvariantViolation)
}

func TestDrawCmd_NoRoster(t *testing.T) {
	_, err := run(t, "draw")
	assert.Error(t, err)
}

func TestSimulateCmd(t *testing.T) {
	path := writeRoster(t, families)

	out, err := run(t, "simulate", path, "-n", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "draws: 200")
	assert.Contains(t, out, "eligible pairs: 24")
}
