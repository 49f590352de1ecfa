package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `name,group,email,message
Kid 1,1,email1@test.com,Lego
Kid 2, 1 ,email1@test.com
Kid 3,2,email2@test.com,"Books, puzzles"
broken row
Kid 1,3,dup@test.com,Ignored
Kid 4,2,email2@test.com,Socks
`

func TestParse(t *testing.T) {
	people, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, people, 5)

	for i, p := range people {
		assert.Equal(t, i, p.Index)
		assert.Nil(t, p.Recipient)
	}
	assert.Equal(t, "Kid 1", people[0].Name)
	assert.Equal(t, "1", people[1].Group)
	assert.Empty(t, people[1].Message)
	assert.Equal(t, "Books, puzzles", people[2].Message)
	assert.Equal(t, "Kid 1", people[3].Name)
	assert.Equal(t, "3", people[3].Group)
	assert.Equal(t, "Kid 4", people[4].Name)
}

func TestParse_LineBreak(t *testing.T) {
	tests := []string{
		"\"Eve\nBcc: spy@evil.test\",1,eve@test.com\nKid 2,2,kid2@test.com\n",
		"Eve,\"1\r\nX\",eve@test.com\n",
		"Eve,1,\"eve@test.com\nBcc: spy@evil.test\"\n",
	}
	for _, content := range tests {
		_, err := Parse(strings.NewReader(content))
		assert.ErrorIs(t, err, ErrLineBreak, content)
	}

	// Messages only go into the body and may span lines.
	people, err := Parse(strings.NewReader("Eve,1,eve@test.com,\"Books\nand games\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "Books\nand games", people[0].Message)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader("name,group,email\n"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "roster.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

		people, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, people, 5)
	})

	t.Run("xlsx", func(t *testing.T) {
		path := filepath.Join(dir, "roster.xlsx")
		f := excelize.NewFile()
		rows := [][]interface{}{
			{"Name", "Group", "Email", "Message"},
			{"Kid 1", "1", "email1@test.com", "Lego"},
			{"Kid 2", "2", "email2@test.com"},
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		people, err := Load(path)
		require.NoError(t, err)
		require.Len(t, people, 2)
		assert.Equal(t, "Lego", people[0].Message)
		assert.Equal(t, "2", people[1].Group)
		assert.Equal(t, 1, people[1].Index)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "roster.json"))
		assert.Error(t, err)
	})
}
