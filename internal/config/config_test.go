package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/confbot/boardbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCellMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cellmap.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCellMap(t *testing.T) {
	path := writeTempCellMap(t, `{
		"plenary":    {"now": "Board!B2", "next": "Board!C2"},
		"workshop-a": {"now": "Board!B3", "next": "Board!C3"}
	}`)

	cellMap, err := LoadCellMap(path)
	require.NoError(t, err)

	cellRange, ok := cellMap.Resolve("plenary", models.SlotNow)
	assert.True(t, ok)
	assert.Equal(t, "Board!B2", cellRange)

	cellRange, ok = cellMap.Resolve("workshop-a", models.SlotNext)
	assert.True(t, ok)
	assert.Equal(t, "Board!C3", cellRange)

	assert.Len(t, cellMap.Ranges(), 4)
}

func TestLoadCellMapUnknownSlot(t *testing.T) {
	path := writeTempCellMap(t, `{"plenary": {"later": "Board!D2"}}`)

	_, err := LoadCellMap(path)
	assert.ErrorContains(t, err, "unknown slot")
}

func TestLoadCellMapEmptyRange(t *testing.T) {
	path := writeTempCellMap(t, `{"plenary": {"now": ""}}`)

	_, err := LoadCellMap(path)
	assert.ErrorContains(t, err, "empty range")
}

func TestLoadCellMapMissingFile(t *testing.T) {
	_, err := LoadCellMap(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
