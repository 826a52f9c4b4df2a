package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildBackupName(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 678000000, time.UTC)
	name := BuildBackupName(ts)
	assert.Equal(t, "word_paradise_progress_2024-01-02T03-04-05-678Z.json", name)
	assert.True(t, MatchBackupName(name))
}

func TestMatchBackupName(t *testing.T) {
	assert.True(t, MatchBackupName("word_paradise_progress_2024-06-01T00-00-00-000Z.json"))
	assert.False(t, MatchBackupName("notes.txt"))
	assert.False(t, MatchBackupName("word_paradise_progress_x.txt"))
	assert.False(t, MatchBackupName("other_progress_2024.json"))
	assert.False(t, MatchBackupName("xword_paradise_progress_2024.json"))
}

func TestSortNewestFirst(t *testing.T) {
	items := []*Item{
		{Name: "word_paradise_progress_2024-01-01T00-00-00-000Z.json"},
		{Name: "word_paradise_progress_2024-06-01T00-00-00-000Z.json"},
		{Name: "word_paradise_progress_2023-12-31T23-59-59-999Z.json"},
	}
	sortBackupItems(items)
	assert.Equal(t, "word_paradise_progress_2024-06-01T00-00-00-000Z.json", items[0].Name)
	assert.Equal(t, "word_paradise_progress_2024-01-01T00-00-00-000Z.json", items[1].Name)
	assert.Equal(t, "word_paradise_progress_2023-12-31T23-59-59-999Z.json", items[2].Name)
}
