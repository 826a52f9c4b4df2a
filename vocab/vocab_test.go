package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddMistakesDedup(t *testing.T) {
	s := NewStore()
	cnt := s.AddMistakes(
		WordPair{English: "apple", Chinese: "苹果"},
		WordPair{English: "Apple", Chinese: "苹果"},
		WordPair{English: " apple ", Chinese: "苹果"},
		WordPair{English: "banana", Chinese: "香蕉"},
		WordPair{English: "   ", Chinese: "空"},
	)
	assert.Equal(t, 2, cnt)
	assert.Equal(t, []WordPair{
		{English: "apple", Chinese: "苹果"},
		{English: "banana", Chinese: "香蕉"},
	}, s.Mistakes())
	// 重复追加不生效
	assert.Equal(t, 0, s.AddMistakes(WordPair{English: "APPLE", Chinese: "苹果"}))
}

func TestReplaceMistakes(t *testing.T) {
	s := NewStore()
	s.AddMistakes(WordPair{English: "old", Chinese: "旧"})
	s.ReplaceMistakes([]WordPair{
		{English: "cat", Chinese: "猫"},
		{English: "cat", Chinese: "猫2"},
	})
	assert.Equal(t, []WordPair{{English: "cat", Chinese: "猫"}}, s.Mistakes())
	// 覆盖后旧词可重新追加
	assert.Equal(t, 1, s.AddMistakes(WordPair{English: "old", Chinese: "旧"}))
}

func TestWordSourceSyncable(t *testing.T) {
	assert.False(t, SourceBuiltin.Syncable())
	assert.False(t, SourceSelection.Syncable())
	assert.True(t, SourceImported.Syncable())
	assert.True(t, SourceCloud.Syncable())
}

func TestUserWordsIsolation(t *testing.T) {
	s := NewStore()
	assert.Equal(t, SourceBuiltin, s.Source())
	in := []WordPair{{English: "dog", Chinese: "狗"}}
	s.SetUserWords(in, SourceImported)
	words, src := s.UserWords()
	assert.Equal(t, SourceImported, src)
	assert.Equal(t, in, words)
	// 返回的是副本, 修改不影响内部状态
	words[0].English = "mutated"
	again, _ := s.UserWords()
	assert.Equal(t, "dog", again[0].English)
}

func TestWordKeyNormalize(t *testing.T) {
	assert.Equal(t, WordKey("apple"), WordKey(" Apple "))
	assert.NotEqual(t, WordKey("apple"), WordKey("banana"))
}
