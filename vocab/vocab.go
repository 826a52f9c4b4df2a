package vocab

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// WordSource 标记当前词表的来源, 只有文件导入/云端恢复的词表才允许参与备份
type WordSource string

const (
	SourceBuiltin   WordSource = "builtin"
	SourceSelection WordSource = "selection"
	SourceImported  WordSource = "imported-from-file"
	SourceCloud     WordSource = "restored-from-cloud"
)

func (s WordSource) Syncable() bool {
	return s == SourceImported || s == SourceCloud
}

type WordPair struct {
	English string `json:"english"`
	Chinese string `json:"chinese"`
}

// WordKey 生成稳定的去重key
func WordKey(english string) uint64 {
	return xxhash.Sum64String(strings.ToLower(strings.TrimSpace(english)))
}

type Store struct {
	mu       sync.RWMutex
	mistakes []WordPair
	index    map[uint64]struct{}
	words    []WordPair
	source   WordSource
}

func NewStore() *Store {
	return &Store{
		index:  make(map[uint64]struct{}),
		source: SourceBuiltin,
	}
}

// AddMistakes 追加错词, 按english去重, 返回实际新增数量
func (s *Store) AddMistakes(pairs ...WordPair) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cnt := 0
	for _, p := range pairs {
		if len(strings.TrimSpace(p.English)) == 0 {
			continue
		}
		key := WordKey(p.English)
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = struct{}{}
		s.mistakes = append(s.mistakes, p)
		cnt++
	}
	return cnt
}

func (s *Store) ReplaceMistakes(pairs []WordPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mistakes = make([]WordPair, 0, len(pairs))
	s.index = make(map[uint64]struct{}, len(pairs))
	for _, p := range pairs {
		key := WordKey(p.English)
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = struct{}{}
		s.mistakes = append(s.mistakes, p)
	}
}

func (s *Store) Mistakes() []WordPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs := make([]WordPair, len(s.mistakes))
	copy(rs, s.mistakes)
	return rs
}

func (s *Store) SetUserWords(pairs []WordPair, src WordSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make([]WordPair, len(pairs))
	copy(s.words, pairs)
	s.source = src
}

func (s *Store) UserWords() ([]WordPair, WordSource) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs := make([]WordPair, len(s.words))
	copy(rs, s.words)
	return rs, s.source
}

func (s *Store) Source() WordSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
