package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xxxsen/wordparadise/vocab"
)

// 字段名与浏览器端历史备份保持一致, 不可改动
type SyncOptions struct {
	MistakeBookSynced bool `json:"mistakeBookSynced"`
	UserWordsSynced   bool `json:"userWordsSynced"`
}

type Payload struct {
	SyncedAt    string           `json:"syncedAt"`
	Options     SyncOptions      `json:"options"`
	MistakeBook []vocab.WordPair `json:"mistakeBook,omitempty"`
	UserWords   []vocab.WordPair `json:"userWords,omitempty"`
}

func (p *Payload) Encode() ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload failed, err:%w", err)
	}
	return raw, nil
}

func DecodePayload(raw []byte) (*Payload, error) {
	p := &Payload{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode payload failed, err:%w", err)
	}
	return p, nil
}

// buildPayload 按开关采集数据, 开关打开但无数据可采则对应类别直接不写入,
// 词表只有文件导入/云端恢复来源才允许参与备份
func buildPayload(store *vocab.Store, syncMistakes bool, syncWords bool, now time.Time) (*Payload, []string, error) {
	p := &Payload{
		SyncedAt: now.UTC().Format(time.RFC3339),
	}
	var warnings []string
	if syncMistakes {
		if mistakes := store.Mistakes(); len(mistakes) > 0 {
			p.MistakeBook = mistakes
			p.Options.MistakeBookSynced = true
		} else {
			warnings = append(warnings, "错词本为空, 本次未包含错词数据")
		}
	}
	if syncWords {
		words, src := store.UserWords()
		switch {
		case !src.Syncable():
			warnings = append(warnings, fmt.Sprintf("当前词表来源(%s)不支持备份, 已忽略词表数据", src))
		case len(words) == 0:
			warnings = append(warnings, "词表为空, 本次未包含词表数据")
		default:
			p.UserWords = words
			p.Options.UserWordsSynced = true
		}
	}
	if !p.Options.MistakeBookSynced && !p.Options.UserWordsSynced {
		return nil, warnings, ErrNothingToSync
	}
	return p, warnings, nil
}
