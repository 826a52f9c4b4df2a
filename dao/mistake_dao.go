package dao

import (
	"context"
	"time"

	"github.com/xxxsen/wordparadise/entity"
	"github.com/xxxsen/wordparadise/vocab"

	"github.com/didi/gendry/builder"
	"github.com/xxxsen/common/database"
	"github.com/xxxsen/common/database/dbkit"
)

type IMistakeDao interface {
	ListMistakes(ctx context.Context, req *entity.ListMistakeRequest) (*entity.ListMistakeResponse, error)
	// SaveMistakes 整表覆盖, 保持传入顺序, 同hash只保留先出现的
	SaveMistakes(ctx context.Context, req *entity.SaveMistakeRequest) (*entity.SaveMistakeResponse, error)
	AppendMistakes(ctx context.Context, req *entity.SaveMistakeRequest) (*entity.SaveMistakeResponse, error)
}

type mistakeDaoImpl struct {
	dbc database.IDatabase
}

func NewMistakeDao(dbc database.IDatabase) IMistakeDao {
	return &mistakeDaoImpl{dbc: dbc}
}

func (m *mistakeDaoImpl) table() string {
	return "wp_mistake_tab"
}

func (m *mistakeDaoImpl) ListMistakes(ctx context.Context, req *entity.ListMistakeRequest) (*entity.ListMistakeResponse, error) {
	where := map[string]interface{}{
		"id >":     0,
		"_orderby": "id asc",
	}
	rs := make([]*entity.MistakeItem, 0, 64)
	if err := dbkit.SimpleQuery(ctx, m.dbc, m.table(), where, &rs, dbkit.ScanWithTagName("json")); err != nil {
		return nil, err
	}
	return &entity.ListMistakeResponse{List: rs}, nil
}

func (m *mistakeDaoImpl) SaveMistakes(ctx context.Context, req *entity.SaveMistakeRequest) (*entity.SaveMistakeResponse, error) {
	if err := m.dbc.OnTransation(ctx, func(ctx context.Context, qe database.IQueryExecer) error {
		sql, args, err := builder.BuildDelete(m.table(), map[string]interface{}{
			"id >": 0,
		})
		if err != nil {
			return err
		}
		if _, err := qe.ExecContext(ctx, sql, args...); err != nil {
			return err
		}
		return m.insertItems(ctx, qe, req.List)
	}); err != nil {
		return nil, err
	}
	return &entity.SaveMistakeResponse{}, nil
}

func (m *mistakeDaoImpl) AppendMistakes(ctx context.Context, req *entity.SaveMistakeRequest) (*entity.SaveMistakeResponse, error) {
	if err := m.dbc.OnTransation(ctx, func(ctx context.Context, qe database.IQueryExecer) error {
		return m.insertItems(ctx, qe, req.List)
	}); err != nil {
		return nil, err
	}
	return &entity.SaveMistakeResponse{}, nil
}

func (m *mistakeDaoImpl) insertItems(ctx context.Context, qe database.IQueryExecer, items []*entity.MistakeItem) error {
	now := time.Now().UnixMilli()
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		hash := item.WordHash
		if hash == 0 {
			// sql driver不接受高位为1的uint64, 统一按位转int64绑定
			hash = int64(vocab.WordKey(item.English))
		}
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		exist, err := m.isHashExist(ctx, qe, hash)
		if err != nil {
			return err
		}
		if exist {
			continue
		}
		sql, args, err := builder.BuildInsert(m.table(), []map[string]interface{}{
			{
				"word_hash": hash,
				"english":   item.English,
				"chinese":   item.Chinese,
				"ctime":     now,
			},
		})
		if err != nil {
			return err
		}
		if _, err := qe.ExecContext(ctx, sql, args...); err != nil {
			return err
		}
	}
	return nil
}

func (m *mistakeDaoImpl) isHashExist(ctx context.Context, q database.IQueryer, hash int64) (bool, error) {
	where := map[string]interface{}{
		"word_hash": hash,
		"_limit":    []uint{0, 1},
	}
	rs := make([]*entity.MistakeItem, 0, 1)
	if err := dbkit.SimpleQuery(ctx, q, m.table(), where, &rs, dbkit.ScanWithTagName("json")); err != nil {
		return false, err
	}
	return len(rs) > 0, nil
}
