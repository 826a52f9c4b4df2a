package dao

import (
	"context"
	"time"

	"github.com/xxxsen/wordparadise/entity"

	"github.com/didi/gendry/builder"
	"github.com/xxxsen/common/database"
	"github.com/xxxsen/common/database/dbkit"
)

type ISettingDao interface {
	GetSetting(ctx context.Context, req *entity.GetSettingRequest) (*entity.GetSettingResponse, bool, error)
	SetSetting(ctx context.Context, req *entity.SetSettingRequest) (*entity.SetSettingResponse, error)
}

type settingDaoImpl struct {
	dbc database.IDatabase
}

func NewSettingDao(dbc database.IDatabase) ISettingDao {
	return &settingDaoImpl{dbc: dbc}
}

func (s *settingDaoImpl) table() string {
	return "wp_setting_tab"
}

func (s *settingDaoImpl) GetSetting(ctx context.Context, req *entity.GetSettingRequest) (*entity.GetSettingResponse, bool, error) {
	where := map[string]interface{}{
		"setting_key": req.Key,
		"_limit":      []uint{0, 1},
	}
	rs := make([]*entity.SettingItem, 0, 1)
	if err := dbkit.SimpleQuery(ctx, s.dbc, s.table(), where, &rs, dbkit.ScanWithTagName("json")); err != nil {
		return nil, false, err
	}
	if len(rs) == 0 {
		return nil, false, nil
	}
	return &entity.GetSettingResponse{Item: rs[0]}, true, nil
}

func (s *settingDaoImpl) SetSetting(ctx context.Context, req *entity.SetSettingRequest) (*entity.SetSettingResponse, error) {
	now := time.Now().UnixMilli()
	if err := s.dbc.OnTransation(ctx, func(ctx context.Context, qe database.IQueryExecer) error {
		where := map[string]interface{}{
			"setting_key": req.Key,
			"_limit":      []uint{0, 1},
		}
		rs := make([]*entity.SettingItem, 0, 1)
		if err := dbkit.SimpleQuery(ctx, qe, s.table(), where, &rs, dbkit.ScanWithTagName("json")); err != nil {
			return err
		}
		if len(rs) > 0 {
			sql, args, err := builder.BuildUpdate(s.table(), map[string]interface{}{
				"setting_key": req.Key,
			}, map[string]interface{}{
				"setting_value": req.Value,
				"mtime":         now,
			})
			if err != nil {
				return err
			}
			_, err = qe.ExecContext(ctx, sql, args...)
			return err
		}
		sql, args, err := builder.BuildInsert(s.table(), []map[string]interface{}{
			{
				"setting_key":   req.Key,
				"setting_value": req.Value,
				"ctime":         now,
				"mtime":         now,
			},
		})
		if err != nil {
			return err
		}
		_, err = qe.ExecContext(ctx, sql, args...)
		return err
	}); err != nil {
		return nil, err
	}
	return &entity.SetSettingResponse{}, nil
}
