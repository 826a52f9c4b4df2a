package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/wordparadise/dao"
	"github.com/xxxsen/wordparadise/entity"
)

const (
	defaultMaxSettingCacheSize    = 64
	defaultSettingCacheExpireTime = 10 * time.Minute
)

// settingDao 在设置dao前加一层读缓存, 写入时失效, 读路径避免每次备份操作都打db
type settingDao struct {
	dao.ISettingDao
	cache *lru.LRU[string, *entity.SettingItem]
}

func NewSettingDao(impl dao.ISettingDao) dao.ISettingDao {
	return &settingDao{
		ISettingDao: impl,
		cache:       lru.NewLRU[string, *entity.SettingItem](defaultMaxSettingCacheSize, nil, defaultSettingCacheExpireTime),
	}
}

func (s *settingDao) GetSetting(ctx context.Context, req *entity.GetSettingRequest) (*entity.GetSettingResponse, bool, error) {
	if item, ok := s.cache.Get(req.Key); ok {
		return &entity.GetSettingResponse{Item: item}, true, nil
	}
	rsp, ok, err := s.ISettingDao.GetSetting(ctx, req)
	if err != nil || !ok {
		return rsp, ok, err
	}
	_ = s.cache.Add(req.Key, rsp.Item)
	return rsp, true, nil
}

func (s *settingDao) SetSetting(ctx context.Context, req *entity.SetSettingRequest) (*entity.SetSettingResponse, error) {
	defer s.cache.Remove(req.Key)
	return s.ISettingDao.SetSetting(ctx, req)
}
