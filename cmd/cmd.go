package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/xxxsen/wordparadise/backup"
	"github.com/xxxsen/wordparadise/config"
	"github.com/xxxsen/wordparadise/dao"
	daocache "github.com/xxxsen/wordparadise/dao/cache"
	"github.com/xxxsen/wordparadise/db"
	"github.com/xxxsen/wordparadise/entity"
	"github.com/xxxsen/wordparadise/server"
	"github.com/xxxsen/wordparadise/vocab"

	"github.com/xxxsen/common/logger"
	"go.uber.org/zap"
)

var file = flag.String("config", "./config.json", "config file path")

func main() {
	flag.Parse()

	c, err := config.Parse(*file)
	if err != nil {
		panic(err)
	}
	logitem := c.LogInfo
	logger := logger.Init(logitem.File, logitem.Level, int(logitem.FileCount), int(logitem.FileSize), int(logitem.KeepDays), logitem.Console)
	logger.Info("recv config", zap.String("bind", c.Bind), zap.String("db_file", c.DBFile))
	if err := db.InitDB(c.DBFile); err != nil {
		logger.Fatal("init db fail", zap.Error(err))
	}
	settingDao := daocache.NewSettingDao(dao.NewSettingDao(db.GetClient()))
	mistakeDao := dao.NewMistakeDao(db.GetClient())
	store := vocab.NewStore()
	ctx := context.Background()
	cnt, err := loadMistakes(ctx, mistakeDao, store)
	if err != nil {
		logger.Fatal("load mistake book fail", zap.Error(err))
	}
	logger.Info("load mistake book succ", zap.Int("count", cnt))
	mgr, err := backup.New(
		backup.WithSettingDao(settingDao),
		backup.WithMistakeDao(mistakeDao),
		backup.WithStore(store),
	)
	if err != nil {
		logger.Fatal("init backup manager fail", zap.Error(err))
	}
	if err := seedWebdavSettings(ctx, mgr, c); err != nil {
		logger.Fatal("seed webdav settings fail", zap.Error(err))
	}
	svr, err := server.New(c.Bind,
		server.WithUser(c.UserInfo),
		server.WithManager(mgr),
		server.WithStore(store),
		server.WithMistakeDao(mistakeDao),
	)
	if err != nil {
		logger.Fatal("init server fail", zap.Error(err))
	}
	logger.Info("init server succ, start it...")
	if err := svr.Run(); err != nil {
		logger.Fatal("run server fail", zap.Error(err))
	}
}

func loadMistakes(ctx context.Context, d dao.IMistakeDao, store *vocab.Store) (int, error) {
	rsp, err := d.ListMistakes(ctx, &entity.ListMistakeRequest{})
	if err != nil {
		return 0, fmt.Errorf("list mistakes failed, err:%w", err)
	}
	pairs := make([]vocab.WordPair, 0, len(rsp.List))
	for _, item := range rsp.List {
		pairs = append(pairs, vocab.WordPair{English: item.English, Chinese: item.Chinese})
	}
	store.ReplaceMistakes(pairs)
	return len(pairs), nil
}

// seedWebdavSettings 首次启动时将配置文件中的webdav信息写入库, 库内已有配置则不覆盖
func seedWebdavSettings(ctx context.Context, mgr backup.IManager, c *config.Config) error {
	if len(c.Webdav.BaseURL) == 0 {
		return nil
	}
	st, err := mgr.Settings(ctx)
	if err != nil {
		return err
	}
	if len(st.BaseURL) > 0 {
		return nil
	}
	return mgr.SaveSettings(ctx, &entity.WebdavSettings{
		BaseURL:        c.Webdav.BaseURL,
		Username:       c.Webdav.Username,
		Password:       c.Webdav.Password,
		RemoteBasePath: c.Webdav.RemoteBasePath,
	})
}
