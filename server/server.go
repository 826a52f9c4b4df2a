package server

import (
	"github.com/xxxsen/common/webapi"
	"github.com/xxxsen/common/webapi/auth"
	"github.com/xxxsen/common/webapi/middleware"
	"github.com/xxxsen/common/webapi/proxyutil"
	"github.com/xxxsen/wordparadise/server/handler/backup"
	"github.com/xxxsen/wordparadise/server/handler/words"
	"github.com/xxxsen/wordparadise/server/model"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type Server struct {
	c      *config
	engine webapi.IWebEngine
}

func New(bind string, opts ...Option) (*Server, error) {
	c := applyOpts(opts...)
	svr := &Server{c: c}
	var err error
	svr.engine, err = webapi.NewEngine("/", bind, webapi.WithAuth(auth.MapUserMatch(c.userMap)), webapi.WithRegister(svr.initAPI))
	if err != nil {
		return nil, err
	}
	return svr, nil
}

func (s *Server) initAPI(router *gin.RouterGroup) {
	mustAuthMiddleware := middleware.MustAuthMiddleware()

	apiRouter := router.Group("/api", mustAuthMiddleware)

	backupHandler := backup.NewBackupHandler(s.c.mgr)
	settingRouter := apiRouter.Group("/settings")
	{
		settingRouter.GET("", backupHandler.GetSettings)
		settingRouter.POST("/save", proxyutil.WrapBizFunc(backupHandler.SaveSettings, &model.SaveSettingsRequest{}))
	}
	backupRouter := apiRouter.Group("/backup")
	{
		backupRouter.POST("/test", backupHandler.Test)
		backupRouter.POST("/create", proxyutil.WrapBizFunc(backupHandler.Create, &model.CreateBackupRequest{}))
		backupRouter.GET("/list", backupHandler.List)
		backupRouter.POST("/select", proxyutil.WrapBizFunc(backupHandler.Select, &model.SelectBackupRequest{}))
		backupRouter.POST("/restore", proxyutil.WrapBizFunc(backupHandler.Restore, &model.RestoreBackupRequest{}))
		backupRouter.POST("/delete", proxyutil.WrapBizFunc(backupHandler.Delete, &model.DeleteBackupRequest{}))
	}
	wordsRouter := apiRouter.Group("/words")
	{
		wordsHandler := words.NewWordsHandler(s.c.store, s.c.mistakes)
		wordsRouter.GET("/mistakes", wordsHandler.ListMistakes)
		wordsRouter.POST("/mistakes", proxyutil.WrapBizFunc(wordsHandler.AppendMistakes, &model.AppendMistakesRequest{}))
		wordsRouter.POST("/import", proxyutil.WrapBizFunc(wordsHandler.ImportWords, &model.ImportWordsRequest{}))
	}
}

func (s *Server) Run() error {
	return s.engine.Run()
}
