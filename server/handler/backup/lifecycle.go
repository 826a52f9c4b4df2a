package backup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xxxsen/wordparadise/backup"
	"github.com/xxxsen/wordparadise/server/model"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

func (h *BackupHandler) Test(c *gin.Context) {
	ctx := c.Request.Context()
	rs, err := h.mgr.TestConnection(ctx)
	if err != nil {
		proxyutil.FailJson(c, bizErrStatus(err), fmt.Errorf("test connection fail, err:%w", err))
		return
	}
	proxyutil.SuccessJson(c, rs)
}

func (h *BackupHandler) Create(c *gin.Context, ctx context.Context, request interface{}) {
	req := request.(*model.CreateBackupRequest)
	rs, err := h.mgr.Create(ctx, &backup.CreateRequest{
		SyncMistakeBook: req.SyncMistakeBook,
		SyncUserWords:   req.SyncUserWords,
	})
	if err != nil {
		proxyutil.FailJson(c, bizErrStatus(err), fmt.Errorf("create backup fail, err:%w", err))
		return
	}
	proxyutil.SuccessJson(c, rs)
}

func (h *BackupHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.mgr.List(ctx)
	if err != nil {
		proxyutil.FailJson(c, bizErrStatus(err), fmt.Errorf("list backup fail, err:%w", err))
		return
	}
	proxyutil.SuccessJson(c, items)
}

func (h *BackupHandler) Select(c *gin.Context, ctx context.Context, request interface{}) {
	req := request.(*model.SelectBackupRequest)
	if err := h.mgr.Select(req.Name); err != nil {
		proxyutil.FailJson(c, http.StatusBadRequest, fmt.Errorf("select backup fail, err:%w", err))
		return
	}
	proxyutil.SuccessJson(c, map[string]interface{}{})
}

func (h *BackupHandler) Restore(c *gin.Context, ctx context.Context, request interface{}) {
	req := request.(*model.RestoreBackupRequest)
	rs, err := h.mgr.Restore(ctx, &backup.RestoreRequest{
		ApplyMistakeBook: req.ApplyMistakeBook,
		ApplyUserWords:   req.ApplyUserWords,
		Confirm:          req.Confirm,
	})
	if err != nil {
		proxyutil.FailJson(c, bizErrStatus(err), fmt.Errorf("restore backup fail, err:%w", err))
		return
	}
	proxyutil.SuccessJson(c, rs)
}

func (h *BackupHandler) Delete(c *gin.Context, ctx context.Context, request interface{}) {
	req := request.(*model.DeleteBackupRequest)
	rs, err := h.mgr.Delete(ctx, &backup.DeleteRequest{Confirm: req.Confirm})
	if err != nil {
		proxyutil.FailJson(c, bizErrStatus(err), fmt.Errorf("delete backup fail, err:%w", err))
		return
	}
	proxyutil.SuccessJson(c, rs)
}
