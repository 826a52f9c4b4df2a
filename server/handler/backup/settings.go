package backup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xxxsen/wordparadise/entity"
	"github.com/xxxsen/wordparadise/server/model"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

func (h *BackupHandler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.mgr.Settings(ctx)
	if err != nil {
		proxyutil.FailJson(c, http.StatusInternalServerError, fmt.Errorf("read settings fail, err:%w", err))
		return
	}
	// 密码不回传, 只告知是否已配置
	proxyutil.SuccessJson(c, &model.GetSettingsResponse{
		BaseURL:        st.BaseURL,
		Username:       st.Username,
		PasswordSet:    len(st.Password) > 0,
		RemoteBasePath: st.RemoteBasePath,
	})
}

func (h *BackupHandler) SaveSettings(c *gin.Context, ctx context.Context, request interface{}) {
	req := request.(*model.SaveSettingsRequest)
	st := &entity.WebdavSettings{
		BaseURL:        req.BaseURL,
		Username:       req.Username,
		Password:       req.Password,
		RemoteBasePath: req.RemoteBasePath,
	}
	// 密码留空表示沿用已保存的密码
	if len(st.Password) == 0 {
		old, err := h.mgr.Settings(ctx)
		if err != nil {
			proxyutil.FailJson(c, http.StatusInternalServerError, fmt.Errorf("read old settings fail, err:%w", err))
			return
		}
		st.Password = old.Password
	}
	if err := h.mgr.SaveSettings(ctx, st); err != nil {
		proxyutil.FailJson(c, http.StatusBadRequest, fmt.Errorf("save settings fail, err:%w", err))
		return
	}
	proxyutil.SuccessJson(c, map[string]interface{}{})
}
