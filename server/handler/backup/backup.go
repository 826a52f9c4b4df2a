package backup

import (
	"errors"
	"net/http"

	"github.com/xxxsen/wordparadise/backup"
	"github.com/xxxsen/wordparadise/davclient"
)

type BackupHandler struct {
	mgr backup.IManager
}

func NewBackupHandler(mgr backup.IManager) *BackupHandler {
	return &BackupHandler{mgr: mgr}
}

// bizErrStatus 将业务错误换算为http状态码, 用户侧可修复的错误统一给400
func bizErrStatus(err error) int {
	switch {
	case errors.Is(err, backup.ErrNothingToSync),
		errors.Is(err, backup.ErrNoSelection),
		errors.Is(err, backup.ErrConfirmRequired):
		return http.StatusBadRequest
	}
	if _, ok := davclient.AsTransportError(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
