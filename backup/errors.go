package backup

import "errors"

var (
	// ErrNothingToSync 两个同步开关都没有产出数据, 备份在发起网络请求前被拒绝
	ErrNothingToSync = errors.New("no data selected for backup")
	// ErrNoSelection 未选中任何备份文件
	ErrNoSelection = errors.New("no backup selected")
	// ErrConfirmRequired 破坏性操作需要显式确认
	ErrConfirmRequired = errors.New("confirm required for destructive operation")
)
