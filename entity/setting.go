package entity

// WebdavSettings 为云备份的目标服务配置, 持久化在本地db中, 仅在用户显式保存时变更
type WebdavSettings struct {
	BaseURL        string `json:"base_url"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	RemoteBasePath string `json:"remote_base_path"`
}

type SettingItem struct {
	Id    uint64 `json:"id"`
	Key   string `json:"setting_key"`
	Value string `json:"setting_value"`
	Ctime int64  `json:"ctime"`
	Mtime int64  `json:"mtime"`
}

type GetSettingRequest struct {
	Key string
}

type GetSettingResponse struct {
	Item *SettingItem
}

type SetSettingRequest struct {
	Key   string
	Value string
}

type SetSettingResponse struct {
}
