package model

type GetSettingsResponse struct {
	BaseURL        string `json:"base_url"`
	Username       string `json:"username"`
	PasswordSet    bool   `json:"password_set"`
	RemoteBasePath string `json:"remote_base_path"`
}

type SaveSettingsRequest struct {
	BaseURL        string `json:"base_url"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	RemoteBasePath string `json:"remote_base_path"`
}

type CreateBackupRequest struct {
	SyncMistakeBook bool `json:"sync_mistake_book"`
	SyncUserWords   bool `json:"sync_user_words"`
}

type SelectBackupRequest struct {
	Name string `json:"name" binding:"required"`
}

type RestoreBackupRequest struct {
	ApplyMistakeBook bool `json:"apply_mistake_book"`
	ApplyUserWords   bool `json:"apply_user_words"`
	Confirm          bool `json:"confirm"`
}

type DeleteBackupRequest struct {
	Confirm bool `json:"confirm"`
}

type WordItem struct {
	English string `json:"english" binding:"required"`
	Chinese string `json:"chinese"`
}

type ListMistakesResponse struct {
	List []*WordItem `json:"list"`
}

type AppendMistakesRequest struct {
	List []*WordItem `json:"list" binding:"required"`
}

type AppendMistakesResponse struct {
	Added int `json:"added"`
}

type ImportWordsRequest struct {
	List []*WordItem `json:"list" binding:"required"`
}

type ImportWordsResponse struct {
	Count int `json:"count"`
}
