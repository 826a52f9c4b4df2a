package entity

type MistakeItem struct {
	Id uint64 `json:"id"`
	// WordHash 为xxhash值按位转int64落库, 高位为1时表现为负数, 属预期
	WordHash int64  `json:"word_hash"`
	English  string `json:"english"`
	Chinese  string `json:"chinese"`
	Ctime    int64  `json:"ctime"`
}

type ListMistakeRequest struct {
}

type ListMistakeResponse struct {
	List []*MistakeItem
}

type SaveMistakeRequest struct {
	List []*MistakeItem
}

type SaveMistakeResponse struct {
}
