package backup

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

const defaultBackupBasename = "word_paradise_progress"

var backupNamePattern = regexp.MustCompile(`^word_paradise_progress_.*\.json$`)

// BuildBackupName 文件名内嵌iso时间戳, 冒号和点替换为连字符,
// 这样文件名的字典序即时间序
func BuildBackupName(t time.Time) string {
	ts := t.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return defaultBackupBasename + "_" + ts + ".json"
}

func MatchBackupName(name string) bool {
	return backupNamePattern.MatchString(name)
}

// sortBackupItems 按文件名降序, 即最新备份在前
func sortBackupItems(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name > items[j].Name
	})
}
