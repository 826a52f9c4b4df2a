package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/wordparadise/davclient"
	"github.com/xxxsen/wordparadise/entity"
	"github.com/xxxsen/wordparadise/vocab"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	settingKeyWebdav = "webdav_settings"

	defaultPayloadCacheSize = 4 * 1024 * 1024
)

// 操作类别, 同类操作并发时合并到一次执行, 避免ui未禁用按钮导致的重复在途请求
const (
	opTest    = "test"
	opCreate  = "create"
	opList    = "list"
	opRestore = "restore"
	opDelete  = "delete"
)

type Item struct {
	Name         string `json:"name"`
	SizeBytes    int64  `json:"size_bytes"`
	LastModified string `json:"last_modified"`
}

type TestResult struct {
	OK       bool    `json:"ok"`
	Category string  `json:"category,omitempty"`
	Guidance string  `json:"guidance,omitempty"`
	Message  string  `json:"message,omitempty"`
	Backups  []*Item `json:"backups,omitempty"`
}

type CreateRequest struct {
	SyncMistakeBook bool `json:"sync_mistake_book"`
	SyncUserWords   bool `json:"sync_user_words"`
}

type CreateResult struct {
	Name     string   `json:"name"`
	Size     int64    `json:"size"`
	Warnings []string `json:"warnings,omitempty"`
	Backups  []*Item  `json:"backups"`
}

type RestoreRequest struct {
	ApplyMistakeBook bool `json:"apply_mistake_book"`
	ApplyUserWords   bool `json:"apply_user_words"`
	Confirm          bool `json:"confirm"`
}

type RestoreResult struct {
	Name            string   `json:"name"`
	MistakesApplied bool     `json:"mistakes_applied"`
	WordsApplied    bool     `json:"words_applied"`
	Notes           []string `json:"notes,omitempty"`
}

type DeleteRequest struct {
	Confirm bool `json:"confirm"`
}

type DeleteResult struct {
	Name        string  `json:"name"`
	AlreadyGone bool    `json:"already_gone"`
	Backups     []*Item `json:"backups"`
}

type IManager interface {
	TestConnection(ctx context.Context) (*TestResult, error)
	Create(ctx context.Context, req *CreateRequest) (*CreateResult, error)
	List(ctx context.Context) ([]*Item, error)
	Select(name string) error
	Selected() string
	Restore(ctx context.Context, req *RestoreRequest) (*RestoreResult, error)
	Delete(ctx context.Context, req *DeleteRequest) (*DeleteResult, error)
	Settings(ctx context.Context) (*entity.WebdavSettings, error)
	SaveSettings(ctx context.Context, st *entity.WebdavSettings) error
}

type manager struct {
	c  *config
	sf singleflight.Group

	mu       sync.Mutex
	selected string

	// 最近下载过的备份内容, 按字节数计费, 重复恢复同一份备份不再回源
	payloads *ristretto.Cache[string, []byte]
}

func New(opts ...Option) (IManager, error) {
	c := applyOpts(opts...)
	if c.settings == nil {
		return nil, fmt.Errorf("no setting dao found")
	}
	if c.store == nil {
		return nil, fmt.Errorf("no vocab store found")
	}
	cc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1024,
		MaxCost:     c.cacheSize,
		BufferItems: 64,
		Cost: func(value []byte) int64 {
			return int64(len(value))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payload cache failed, err:%w", err)
	}
	return &manager{c: c, payloads: cc}, nil
}

func (m *manager) opLogger(ctx context.Context, op string) *zap.Logger {
	return logutil.GetLogger(ctx).With(zap.String("op", op), zap.String("opid", uuid.NewString()))
}

func (m *manager) Settings(ctx context.Context) (*entity.WebdavSettings, error) {
	rsp, ok, err := m.c.settings.GetSetting(ctx, &entity.GetSettingRequest{Key: settingKeyWebdav})
	if err != nil {
		return nil, fmt.Errorf("read webdav settings failed, err:%w", err)
	}
	if !ok {
		return &entity.WebdavSettings{}, nil
	}
	st := &entity.WebdavSettings{}
	if err := json.Unmarshal([]byte(rsp.Item.Value), st); err != nil {
		return nil, fmt.Errorf("decode webdav settings failed, err:%w", err)
	}
	st.RemoteBasePath = strings.Trim(st.RemoteBasePath, "/")
	return st, nil
}

func (m *manager) SaveSettings(ctx context.Context, st *entity.WebdavSettings) error {
	if len(st.BaseURL) > 0 {
		u, err := url.Parse(st.BaseURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid base url, url:%s", st.BaseURL)
		}
	}
	st.RemoteBasePath = strings.Trim(st.RemoteBasePath, "/")
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode webdav settings failed, err:%w", err)
	}
	if _, err := m.c.settings.SetSetting(ctx, &entity.SetSettingRequest{Key: settingKeyWebdav, Value: string(raw)}); err != nil {
		return fmt.Errorf("persist webdav settings failed, err:%w", err)
	}
	// 设置变更后, 之前选中的备份不再可信, 缓存的下载内容也可能来自旧服务端
	m.setSelected("")
	m.payloads.Clear()
	return nil
}

func (m *manager) setSelected(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = name
}

func (m *manager) Selected() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

func (m *manager) Select(name string) error {
	if !MatchBackupName(name) {
		return fmt.Errorf("not a backup file, name:%s", name)
	}
	m.setSelected(name)
	return nil
}

func (m *manager) buildClient(ctx context.Context) (davclient.IClient, *entity.WebdavSettings, error) {
	st, err := m.Settings(ctx)
	if err != nil {
		return nil, nil, err
	}
	cli, err := m.c.clientBuilder(st)
	if err != nil {
		return nil, nil, err
	}
	return cli, st, nil
}

func (m *manager) remotePath(st *entity.WebdavSettings, name string) string {
	if len(st.RemoteBasePath) == 0 {
		return name
	}
	if len(name) == 0 {
		return st.RemoteBasePath
	}
	return st.RemoteBasePath + "/" + name
}

func (m *manager) TestConnection(ctx context.Context) (*TestResult, error) {
	v, err, _ := m.sf.Do(opTest, func() (interface{}, error) {
		return m.doTestConnection(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*TestResult), nil
}

func (m *manager) doTestConnection(ctx context.Context) (*TestResult, error) {
	logger := m.opLogger(ctx, "test_connection")
	cli, st, err := m.buildClient(ctx)
	if err == nil {
		_, err = cli.List(ctx, m.remotePath(st, ""))
	}
	if err != nil {
		category, guidance := classifyConnError(err)
		logger.Error("test connection failed", zap.String("category", category), zap.Error(err))
		return &TestResult{
			OK:       false,
			Category: category,
			Guidance: guidance,
			Message:  err.Error(),
		}, nil
	}
	items, err := m.refreshList(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("test connection succ", zap.Int("backup_count", len(items)))
	return &TestResult{OK: true, Backups: items}, nil
}

// classifyConnError 仅用于展示引导文案, 不携带任何重试逻辑
func classifyConnError(err error) (string, string) {
	if te, ok := davclient.AsTransportError(err); ok {
		switch te.Status {
		case 0:
			return "network", "请求未能完成, 请检查地址拼写/网络连通性/证书, 浏览器环境下多为跨域(CORS)未放行"
		case http.StatusUnauthorized:
			return "auth", "认证失败, 请检查用户名与密码"
		case http.StatusForbidden:
			return "forbidden", "服务端拒绝访问, 请确认账号对该目录有权限"
		case http.StatusNotFound:
			return "not-found", "远端路径不存在, 请检查服务地址与备份目录配置"
		}
		return "server", "服务端返回异常状态, 详情见错误信息"
	}
	return "config", "配置不完整, 请先填写服务地址"
}

func (m *manager) Create(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	v, err, _ := m.sf.Do(opCreate, func() (interface{}, error) {
		return m.doCreate(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*CreateResult), nil
}

func (m *manager) doCreate(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	logger := m.opLogger(ctx, "create_backup")
	// 同一时刻同时用于payload时间戳与文件名, 两者保持一致
	now := time.Now()
	// 先产出payload, 没有可同步的数据时不发起任何网络请求
	payload, warnings, err := buildPayload(m.c.store, req.SyncMistakeBook, req.SyncUserWords, now)
	if err != nil {
		return nil, err
	}
	raw, err := payload.Encode()
	if err != nil {
		return nil, err
	}
	cli, st, err := m.buildClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := cli.EnsureDir(ctx, st.RemoteBasePath); err != nil {
		return nil, fmt.Errorf("ensure remote dir failed, dir:%s, err:%w", st.RemoteBasePath, err)
	}
	name := BuildBackupName(now)
	if err := cli.Upload(ctx, m.remotePath(st, name), raw, "application/json"); err != nil {
		return nil, fmt.Errorf("upload backup failed, name:%s, err:%w", name, err)
	}
	logger.Info("upload backup succ", zap.String("name", name),
		zap.String("size", humanize.IBytes(uint64(len(raw)))), zap.Strings("warnings", warnings))
	items, err := m.refreshList(ctx)
	if err != nil {
		// 上传已经成功, 列表刷新失败不回滚, 如实返回
		return nil, fmt.Errorf("backup uploaded but list refresh failed, err:%w", err)
	}
	return &CreateResult{
		Name:     name,
		Size:     int64(len(raw)),
		Warnings: warnings,
		Backups:  items,
	}, nil
}

func (m *manager) List(ctx context.Context) ([]*Item, error) {
	v, err, _ := m.sf.Do(opList, func() (interface{}, error) {
		return m.refreshList(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Item), nil
}

func (m *manager) refreshList(ctx context.Context) ([]*Item, error) {
	cli, st, err := m.buildClient(ctx)
	if err != nil {
		return nil, err
	}
	ents, err := cli.List(ctx, m.remotePath(st, ""))
	if err != nil {
		return nil, fmt.Errorf("list remote dir failed, dir:%s, err:%w", st.RemoteBasePath, err)
	}
	items := make([]*Item, 0, len(ents))
	for _, ent := range ents {
		if ent.IsDir || !MatchBackupName(ent.Name) {
			continue
		}
		items = append(items, &Item{
			Name:         ent.Name,
			SizeBytes:    ent.SizeBytes,
			LastModified: ent.LastModified,
		})
	}
	sortBackupItems(items)
	// 列表刷新后之前的选中行可能已不存在
	m.setSelected("")
	return items, nil
}

func (m *manager) Restore(ctx context.Context, req *RestoreRequest) (*RestoreResult, error) {
	v, err, _ := m.sf.Do(opRestore, func() (interface{}, error) {
		return m.doRestore(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RestoreResult), nil
}

func (m *manager) doRestore(ctx context.Context, req *RestoreRequest) (*RestoreResult, error) {
	logger := m.opLogger(ctx, "restore_backup")
	if !req.Confirm {
		return nil, ErrConfirmRequired
	}
	name := m.Selected()
	if len(name) == 0 {
		return nil, ErrNoSelection
	}
	raw, err := m.downloadPayload(ctx, name)
	if err != nil {
		return nil, err
	}
	payload, err := DecodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backup failed, name:%s, err:%w", name, err)
	}
	rs := &RestoreResult{Name: name}
	if req.ApplyMistakeBook {
		if len(payload.MistakeBook) > 0 {
			if err := m.applyMistakes(ctx, payload.MistakeBook); err != nil {
				return nil, err
			}
			rs.MistakesApplied = true
		} else {
			rs.Notes = append(rs.Notes, "该备份不包含错词本数据, 本地错词本保持不变")
		}
	}
	if req.ApplyUserWords {
		if len(payload.UserWords) > 0 {
			m.c.store.SetUserWords(payload.UserWords, vocab.SourceCloud)
			rs.WordsApplied = true
		} else {
			rs.Notes = append(rs.Notes, "该备份不包含词表数据, 本地词表保持不变")
		}
	}
	logger.Info("restore backup succ", zap.String("name", name),
		zap.Bool("mistakes_applied", rs.MistakesApplied), zap.Bool("words_applied", rs.WordsApplied))
	return rs, nil
}

func (m *manager) applyMistakes(ctx context.Context, pairs []vocab.WordPair) error {
	m.c.store.ReplaceMistakes(pairs)
	if m.c.mistakes == nil {
		return nil
	}
	items := make([]*entity.MistakeItem, 0, len(pairs))
	for _, p := range pairs {
		items = append(items, &entity.MistakeItem{
			WordHash: int64(vocab.WordKey(p.English)),
			English:  p.English,
			Chinese:  p.Chinese,
		})
	}
	if _, err := m.c.mistakes.SaveMistakes(ctx, &entity.SaveMistakeRequest{List: items}); err != nil {
		return fmt.Errorf("persist restored mistakes failed, err:%w", err)
	}
	return nil
}

func (m *manager) downloadPayload(ctx context.Context, name string) ([]byte, error) {
	if raw, ok := m.payloads.Get(name); ok {
		return raw, nil
	}
	cli, st, err := m.buildClient(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := cli.Download(ctx, m.remotePath(st, name))
	if err != nil {
		return nil, fmt.Errorf("download backup failed, name:%s, err:%w", name, err)
	}
	// ristretto的写入是异步的, wait一下保证同会话内重复恢复能命中
	_ = m.payloads.Set(name, raw, int64(len(raw)))
	m.payloads.Wait()
	return raw, nil
}

func (m *manager) Delete(ctx context.Context, req *DeleteRequest) (*DeleteResult, error) {
	v, err, _ := m.sf.Do(opDelete, func() (interface{}, error) {
		return m.doDelete(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return v.(*DeleteResult), nil
}

func (m *manager) doDelete(ctx context.Context, req *DeleteRequest) (*DeleteResult, error) {
	logger := m.opLogger(ctx, "delete_backup")
	if !req.Confirm {
		return nil, ErrConfirmRequired
	}
	name := m.Selected()
	if len(name) == 0 {
		return nil, ErrNoSelection
	}
	cli, st, err := m.buildClient(ctx)
	if err != nil {
		return nil, err
	}
	rs := &DeleteResult{Name: name}
	if err := cli.Remove(ctx, m.remotePath(st, name)); err != nil {
		if !davclient.IsStatus(err, http.StatusNotFound) {
			// 删除失败时列表保持原样, 错误原样上抛
			return nil, fmt.Errorf("delete backup failed, name:%s, err:%w", name, err)
		}
		// 404视为已删除
		rs.AlreadyGone = true
	}
	m.payloads.Del(name)
	items, err := m.refreshList(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup deleted but list refresh failed, err:%w", err)
	}
	rs.Backups = items
	logger.Info("delete backup succ", zap.String("name", name), zap.Bool("already_gone", rs.AlreadyGone))
	return rs, nil
}
