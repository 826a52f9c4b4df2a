package backup

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xxxsen/wordparadise/davclient"
	"github.com/xxxsen/wordparadise/entity"
	"github.com/xxxsen/wordparadise/vocab"
)

type fakeDavClient struct {
	entries   []*davclient.RemoteEntry
	files     map[string][]byte
	ensured   []string
	uploads   []string
	removed   []string
	listErr   error
	removeErr error
}

func (f *fakeDavClient) Request(ctx context.Context, method string, path string, opts ...davclient.RequestOption) (*davclient.Response, error) {
	return nil, fmt.Errorf("raw request not used in tests")
}

func (f *fakeDavClient) Stat(ctx context.Context, path string) (*davclient.RemoteEntry, error) {
	return nil, fmt.Errorf("stat not used in tests")
}

func (f *fakeDavClient) List(ctx context.Context, dir string) ([]*davclient.RemoteEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func (f *fakeDavClient) EnsureDir(ctx context.Context, dir string) error {
	f.ensured = append(f.ensured, dir)
	return nil
}

func (f *fakeDavClient) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	f.uploads = append(f.uploads, path)
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[path] = data
	name := path[len("cloud/wp/"):]
	f.entries = append(f.entries, &davclient.RemoteEntry{Name: name, SizeBytes: int64(len(data))})
	return nil
}

func (f *fakeDavClient) Download(ctx context.Context, path string) ([]byte, error) {
	raw, ok := f.files[path]
	if !ok {
		return nil, &davclient.TransportError{Status: http.StatusNotFound, Method: http.MethodGet, URL: path, Message: "not found"}
	}
	return raw, nil
}

func (f *fakeDavClient) Remove(ctx context.Context, path string) error {
	f.removed = append(f.removed, path)
	return f.removeErr
}

type memSettingDao struct {
	data map[string]string
}

func (f *memSettingDao) GetSetting(ctx context.Context, req *entity.GetSettingRequest) (*entity.GetSettingResponse, bool, error) {
	v, ok := f.data[req.Key]
	if !ok {
		return nil, false, nil
	}
	return &entity.GetSettingResponse{Item: &entity.SettingItem{Key: req.Key, Value: v}}, true, nil
}

func (f *memSettingDao) SetSetting(ctx context.Context, req *entity.SetSettingRequest) (*entity.SetSettingResponse, error) {
	f.data[req.Key] = req.Value
	return &entity.SetSettingResponse{}, nil
}

type memMistakeDao struct {
	saved []*entity.MistakeItem
}

func (f *memMistakeDao) ListMistakes(ctx context.Context, req *entity.ListMistakeRequest) (*entity.ListMistakeResponse, error) {
	return &entity.ListMistakeResponse{List: f.saved}, nil
}

func (f *memMistakeDao) SaveMistakes(ctx context.Context, req *entity.SaveMistakeRequest) (*entity.SaveMistakeResponse, error) {
	f.saved = req.List
	return &entity.SaveMistakeResponse{}, nil
}

func (f *memMistakeDao) AppendMistakes(ctx context.Context, req *entity.SaveMistakeRequest) (*entity.SaveMistakeResponse, error) {
	f.saved = append(f.saved, req.List...)
	return &entity.SaveMistakeResponse{}, nil
}

type testEnv struct {
	m        IManager
	cli      *fakeDavClient
	store    *vocab.Store
	mistakes *memMistakeDao
	builds   int
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		cli:      &fakeDavClient{},
		store:    vocab.NewStore(),
		mistakes: &memMistakeDao{},
	}
	settings := &memSettingDao{data: map[string]string{
		settingKeyWebdav: `{"base_url":"http://dav.example.com/","username":"u","password":"p","remote_base_path":"cloud/wp"}`,
	}}
	m, err := New(
		WithSettingDao(settings),
		WithMistakeDao(env.mistakes),
		WithStore(env.store),
		WithClientBuilder(func(st *entity.WebdavSettings) (davclient.IClient, error) {
			env.builds++
			return env.cli, nil
		}),
	)
	assert.NoError(t, err)
	env.m = m
	return env
}

func TestCreateRefuseWithoutDataNoNetwork(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.m.Create(context.Background(), &CreateRequest{SyncMistakeBook: true, SyncUserWords: true})
	assert.ErrorIs(t, err, ErrNothingToSync)
	// 拒绝发生在任何网络调用之前, 客户端都不应该被构建
	assert.Equal(t, 0, env.builds)
	assert.Empty(t, env.cli.ensured)
	assert.Empty(t, env.cli.uploads)
}

func TestCreateFlow(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddMistakes(vocab.WordPair{English: "apple", Chinese: "苹果"})

	rs, err := env.m.Create(context.Background(), &CreateRequest{SyncMistakeBook: true})
	assert.NoError(t, err)
	assert.True(t, MatchBackupName(rs.Name))
	assert.Equal(t, []string{"cloud/wp"}, env.cli.ensured)
	assert.Len(t, env.cli.uploads, 1)
	assert.Equal(t, "cloud/wp/"+rs.Name, env.cli.uploads[0])
	assert.Len(t, rs.Backups, 1)
	// 上传完成后列表刷新, 选中态被清空
	assert.Equal(t, "", env.m.Selected())

	// 文件名内嵌时间戳与payload的syncedAt取自同一时刻
	payload, err := DecodePayload(env.cli.files[env.cli.uploads[0]])
	assert.NoError(t, err)
	syncedSec := strings.TrimSuffix(strings.NewReplacer(":", "-", ".", "-").Replace(payload.SyncedAt), "Z")
	assert.True(t, strings.HasPrefix(rs.Name, "word_paradise_progress_"+syncedSec))
}

func TestListFilterAndOrder(t *testing.T) {
	env := newTestEnv(t)
	env.cli.entries = []*davclient.RemoteEntry{
		{Name: "word_paradise_progress_2024-01-01T00-00-00-000Z.json", SizeBytes: 10},
		{Name: "notes.txt", SizeBytes: 1},
		{Name: "word_paradise_progress_2024-06-01T00-00-00-000Z.json", SizeBytes: 20},
		{Name: "word_paradise_progress_dir.json", IsDir: true},
	}
	items, err := env.m.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "word_paradise_progress_2024-06-01T00-00-00-000Z.json", items[0].Name)
	assert.Equal(t, "word_paradise_progress_2024-01-01T00-00-00-000Z.json", items[1].Name)
}

func TestSelectValidate(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.m.Select("notes.txt"))
	assert.NoError(t, env.m.Select("word_paradise_progress_2024-01-01T00-00-00-000Z.json"))
	assert.Equal(t, "word_paradise_progress_2024-01-01T00-00-00-000Z.json", env.m.Selected())
}

func TestRestoreGuards(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.m.Restore(context.Background(), &RestoreRequest{ApplyMistakeBook: true})
	assert.ErrorIs(t, err, ErrConfirmRequired)
	_, err = env.m.Restore(context.Background(), &RestoreRequest{ApplyMistakeBook: true, Confirm: true})
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestRestoreCategoryNoop(t *testing.T) {
	env := newTestEnv(t)
	name := "word_paradise_progress_2024-01-01T00-00-00-000Z.json"
	env.cli.files = map[string][]byte{
		"cloud/wp/" + name: []byte(`{"syncedAt":"2024-01-01T00:00:00Z","options":{"mistakeBookSynced":true,"userWordsSynced":false},"mistakeBook":[{"english":"apple","chinese":"苹果"}]}`),
	}
	env.store.SetUserWords([]vocab.WordPair{{English: "keep", Chinese: "保留"}}, vocab.SourceImported)
	assert.NoError(t, env.m.Select(name))

	rs, err := env.m.Restore(context.Background(), &RestoreRequest{ApplyUserWords: true, Confirm: true})
	assert.NoError(t, err)
	assert.False(t, rs.WordsApplied)
	assert.False(t, rs.MistakesApplied)
	assert.NotEmpty(t, rs.Notes)
	// 词表未被触碰
	words, src := env.store.UserWords()
	assert.Len(t, words, 1)
	assert.Equal(t, "keep", words[0].English)
	assert.Equal(t, vocab.SourceImported, src)
}

func TestRestoreApply(t *testing.T) {
	env := newTestEnv(t)
	name := "word_paradise_progress_2024-01-01T00-00-00-000Z.json"
	env.cli.files = map[string][]byte{
		"cloud/wp/" + name: []byte(`{"syncedAt":"2024-01-01T00:00:00Z","options":{"mistakeBookSynced":true,"userWordsSynced":true},"mistakeBook":[{"english":"apple","chinese":"苹果"}],"userWords":[{"english":"cat","chinese":"猫"}]}`),
	}
	assert.NoError(t, env.m.Select(name))

	rs, err := env.m.Restore(context.Background(), &RestoreRequest{ApplyMistakeBook: true, ApplyUserWords: true, Confirm: true})
	assert.NoError(t, err)
	assert.True(t, rs.MistakesApplied)
	assert.True(t, rs.WordsApplied)
	assert.Equal(t, []vocab.WordPair{{English: "apple", Chinese: "苹果"}}, env.store.Mistakes())
	words, src := env.store.UserWords()
	assert.Len(t, words, 1)
	// 恢复词表后来源标记为云端, 后续备份可以再次包含词表
	assert.Equal(t, vocab.SourceCloud, src)
	assert.True(t, src.Syncable())
	// 错词本落库
	assert.Len(t, env.mistakes.saved, 1)
	assert.Equal(t, "apple", env.mistakes.saved[0].English)
}

func TestSaveSettingsFlushPayloadCache(t *testing.T) {
	env := newTestEnv(t)
	name := "word_paradise_progress_2024-01-01T00-00-00-000Z.json"
	env.cli.files = map[string][]byte{
		"cloud/wp/" + name: []byte(`{"syncedAt":"2024-01-01T00:00:00Z","options":{"mistakeBookSynced":true,"userWordsSynced":false},"mistakeBook":[{"english":"apple","chinese":"苹果"}]}`),
	}
	assert.NoError(t, env.m.Select(name))
	_, err := env.m.Restore(context.Background(), &RestoreRequest{ApplyMistakeBook: true, Confirm: true})
	assert.NoError(t, err)
	assert.Equal(t, []vocab.WordPair{{English: "apple", Chinese: "苹果"}}, env.store.Mistakes())

	// 切换服务端后, 同名备份可能是完全不同的内容, 不能吃到旧缓存
	err = env.m.SaveSettings(context.Background(), &entity.WebdavSettings{
		BaseURL:        "https://other.example.com/dav",
		Username:       "u",
		Password:       "p",
		RemoteBasePath: "cloud/wp",
	})
	assert.NoError(t, err)
	env.cli.files["cloud/wp/"+name] = []byte(`{"syncedAt":"2024-01-01T00:00:00Z","options":{"mistakeBookSynced":true,"userWordsSynced":false},"mistakeBook":[{"english":"cherry","chinese":"樱桃"}]}`)

	assert.NoError(t, env.m.Select(name))
	_, err = env.m.Restore(context.Background(), &RestoreRequest{ApplyMistakeBook: true, Confirm: true})
	assert.NoError(t, err)
	assert.Equal(t, []vocab.WordPair{{English: "cherry", Chinese: "樱桃"}}, env.store.Mistakes())
}

func TestDeleteGuardsAndSoft404(t *testing.T) {
	env := newTestEnv(t)
	name := "word_paradise_progress_2024-01-01T00-00-00-000Z.json"

	_, err := env.m.Delete(context.Background(), &DeleteRequest{})
	assert.ErrorIs(t, err, ErrConfirmRequired)
	_, err = env.m.Delete(context.Background(), &DeleteRequest{Confirm: true})
	assert.ErrorIs(t, err, ErrNoSelection)

	// 404按软成功处理, 列表照常刷新, 选中态清空
	assert.NoError(t, env.m.Select(name))
	env.cli.removeErr = &davclient.TransportError{Status: http.StatusNotFound, Method: http.MethodDelete, URL: name, Message: "gone"}
	rs, err := env.m.Delete(context.Background(), &DeleteRequest{Confirm: true})
	assert.NoError(t, err)
	assert.True(t, rs.AlreadyGone)
	assert.Equal(t, "", env.m.Selected())

	// 其他错误原样上抛
	assert.NoError(t, env.m.Select(name))
	env.cli.removeErr = &davclient.TransportError{Status: http.StatusForbidden, Method: http.MethodDelete, URL: name, Message: "forbidden"}
	_, err = env.m.Delete(context.Background(), &DeleteRequest{Confirm: true})
	assert.True(t, davclient.IsStatus(err, http.StatusForbidden))
	// 失败不触碰选中态
	assert.Equal(t, name, env.m.Selected())
}

func TestTestConnectionClassify(t *testing.T) {
	env := newTestEnv(t)
	rs, err := env.m.TestConnection(context.Background())
	assert.NoError(t, err)
	assert.True(t, rs.OK)

	env.cli.listErr = &davclient.TransportError{Status: http.StatusUnauthorized, Method: davclient.MethodPropfind, URL: "x", Message: "auth"}
	rs, err = env.m.TestConnection(context.Background())
	assert.NoError(t, err)
	assert.False(t, rs.OK)
	assert.Equal(t, "auth", rs.Category)
	assert.NotEmpty(t, rs.Guidance)

	env.cli.listErr = &davclient.TransportError{Status: 0, Method: davclient.MethodPropfind, URL: "x", Message: "dial fail"}
	rs, _ = env.m.TestConnection(context.Background())
	assert.Equal(t, "network", rs.Category)

	env.cli.listErr = &davclient.TransportError{Status: http.StatusNotFound, Method: davclient.MethodPropfind, URL: "x", Message: "missing"}
	rs, _ = env.m.TestConnection(context.Background())
	assert.Equal(t, "not-found", rs.Category)

	env.cli.listErr = &davclient.TransportError{Status: http.StatusForbidden, Method: davclient.MethodPropfind, URL: "x", Message: "no"}
	rs, _ = env.m.TestConnection(context.Background())
	assert.Equal(t, "forbidden", rs.Category)
}

func TestSaveSettingsValidateAndClearSelection(t *testing.T) {
	env := newTestEnv(t)
	name := "word_paradise_progress_2024-01-01T00-00-00-000Z.json"
	assert.NoError(t, env.m.Select(name))

	err := env.m.SaveSettings(context.Background(), &entity.WebdavSettings{BaseURL: "not-a-url"})
	assert.Error(t, err)
	assert.Equal(t, name, env.m.Selected())

	err = env.m.SaveSettings(context.Background(), &entity.WebdavSettings{
		BaseURL:        "https://dav.example.com/dav",
		Username:       "u",
		RemoteBasePath: "/cloud/wp/",
	})
	assert.NoError(t, err)
	assert.Equal(t, "", env.m.Selected())
	st, err := env.m.Settings(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "cloud/wp", st.RemoteBasePath)
}
