package words

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xxxsen/wordparadise/dao"
	"github.com/xxxsen/wordparadise/entity"
	"github.com/xxxsen/wordparadise/server/model"
	"github.com/xxxsen/wordparadise/vocab"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi/proxyutil"
	"go.uber.org/zap"
)

type WordsHandler struct {
	store    *vocab.Store
	mistakes dao.IMistakeDao
}

func NewWordsHandler(store *vocab.Store, mistakes dao.IMistakeDao) *WordsHandler {
	return &WordsHandler{store: store, mistakes: mistakes}
}

func (h *WordsHandler) ListMistakes(c *gin.Context) {
	pairs := h.store.Mistakes()
	list := make([]*model.WordItem, 0, len(pairs))
	for _, p := range pairs {
		list = append(list, &model.WordItem{English: p.English, Chinese: p.Chinese})
	}
	proxyutil.SuccessJson(c, &model.ListMistakesResponse{List: list})
}

// AppendMistakes 游戏答错时推送错词, 内存与库同时追加
func (h *WordsHandler) AppendMistakes(c *gin.Context, ctx context.Context, request interface{}) {
	req := request.(*model.AppendMistakesRequest)
	pairs := make([]vocab.WordPair, 0, len(req.List))
	items := make([]*entity.MistakeItem, 0, len(req.List))
	for _, it := range req.List {
		pairs = append(pairs, vocab.WordPair{English: it.English, Chinese: it.Chinese})
		items = append(items, &entity.MistakeItem{
			WordHash: int64(vocab.WordKey(it.English)),
			English:  it.English,
			Chinese:  it.Chinese,
		})
	}
	added := h.store.AddMistakes(pairs...)
	if h.mistakes != nil {
		if _, err := h.mistakes.AppendMistakes(ctx, &entity.SaveMistakeRequest{List: items}); err != nil {
			proxyutil.FailJson(c, http.StatusInternalServerError, fmt.Errorf("persist mistakes fail, err:%w", err))
			return
		}
	}
	logutil.GetLogger(ctx).Info("append mistakes succ", zap.Int("recv", len(req.List)), zap.Int("added", added))
	proxyutil.SuccessJson(c, &model.AppendMistakesResponse{Added: added})
}

func (h *WordsHandler) ImportWords(c *gin.Context, ctx context.Context, request interface{}) {
	req := request.(*model.ImportWordsRequest)
	if len(req.List) == 0 {
		proxyutil.FailJson(c, http.StatusBadRequest, fmt.Errorf("empty word list"))
		return
	}
	pairs := make([]vocab.WordPair, 0, len(req.List))
	for _, it := range req.List {
		pairs = append(pairs, vocab.WordPair{English: it.English, Chinese: it.Chinese})
	}
	h.store.SetUserWords(pairs, vocab.SourceImported)
	logutil.GetLogger(ctx).Info("import words succ", zap.Int("count", len(pairs)))
	proxyutil.SuccessJson(c, &model.ImportWordsResponse{Count: len(pairs)})
}
