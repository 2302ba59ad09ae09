package directory

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// KeyValue is the durable storage bookmarks are written to.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// BookmarkPersistence mirrors the store's bookmark set into a KeyValue under
// BookmarksKey.
type BookmarkPersistence struct {
	kv           KeyValue
	log          zerolog.Logger
	writeTimeout time.Duration
}

func NewBookmarkPersistence(kv KeyValue, log zerolog.Logger) *BookmarkPersistence {
	return &BookmarkPersistence{kv: kv, log: log, writeTimeout: 5 * time.Second}
}

// Bind hydrates the store from storage and then subscribes to bookmark
// changes. It returns the number of ids restored.
func (p *BookmarkPersistence) Bind(ctx context.Context, store *Store) int {
	restored := p.Hydrate(ctx, store)
	store.Subscribe(p.observe)
	return restored
}

// Hydrate re-applies every stored id through AddBookmark. Absent, unreadable
// or malformed data counts as no bookmarks.
func (p *BookmarkPersistence) Hydrate(ctx context.Context, store *Store) int {
	ids, err := p.Load(ctx)
	if err != nil {
		p.log.Warn().Err(err).Str("key", BookmarksKey).Msg("bookmark hydrate skipped")
		return 0
	}
	restored := 0
	for _, id := range ids {
		if store.Dispatch(AddBookmark{ID: id}) {
			restored++
		}
	}
	return restored
}

// Load reads and decodes the stored id list. A missing key yields nil, nil.
func (p *BookmarkPersistence) Load(ctx context.Context) ([]string, error) {
	raw, ok, err := p.kv.Get(ctx, BookmarksKey)
	if err != nil || !ok {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (p *BookmarkPersistence) Save(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return p.kv.Set(ctx, BookmarksKey, string(payload))
}

func (p *BookmarkPersistence) observe(change Change) {
	if slices.Equal(change.Before.Bookmarks, change.After.Bookmarks) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()
	if err := p.Save(ctx, change.After.Bookmarks); err != nil {
		p.log.Error().Err(err).Str("key", BookmarksKey).Int("count", len(change.After.Bookmarks)).Msg("bookmark persist failed")
	}
}
