package workflow

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"cloud.google.com/go/civil"

	"reeldiary/internal/diary"
	"reeldiary/internal/logging"
)

// History is the resolved export for one run.
type History struct {
	Entities     *diary.EntityMap
	Watchlist    []civil.Date
	LikesMatched int
}

// LoadHistory reads the export files and resolves them into entities. A
// configured watchlist file that does not exist is skipped with a warning.
func (m *Manager) LoadHistory(ctx context.Context) (*History, error) {
	_, logger := m.stageContext(ctx, "load")

	policy, err := m.duplicatePolicy()
	if err != nil {
		return nil, err
	}
	rows, err := diary.ReadDiary(m.cfg.DiaryPath())
	if err != nil {
		return nil, err
	}
	likes, err := diary.ReadLikes(m.cfg.LikesPath())
	if err != nil {
		return nil, err
	}
	entities, err := diary.Resolve(rows, policy)
	if err != nil {
		return nil, err
	}
	history := &History{Entities: entities}
	history.LikesMatched = diary.ApplyOverlay(entities, diary.LikedOverlay(likes))

	if path := m.cfg.WatchlistPath(); path != "" {
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			logger.Warn("watchlist file not found",
				logging.String(logging.FieldEventType, "watchlist_missing"),
				logging.String("path", path),
				logging.String(logging.FieldImpact, "watchlist series will be empty"),
				logging.String(logging.FieldErrorHint, "set export.watchlist = \"\" to silence this warning"))
		} else {
			history.Watchlist, err = diary.ReadWatchlist(path)
			if err != nil {
				return nil, err
			}
		}
	}

	logger.Info("export loaded",
		logging.String(logging.FieldEventType, "export_loaded"),
		logging.Int("diary_rows", len(rows)),
		logging.Int("entities", entities.Len()),
		logging.Int("likes", len(likes)),
		logging.Int("likes_matched", history.LikesMatched),
		logging.Int("watchlist", len(history.Watchlist)),
		logging.String("duplicates", policy.String()))
	return history, nil
}
