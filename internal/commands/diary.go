package commands

import (
	"fmt"
	"log"

	"github.com/klabast/wb-services/study-diary/internal/app"
	"github.com/klabast/wb-services/study-diary/internal/diary"
	"github.com/klabast/wb-services/study-diary/internal/store"
)

// openDiary opens the configured store for a one-shot command.
// The returned func closes the store.
func openDiary(cfg *app.Config, logger *log.Logger) (*diary.Diary, store.Store, func(), error) {
	s, err := store.Open(cfg.StoreDriver, cfg.DataPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open %s store at %s: %w", cfg.StoreDriver, cfg.DataPath, err)
	}
	closeFn := func() {
		if err := store.Close(s); err != nil {
			logger.Printf("Error closing store: %v", err)
		}
	}
	return diary.Open(s, logger), s, closeFn, nil
}
