package service

import (
	"alcyxob/training-app/internal/storage"
	"context"

	log "github.com/sirupsen/logrus"
)

// exerciseImages wraps the optional object store holding exercise illustrations.
type exerciseImages struct {
	files storage.FileStorage
}

func (i exerciseImages) enabled() bool {
	return i.files != nil
}

// release removes stored objects once the exercises referencing them are gone.
// Failures only leave an orphaned object behind, so they are logged.
func (i exerciseImages) release(ctx context.Context, keys ...string) {
	if i.files == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := i.files.DeleteObject(ctx, key); err != nil {
			log.Warnf("release exercise image [%s]: %s", key, err)
		}
	}
}
