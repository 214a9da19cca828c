package appupdate

import (
	"context"

	"github.com/creativeprojects/go-selfupdate"
)

// Release is the slice of a published release the update check needs.
type Release interface {
	Version() string
}

// Updater detects the latest published release of a repository.
type Updater interface {
	DetectLatest(ctx context.Context, repository string) (Release, bool, error)
}

// DefaultUpdater queries GitHub releases through go-selfupdate.
type DefaultUpdater struct{}

func (DefaultUpdater) DetectLatest(ctx context.Context, repository string) (Release, bool, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil || !found || latest == nil {
		return nil, found, err
	}
	return latest, true, nil
}
