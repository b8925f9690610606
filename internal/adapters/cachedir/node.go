package cachedir

import (
	"context"
	"errors"

	"github.com/grindlemire/graft"
	"go.trai.ch/fmagic/internal/adapters/config"
	"go.trai.ch/fmagic/internal/adapters/logger"
	"go.trai.ch/fmagic/internal/adapters/store"
	"go.trai.ch/fmagic/internal/core/domain"
	"go.trai.ch/fmagic/internal/core/ports"
)

// NodeID is the unique identifier for the artifact cache Graft node.
const NodeID graft.ID = "adapter.artifact_cache"

func init() {
	graft.Register(graft.Node[ports.ArtifactCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, store.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ArtifactCache, error) {
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			sessions, err := graft.Dep[ports.SessionStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			hint, err := sessions.Get(domain.CacheDirKey)
			if err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
				log.Warn("could not read previous cache directory: " + err.Error())
			}

			cache, err := Open(settings.CacheRoot, hint, WithRecorder(func(dir string) {
				if err := sessions.Set(domain.CacheDirKey, dir); err != nil {
					log.Warn("could not record cache directory: " + err.Error())
				}
			}))
			if err != nil {
				return nil, err
			}
			return cache, nil
		},
	})
}
