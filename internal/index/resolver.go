// Package index binds the session to a remote vector store, by cached id
// when possible, by well-known name otherwise, creating one as a last
// resort.
package index

import (
	"context"
	"fmt"

	"github.com/reportchat/reportchat/internal/adapter"
	"github.com/reportchat/reportchat/internal/logging"
	"github.com/reportchat/reportchat/internal/session"
)

// Resolver ensures a usable vector store binding. The fixed store name is
// the stable logical handle across restarts; the cached id just skips the
// discovery round trip on the common path.
type Resolver struct {
	state     *session.State
	store     *session.Store
	svc       adapter.IndexService
	name      string
	listLimit int
}

// NewResolver returns a Resolver bound to the given session and service.
func NewResolver(state *session.State, store *session.Store, svc adapter.IndexService, name string, listLimit int) *Resolver {
	return &Resolver{state: state, store: store, svc: svc, name: name, listLimit: listLimit}
}

// EnsureBound returns the id of a valid vector store, binding one first if
// needed. It fails only when a store has to be created and creation fails.
func (r *Resolver) EnsureBound(ctx context.Context) (string, error) {
	if r.state.IndexID != "" {
		if err := r.svc.RetrieveIndex(ctx, r.state.IndexID); err == nil {
			return r.state.IndexID, nil
		}
		// The remembered id is stale. Forget it together with the dedup
		// bookkeeping, which is only meaningful for that store.
		logging.Logger.Debug().Str("index_id", r.state.IndexID).
			Msg("cached vector store id is stale, rediscovering")
		r.state.Unbind()
		r.store.Save(r.state)
	}

	// Look for an existing store with the well-known name. Rediscovering
	// the same logical store resumes its bookkeeping, so nothing is reset
	// on this path.
	infos, err := r.svc.ListIndexes(ctx, r.listLimit)
	if err != nil {
		logging.Logger.Debug().Err(err).Msg("vector store listing failed, will create")
	}
	for _, info := range infos {
		if info.Name == r.name {
			r.state.IndexID = info.ID
			r.store.Save(r.state)
			return info.ID, nil
		}
	}

	info, err := r.svc.CreateIndex(ctx, r.name)
	if err != nil {
		return "", fmt.Errorf("create vector store %q: %w", r.name, err)
	}
	r.state.BindNew(info.ID)
	r.store.Save(r.state)
	return info.ID, nil
}
