// Package ingest deduplicates and uploads documents into the bound vector
// store, keeping the local bookkeeping in sync with the remote index.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/reportchat/reportchat/internal/adapter"
	"github.com/reportchat/reportchat/internal/logging"
	"github.com/reportchat/reportchat/internal/session"
)

// SkipReason says why a file was not uploaded.
type SkipReason string

const (
	// SkipDuplicateContent means identical bytes were staged before,
	// possibly under a different filename.
	SkipDuplicateContent SkipReason = "duplicate content"

	// SkipDuplicateName means a document with this filename is already in
	// the vector store.
	SkipDuplicateName SkipReason = "duplicate name"
)

// File is one input document.
type File struct {
	Name string
	Data []byte
}

// Skip records one skipped input file.
type Skip struct {
	Name   string
	Reason SkipReason
}

// Result summarizes one ingestion call.
type Result struct {
	Added   []string
	Skipped []Skip
}

// Pipeline uploads new documents, suppressing duplicates by content hash
// and by filename.
type Pipeline struct {
	state     *session.State
	store     *session.Store
	svc       adapter.IndexService
	listLimit int
}

// New returns a Pipeline bound to the given session and index service.
func New(state *session.State, store *session.Store, svc adapter.IndexService, listLimit int) *Pipeline {
	return &Pipeline{state: state, store: store, svc: svc, listLimit: listLimit}
}

// Ingest uploads the given files into the vector store as one batch,
// skipping duplicates. The caller must have bound indexID first. On batch
// failure the staged bookkeeping is rolled back so a retry re-uploads.
func (p *Pipeline) Ingest(ctx context.Context, indexID string, files []File) (Result, error) {
	var res Result
	if len(files) == 0 {
		return res, nil
	}

	// First ingestion after a restart or rebind: reconcile the filename
	// bookkeeping with what the store already contains. Skipped once the
	// set is non-empty.
	if len(p.state.KnownFilenames) == 0 {
		p.prefetchFilenames(ctx, indexID)
		p.store.Save(p.state)
	}

	var staged []adapter.Upload
	var stagedHashes, stagedNames []string
	for _, f := range files {
		sum := sha256.Sum256(f.Data)
		hash := hex.EncodeToString(sum[:])

		switch {
		case p.state.ContentHashes[hash]:
			res.Skipped = append(res.Skipped, Skip{Name: f.Name, Reason: SkipDuplicateContent})
		case p.state.KnownFilenames[f.Name]:
			res.Skipped = append(res.Skipped, Skip{Name: f.Name, Reason: SkipDuplicateName})
		default:
			staged = append(staged, adapter.Upload{Filename: f.Name, Data: f.Data})
			// Mark as seen immediately so a second file with the same name
			// or bytes later in this batch is caught.
			p.state.ContentHashes[hash] = true
			p.state.KnownFilenames[f.Name] = true
			stagedHashes = append(stagedHashes, hash)
			stagedNames = append(stagedNames, f.Name)
			res.Added = append(res.Added, f.Name)
		}
	}

	if len(staged) == 0 {
		return res, nil
	}

	if err := p.svc.UploadBatch(ctx, indexID, staged); err != nil {
		// Un-stage everything from this batch; otherwise a retry would
		// classify the same files as duplicates and never re-upload them.
		for _, h := range stagedHashes {
			delete(p.state.ContentHashes, h)
		}
		for _, n := range stagedNames {
			delete(p.state.KnownFilenames, n)
		}
		p.store.Save(p.state)
		return Result{Skipped: res.Skipped}, fmt.Errorf("upload batch: %w", err)
	}

	p.state.DocumentCount += len(staged)
	p.store.Save(p.state)
	return res, nil
}

// prefetchFilenames populates KnownFilenames from the documents already in
// the store. Failures leave the set as-is; they only cost dedup accuracy.
func (p *Pipeline) prefetchFilenames(ctx context.Context, indexID string) {
	refs, err := p.svc.ListDocuments(ctx, indexID, p.listLimit)
	if err != nil {
		logging.Logger.Debug().Err(err).Msg("document listing failed, skipping filename prefetch")
		return
	}
	for _, ref := range refs {
		name, err := p.svc.DocumentFilename(ctx, ref)
		if err != nil {
			logging.Logger.Debug().Err(err).Str("ref", ref).Msg("document metadata fetch failed")
			continue
		}
		if name != "" {
			p.state.KnownFilenames[name] = true
		}
	}
}
