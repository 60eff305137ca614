// Package adapter defines the interfaces to the hosted retrieval and
// completion collaborators, plus the OpenAI implementation of both.
package adapter

import "context"

// IndexInfo describes a remote vector store.
type IndexInfo struct {
	ID   string
	Name string
}

// Upload is one file staged for ingestion into a vector store.
type Upload struct {
	Filename string
	Data     []byte
}

// IndexService is the retrieval-index collaborator: vector store lifecycle,
// document listing, and batch ingestion.
type IndexService interface {
	// RetrieveIndex checks that the vector store with the given id exists.
	RetrieveIndex(ctx context.Context, id string) error

	// ListIndexes returns up to limit vector stores.
	ListIndexes(ctx context.Context, limit int) ([]IndexInfo, error)

	// CreateIndex creates a vector store with the given name.
	CreateIndex(ctx context.Context, name string) (IndexInfo, error)

	// ListDocuments returns references to up to limit documents already
	// present in the vector store.
	ListDocuments(ctx context.Context, indexID string, limit int) ([]string, error)

	// DocumentFilename resolves a document reference to its filename.
	DocumentFilename(ctx context.Context, ref string) (string, error)

	// UploadBatch uploads the files into the vector store as one batch and
	// blocks until the batch is fully processed or fails.
	UploadBatch(ctx context.Context, indexID string, files []Upload) error
}

// Completer is the language-model collaborator. Both methods retrieve over
// the given vector store while answering.
type Completer interface {
	// Complete sends the question and returns the full answer text. An
	// empty string means the response carried no extractable text.
	Complete(ctx context.Context, model, indexID, question string) (string, error)

	// CompleteStream sends the question and feeds answer fragments to sink
	// in arrival order until the stream ends or errors.
	CompleteStream(ctx context.Context, model, indexID, question string, sink func(delta string)) error
}
