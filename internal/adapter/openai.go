package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/responses"
	"github.com/openai/openai-go/v2/shared"
)

// OpenAI implements IndexService and Completer over the OpenAI API:
// vector stores for retrieval, the Responses API with a file_search tool
// for answers.
type OpenAI struct {
	client       openai.Client
	pollInterval time.Duration
}

// NewOpenAI creates an OpenAI adapter. If apiKey is empty, OPENAI_API_KEY
// is used. pollInterval paces the batch-status polling during uploads.
func NewOpenAI(apiKey string, pollInterval time.Duration) *OpenAI {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &OpenAI{
		client:       openai.NewClient(option.WithAPIKey(apiKey)),
		pollInterval: pollInterval,
	}
}

func (o *OpenAI) RetrieveIndex(ctx context.Context, id string) error {
	if _, err := o.client.VectorStores.Get(ctx, id); err != nil {
		return fmt.Errorf("retrieve vector store: %w", err)
	}
	return nil
}

func (o *OpenAI) ListIndexes(ctx context.Context, limit int) ([]IndexInfo, error) {
	page, err := o.client.VectorStores.List(ctx, openai.VectorStoreListParams{
		Limit: openai.Int(int64(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("list vector stores: %w", err)
	}

	infos := make([]IndexInfo, 0, len(page.Data))
	for _, vs := range page.Data {
		infos = append(infos, IndexInfo{ID: vs.ID, Name: vs.Name})
	}
	return infos, nil
}

func (o *OpenAI) CreateIndex(ctx context.Context, name string) (IndexInfo, error) {
	vs, err := o.client.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String(name),
	})
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create vector store: %w", err)
	}
	return IndexInfo{ID: vs.ID, Name: vs.Name}, nil
}

func (o *OpenAI) ListDocuments(ctx context.Context, indexID string, limit int) ([]string, error) {
	page, err := o.client.VectorStores.Files.List(ctx, indexID, openai.VectorStoreFileListParams{
		Limit: openai.Int(int64(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("list vector store files: %w", err)
	}

	refs := make([]string, 0, len(page.Data))
	for _, f := range page.Data {
		refs = append(refs, f.ID)
	}
	return refs, nil
}

func (o *OpenAI) DocumentFilename(ctx context.Context, ref string) (string, error) {
	f, err := o.client.Files.Get(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("retrieve file metadata: %w", err)
	}
	return f.Filename, nil
}

func (o *OpenAI) UploadBatch(ctx context.Context, indexID string, files []Upload) error {
	fileIDs := make([]string, 0, len(files))
	for _, u := range files {
		f, err := o.client.Files.New(ctx, openai.FileNewParams{
			File:    openai.File(bytes.NewReader(u.Data), u.Filename, "application/pdf"),
			Purpose: openai.FilePurposeAssistants,
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", u.Filename, err)
		}
		fileIDs = append(fileIDs, f.ID)
	}

	batch, err := o.client.VectorStores.FileBatches.New(ctx, indexID, openai.VectorStoreFileBatchNewParams{
		FileIDs: fileIDs,
	})
	if err != nil {
		return fmt.Errorf("create file batch: %w", err)
	}

	// Block until the batch leaves in_progress, like upload_and_poll.
	for batch.Status == "in_progress" {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.pollInterval):
		}
		batch, err = o.client.VectorStores.FileBatches.Get(ctx, indexID, batch.ID)
		if err != nil {
			return fmt.Errorf("poll file batch: %w", err)
		}
	}

	if batch.Status != "completed" {
		return fmt.Errorf("file batch ended with status %q", batch.Status)
	}
	return nil
}

// requestParams builds the Responses API request shared by both delivery
// modes: the question as input, the vector store as a file_search tool.
func requestParams(model, indexID, question string) responses.ResponseNewParams {
	return responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(question)},
		Tools: []responses.ToolUnionParam{{
			OfFileSearch: &responses.FileSearchToolParam{
				VectorStoreIDs: []string{indexID},
			},
		}},
	}
}

func (o *OpenAI) Complete(ctx context.Context, model, indexID, question string) (string, error) {
	resp, err := o.client.Responses.New(ctx, requestParams(model, indexID, question))
	if err != nil {
		return "", fmt.Errorf("create response: %w", err)
	}

	if text := strings.TrimSpace(resp.OutputText()); text != "" {
		return text, nil
	}

	// The aggregated field was absent or empty; walk the output items and
	// collect every text fragment in order.
	var parts []string
	for _, item := range resp.Output {
		for _, c := range item.Content {
			if strings.TrimSpace(c.Text) != "" {
				parts = append(parts, c.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

func (o *OpenAI) CompleteStream(ctx context.Context, model, indexID, question string, sink func(delta string)) error {
	stream := o.client.Responses.NewStreaming(ctx, requestParams(model, indexID, question))
	defer stream.Close()

	for stream.Next() {
		ev := stream.Current()
		if ev.Type == "response.output_text.delta" && ev.Delta != "" {
			sink(ev.Delta)
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("stream response: %w", err)
	}
	return nil
}
