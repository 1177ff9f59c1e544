package prompt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/opsrelay/opsrelay/model"
)

// FsStore loads prompts from any afs-supported location (local filesystem,
// s3://, gs://, mem://) with the layout:
//
//	<baseURL>/prompts/<workflow>/<module>/<version>/prompt.md
//	<baseURL>/prompts/<workflow>/<module>/<version>/schema.json
type FsStore struct {
	baseURL string
	fs      afs.Service
}

// NewFsStore creates a store rooted at baseURL.
func NewFsStore(baseURL string) *FsStore {
	return &FsStore{baseURL: baseURL, fs: afs.New()}
}

// Prompt implements Store.
func (s *FsStore) Prompt(ctx context.Context, workflow model.Workflow, module, version string) (string, error) {
	data, err := s.download(ctx, workflow, module, version, "prompt.md")
	if err != nil {
		return "", notFound(workflow, module, version, "prompt")
	}
	return string(data), nil
}

// Schema implements Store.
func (s *FsStore) Schema(ctx context.Context, workflow model.Workflow, module, version string) (map[string]interface{}, error) {
	data, err := s.download(ctx, workflow, module, version, "schema.json")
	if err != nil {
		return nil, notFound(workflow, module, version, "schema")
	}
	var schema map[string]interface{}
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("invalid schema for %s/%s/%s: %w", workflow, module, version, err)
	}
	return schema, nil
}

func (s *FsStore) download(ctx context.Context, workflow model.Workflow, module, version, name string) ([]byte, error) {
	location := url.Join(s.baseURL, "prompts", workflow.String(), module, version, name)
	if ok, err := s.fs.Exists(ctx, location); err != nil || !ok {
		return nil, fmt.Errorf("missing %v", location)
	}
	return s.fs.DownloadWithURL(ctx, location)
}

var _ Store = (*FsStore)(nil)
