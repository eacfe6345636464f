package promptpool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository_CreatesAndPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "custom-prompts.json")

	repo, err := NewFileRepository(path)
	require.NoError(t, err)

	prompts, err := repo.ListCustom(ctx)
	require.NoError(t, err)
	assert.Empty(t, prompts)

	require.NoError(t, repo.InsertCustom(ctx, "Ein Obst, das man schält"))
	require.NoError(t, repo.InsertCustom(ctx, "A famous painter"))

	reopened, err := NewFileRepository(path)
	require.NoError(t, err)
	prompts, err = reopened.ListCustom(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ein Obst, das man schält", "A famous painter"}, prompts)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "schält", "non-ASCII text is stored unescaped")
}

func TestFileRepository_MalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "not json", content: "{{", want: []string{}},
		{name: "not a list", content: `{"prompt":"x"}`, want: []string{}},
		{name: "mixed items", content: `["keep me", 3, null, "and me"]`, want: []string{"keep me", "and me"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prompts.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			repo, err := NewFileRepository(path)
			require.NoError(t, err)
			prompts, err := repo.ListCustom(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, prompts)
		})
	}
}
