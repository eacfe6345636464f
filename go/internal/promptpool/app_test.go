package promptpool

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/teamquiz/go/internal/models"
)

type memRepository struct {
	mu        sync.Mutex
	prompts   []string
	insertErr error
}

func (m *memRepository) ListCustom(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...), nil
}

func (m *memRepository) InsertCustom(ctx context.Context, prompt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.prompts = append(m.prompts, prompt)
	return nil
}

func (m *memRepository) list() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.prompts...)
}

func newTestApp(t *testing.T, repo Repository, base []string) *App {
	t.Helper()
	app, err := NewApp(context.Background(), repo, Options{
		BasePrompts:  base,
		TimerSeconds: 5,
		Rand:         rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)
	return app
}

func TestApp_RandomNeverRepeats(t *testing.T) {
	app := newTestApp(t, &memRepository{prompts: []string{"Custom one"}}, []string{"Base one", "Base two"})

	prev := ""
	for i := 0; i < 200; i++ {
		got, total, err := app.Random()
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.NotEqual(t, prev, got, "draw %d repeated the previous prompt", i)
		prev = got
	}
}

func TestApp_RandomSinglePrompt(t *testing.T) {
	app := newTestApp(t, &memRepository{}, []string{"Only one"})

	for i := 0; i < 3; i++ {
		got, _, err := app.Random()
		require.NoError(t, err)
		assert.Equal(t, "Only one", got)
	}
}

func TestApp_RandomEmptyPool(t *testing.T) {
	app := newTestApp(t, &memRepository{}, []string{})

	_, _, err := app.Random()
	require.ErrorIs(t, err, models.ErrNoPrompts)
}

func TestApp_Add(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		want    string
		wantErr error
	}{
		{name: "trimmed", prompt: "  A famous painter  ", want: "A famous painter"},
		{name: "empty", prompt: "   ", wantErr: models.ErrValidation},
		{name: "too short", prompt: "abc", wantErr: models.ErrValidation},
		{name: "too long", prompt: strings.Repeat("x", 161), wantErr: models.ErrValidation},
		{name: "max length", prompt: strings.Repeat("y", 160), want: strings.Repeat("y", 160)},
		{name: "short multibyte counts runes", prompt: "äöü", wantErr: models.ErrValidation},
		{name: "duplicate of base", prompt: "Base one", wantErr: models.ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memRepository{}
			app := newTestApp(t, repo, []string{"Base one"})

			got, total, err := app.Add(context.Background(), tt.prompt)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 1, app.Count())
				assert.Empty(t, repo.list())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 2, total)
			assert.Equal(t, []string{tt.want}, repo.list())
		})
	}
}

func TestApp_AddDuplicateCustom(t *testing.T) {
	app := newTestApp(t, &memRepository{}, nil)
	base := len(DefaultBasePrompts)

	_, total, err := app.Add(context.Background(), "Something round")
	require.NoError(t, err)
	assert.Equal(t, base+1, total)

	_, _, err = app.Add(context.Background(), " Something round ")
	require.ErrorIs(t, err, models.ErrDuplicate)
	assert.Equal(t, base+1, app.Count())
}

func TestApp_AddRepositoryFailure(t *testing.T) {
	repo := &memRepository{insertErr: errors.New("disk full")}
	app := newTestApp(t, repo, []string{"Base one"})

	_, _, err := app.Add(context.Background(), "A new prompt")
	require.Error(t, err)
	assert.Equal(t, 1, app.Count())
}
