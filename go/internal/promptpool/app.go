// Package promptpool serves quiz prompts: a fixed base list plus custom
// prompts submitted by players.
package promptpool

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/internal/models"
)

// DefaultBasePrompts ship with the pool
var DefaultBasePrompts = []string{
	"An animal you see at the zoo",
	"An ice cream flavour you can get almost anywhere",
	"A song by ABBA",
	"A TV host",
	"A well-known beer brand",
	"A body part that often gets injured",
	"A holiday destination in Europe",
	"A kitchen appliance that makes noise",
	"A classic board game",
	"A sweet from your childhood",
	"A gadget that is trending right now",
	"Something to do when the weather is bad",
	"A character from a Pixar film",
	"A fruit you peel",
	"An instrument in a rock band",
	"An animal that is active at night",
	"A line from a Disney song",
	"An emoji you use a lot",
	"A sport people watch on TV",
	"A dish that is better without cheese",
}

// Options configures an App
type Options struct {
	BasePrompts  []string
	TimerSeconds int
	MinLength    int
	MaxLength    int
	Rand         *rand.Rand
}

// App holds the prompt pool in memory and persists custom prompts through the repository
type App struct {
	repo Repository
	opts Options

	mu     sync.Mutex
	base   []string
	custom []string
	last   string
	rng    *rand.Rand
}

// NewApp loads the custom prompts from repo
func NewApp(ctx context.Context, repo Repository, opts Options) (*App, error) {
	if opts.BasePrompts == nil {
		opts.BasePrompts = DefaultBasePrompts
	}
	if opts.MinLength <= 0 {
		opts.MinLength = models.MinPromptLength
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = models.MaxPromptLength
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	custom, err := repo.ListCustom(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom prompts: %w", err)
	}

	log.Info().
		Int("base_prompts", len(opts.BasePrompts)).
		Int("custom_prompts", len(custom)).
		Msg("prompt pool loaded")

	return &App{
		repo:   repo,
		opts:   opts,
		base:   slices.Clone(opts.BasePrompts),
		custom: custom,
		rng:    opts.Rand,
	}, nil
}

// TimerSeconds is the round duration advertised with every prompt
func (a *App) TimerSeconds() int {
	return a.opts.TimerSeconds
}

// Count returns the size of the full pool
func (a *App) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.base) + len(a.custom)
}

// Random picks a prompt, never the previous one while another is available
func (a *App) Random() (string, int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pool := a.pool()
	if len(pool) == 0 {
		return "", 0, models.ErrNoPrompts
	}

	choices := pool
	if len(pool) > 1 {
		if i := slices.Index(pool, a.last); i >= 0 {
			choices = slices.Delete(pool, i, i+1)
		}
	}

	selected := choices[a.rng.IntN(len(choices))]
	a.last = selected
	return selected, len(pool), nil
}

// Add validates and stores a custom prompt. It returns the normalized prompt
// and the new pool size.
func (a *App) Add(ctx context.Context, prompt string) (string, int, error) {
	normalized := strings.TrimSpace(prompt)
	if normalized == "" {
		return "", 0, fmt.Errorf("prompt must not be empty: %w", models.ErrValidation)
	}
	if n := utf8.RuneCountInString(normalized); n < a.opts.MinLength || n > a.opts.MaxLength {
		return "", 0, fmt.Errorf("prompt length %d outside [%d,%d]: %w",
			n, a.opts.MinLength, a.opts.MaxLength, models.ErrValidation)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if slices.Contains(a.pool(), normalized) {
		return "", 0, fmt.Errorf("prompt %q: %w", normalized, models.ErrDuplicate)
	}
	if err := a.repo.InsertCustom(ctx, normalized); err != nil {
		return "", 0, err
	}
	a.custom = append(a.custom, normalized)

	total := len(a.base) + len(a.custom)
	log.Info().Str("prompt", normalized).Int("total_prompts", total).Msg("custom prompt added")
	return normalized, total, nil
}

func (a *App) pool() []string {
	return append(slices.Clone(a.base), a.custom...)
}
