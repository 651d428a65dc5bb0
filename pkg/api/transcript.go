package api

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

const defaultTranscriptSize = 50

// Transcript is the announcer used when the engine is driven over HTTP. The
// client reads recent announcements back and speaks them itself.
type Transcript struct {
	Size int

	mu      sync.Mutex
	entries []string
}

func (t *Transcript) Announce(ctx context.Context, text string) {
	log.Info().Str("text", text).Msg("Announcement")

	size := t.Size
	if size <= 0 {
		size = defaultTranscriptSize
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, text)
	if len(t.entries) > size {
		t.entries = t.entries[len(t.entries)-size:]
	}
}

func (t *Transcript) Recent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]string(nil), t.entries...)
}
