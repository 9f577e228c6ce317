package voiceover

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gogpu/mathscroll"
	"github.com/gogpu/mathscroll/cache"
)

// DefaultWordsPerMinute is the speaking rate of an EstimatingService that
// does not set one.
const DefaultWordsPerMinute = 150

// Speech is a synthesized block of narration.
type Speech struct {
	// Text is the plain text that was spoken.
	Text string

	// Duration is the length of the audio.
	Duration time.Duration

	// Bookmarks maps each mark to its offset from the start of the audio.
	Bookmarks map[string]time.Duration

	// Audio is the path of the rendered audio file, empty for services
	// that only estimate timing.
	Audio string
}

// Service turns text into speech. Implementations wrap a text-to-speech
// engine or a recording workflow; the core only needs the timing.
type Service interface {
	Synthesize(ctx context.Context, text string, marks []Mark) (*Speech, error)
}

// EstimatingService times speech from a constant speaking rate without
// producing audio. It is the service for drafts and tests.
type EstimatingService struct {
	// WordsPerMinute is the speaking rate, DefaultWordsPerMinute when zero.
	WordsPerMinute float64

	// Tail is silence appended after the last word.
	Tail time.Duration
}

// Synthesize implements Service. Each word takes the same time; a mark
// falls at the start of the word that follows it.
func (s *EstimatingService) Synthesize(ctx context.Context, text string, marks []Mark) (*Speech, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wpm := s.WordsPerMinute
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	perWord := time.Duration(float64(time.Minute) / wpm)

	words := len(strings.Fields(text))
	sp := &Speech{
		Text:      text,
		Duration:  time.Duration(words)*perWord + s.Tail,
		Bookmarks: make(map[string]time.Duration, len(marks)),
	}
	for _, m := range marks {
		sp.Bookmarks[m.Name] = time.Duration(min(m.Word, words)) * perWord
	}
	return sp, nil
}

// CachingService memoizes another service. Speech for the same text and
// marks is synthesized once, which keeps re-renders of a script cheap.
type CachingService struct {
	next  Service
	cache *cache.Sharded[string, *Speech]
}

// NewCachingService wraps next with a cache of the given capacity.
func NewCachingService(next Service, capacity int) *CachingService {
	return &CachingService{
		next:  next,
		cache: cache.NewSharded[string, *Speech](capacity, cache.StringHasher),
	}
}

// Synthesize implements Service.
func (s *CachingService) Synthesize(ctx context.Context, text string, marks []Mark) (*Speech, error) {
	return s.cache.GetOrCreate(cacheKey(text, marks), func() (*Speech, error) {
		mathscroll.Logger().Debug("voiceover: synthesize", "words", len(strings.Fields(text)))
		return s.next.Synthesize(ctx, text, marks)
	})
}

// Stats returns the cache statistics.
func (s *CachingService) Stats() cache.Stats {
	return s.cache.Stats()
}

func cacheKey(text string, marks []Mark) string {
	var sb strings.Builder
	sb.WriteString(text)
	for _, m := range marks {
		fmt.Fprintf(&sb, "\x00%s@%d", m.Name, m.Word)
	}
	return sb.String()
}
