package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"vibecode/internal/heuristics"
	"vibecode/internal/models"

	"github.com/patrickmn/go-cache"
)

// creativeTTL is how long the assembled pattern library stays cached.
const creativeTTL = 12 * time.Hour

// CreativeLibrary serves narrative archetypes and genre conventions matched
// to the author's interests. Pattern data is curated in-process; the cache
// mirrors the other layer analyzers so the degrade path is uniform.
type CreativeLibrary struct {
	tables *heuristics.Registry
	cache  *cache.Cache
}

// NewCreativeLibrary creates the library.
func NewCreativeLibrary(tables *heuristics.Registry) *CreativeLibrary {
	return &CreativeLibrary{
		tables: tables,
		cache:  cache.New(creativeTTL, time.Hour),
	}
}

var creativePatterns = []models.CreativePattern{
	{Name: "amateur sleuth", Genre: "mystery", Tone: "warm", Popularity: 0.9,
		Elements: []string{"small community", "hidden motive", "red herrings"}},
	{Name: "locked room", Genre: "mystery", Tone: "serious", Popularity: 0.7,
		Elements: []string{"impossible crime", "closed suspect pool"}},
	{Name: "enemies to lovers", Genre: "romance", Tone: "playful", Popularity: 0.95,
		Elements: []string{"forced proximity", "banter", "slow burn"}},
	{Name: "second chance", Genre: "romance", Tone: "warm", Popularity: 0.8,
		Elements: []string{"shared history", "old wounds", "homecoming"}},
	{Name: "chosen one", Genre: "fantasy", Tone: "energetic", Popularity: 0.75,
		Elements: []string{"prophecy", "mentor", "reluctant hero"}},
	{Name: "portal fantasy", Genre: "fantasy", Tone: "playful", Popularity: 0.65,
		Elements: []string{"ordinary world", "threshold", "fish out of water"}},
	{Name: "first contact", Genre: "scifi", Tone: "contemplative", Popularity: 0.7,
		Elements: []string{"unknown signal", "communication barrier"}},
	{Name: "race against time", Genre: "thriller", Tone: "serious", Popularity: 0.85,
		Elements: []string{"ticking clock", "escalating stakes"}},
	{Name: "haunted dwelling", Genre: "horror", Tone: "serious", Popularity: 0.6,
		Elements: []string{"isolated setting", "buried history"}},
	{Name: "habit transformation", Genre: "self_help", Tone: "energetic", Popularity: 0.8,
		Elements: []string{"small steps", "identity change", "case studies"}},
}

var genreConventions = map[string][]string{
	"mystery":   {"plant clues fairly", "resolve every red herring", "justice restored"},
	"romance":   {"emotionally satisfying ending", "both leads get interiority"},
	"fantasy":   {"consistent magic rules", "cost for power"},
	"scifi":     {"one big speculative idea", "grounded consequences"},
	"thriller":  {"short chapters", "cliffhanger beats"},
	"horror":    {"dread before gore", "unresolved unease"},
	"self_help": {"actionable takeaways", "one concept per chapter"},
}

// GetContext assembles the creative snapshot for one utterance and author.
// Patterns matching the author's genres or the utterance text rank first.
func (l *CreativeLibrary) GetContext(ctx context.Context, input *models.VoiceInput, author *models.AuthorContext) models.CreativeContext {
	genres := l.relevantGenres(input, author)

	cacheKey := "creative:" + strings.Join(genres, ",")
	if cached, ok := l.cache.Get(cacheKey); ok {
		return cached.(models.CreativeContext)
	}

	snapshot := models.CreativeContext{FetchedAt: time.Now().UTC()}

	genreSet := make(map[string]bool, len(genres))
	for _, g := range genres {
		genreSet[g] = true
	}

	matched := make([]models.CreativePattern, 0, len(creativePatterns))
	for _, p := range creativePatterns {
		if len(genreSet) == 0 || genreSet[p.Genre] {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Popularity != matched[j].Popularity {
			return matched[i].Popularity > matched[j].Popularity
		}
		return matched[i].Name < matched[j].Name
	})
	if len(matched) > 5 {
		matched = matched[:5]
	}
	snapshot.Patterns = matched

	for _, g := range genres {
		snapshot.GenreConventions = append(snapshot.GenreConventions, genreConventions[g]...)
	}
	for _, p := range matched {
		snapshot.ThemeSuggestions = append(snapshot.ThemeSuggestions, p.Elements...)
	}

	l.cache.Set(cacheKey, snapshot, cache.DefaultExpiration)
	l.cache.Set("creative:stale", snapshot, cache.NoExpiration)
	return snapshot
}

// Stale returns the last assembled snapshot regardless of key or age.
func (l *CreativeLibrary) Stale() models.CreativeContext {
	if cached, ok := l.cache.Get("creative:stale"); ok {
		return cached.(models.CreativeContext)
	}
	return models.CreativeContext{}
}

// relevantGenres merges the author's stored genre preferences with genre
// keywords heard in the utterance itself.
func (l *CreativeLibrary) relevantGenres(input *models.VoiceInput, author *models.AuthorContext) []string {
	seen := make(map[string]bool)
	var genres []string

	add := func(g string) {
		if !seen[g] {
			seen[g] = true
			genres = append(genres, g)
		}
	}

	if input != nil {
		tables := l.tables.Current()
		lower := strings.ToLower(input.Text)
		for _, genre := range sortedKeys(tables.GenreKeywords) {
			for _, kw := range tables.GenreKeywords[genre] {
				if strings.Contains(lower, kw) {
					add(genre)
					break
				}
			}
		}
	}
	if author != nil {
		for _, g := range author.WritingStyle.GenrePreferences {
			add(g)
		}
	}

	sort.Strings(genres)
	return genres
}
