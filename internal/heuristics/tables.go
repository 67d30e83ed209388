// Package heuristics holds the static, versioned scoring tables that drive
// intent, tone, emotion and mood detection. The tables are data, not logic:
// classifiers read them through a Registry so tests can enumerate exact-match
// behavior and deployments can override them from a YAML file.
package heuristics

// VoiceBoost is a conditional multiplier applied to an intent score based on
// a voice characteristic threshold.
type VoiceBoost struct {
	Signal     string  `yaml:"signal"` // "confidence_level", "pace", "clarity_score"
	Above      float64 `yaml:"above"`
	Below      float64 `yaml:"below"`
	Intent     string  `yaml:"intent"`
	Multiplier float64 `yaml:"multiplier"`
}

// MoodBoost is an additive bonus applied to a creative-mood score when a
// voice-derived signal crosses a threshold.
type MoodBoost struct {
	Signal string  `yaml:"signal"` // "energy_level", "enthusiasm", "pace"
	Above  float64 `yaml:"above"`
	Below  float64 `yaml:"below"`
	Mood   string  `yaml:"mood"`
	Bonus  float64 `yaml:"bonus"`
}

// Tables is one versioned set of scoring tables.
type Tables struct {
	Version int `yaml:"version"`

	// Intent classification
	IntentPatterns    map[string][]string `yaml:"intent_patterns"`
	IntentVoiceBoosts []VoiceBoost        `yaml:"intent_voice_boosts"`

	// Tone detection (5 categories, keyword coverage ratios)
	ToneKeywords map[string][]string `yaml:"tone_keywords"`

	// Emotion detection
	EmotionKeywords map[string][]string `yaml:"emotion_keywords"`

	// Creative mood detection
	MoodPatterns    map[string][]string `yaml:"mood_patterns"`
	MoodVoiceBoosts []MoodBoost         `yaml:"mood_voice_boosts"`

	// Preference inference
	GenreKeywords map[string][]string `yaml:"genre_keywords"`
	GoalKeywords  map[string][]string `yaml:"goal_keywords"`

	// Confidence estimation from wording
	ConfidenceWords  []string `yaml:"confidence_words"`
	UncertaintyWords []string `yaml:"uncertainty_words"`
	FillerWords      []string `yaml:"filler_words"`

	// Creative marker vocabularies (category -> keywords)
	CreativeMarkers map[string][]string `yaml:"creative_markers"`

	// Collaboration style inference (literal phrase -> style)
	CollaborationPhrases map[string]string `yaml:"collaboration_phrases"`
}

// Defaults returns the compiled-in v1 tables.
func Defaults() *Tables {
	return &Tables{
		Version: 1,

		IntentPatterns: map[string][]string{
			"create_book": {
				"create a book", "write a book", "new book", "start a novel",
				"create a novel", "write a story", "new story", "start writing a",
				"i want to create", "i want to write",
			},
			"continue_writing": {
				"continue", "keep writing", "next chapter", "pick up where",
				"keep going", "resume", "add more to",
			},
			"edit_content": {
				"edit", "revise", "rewrite", "change the", "fix the",
				"improve the", "polish",
			},
			"explore_ideas": {
				"idea", "brainstorm", "what if", "explore", "thinking about",
				"wondering", "concept", "inspiration",
			},
			"market_optimize": {
				"market", "trending", "sell", "sales", "bestseller",
				"optimize", "keywords", "niche", "competition",
			},
			"publish_book": {
				"publish", "kdp", "upload", "release", "launch the book",
				"go live", "submit",
			},
			"check_progress": {
				"progress", "status", "how far", "how much", "where are we",
				"word count",
			},
			"set_preferences": {
				"prefer", "i like", "i want my books", "my style", "settings",
				"always use",
			},
			"request_feedback": {
				"feedback", "what do you think", "review this", "opinion",
				"how does this sound", "critique",
			},
			"pause_session": {
				"pause", "take a break", "stop for now", "that's enough",
				"done for today",
			},
		},

		IntentVoiceBoosts: []VoiceBoost{
			{Signal: "confidence_level", Above: 0.7, Intent: "create_book", Multiplier: 1.2},
			{Signal: "confidence_level", Above: 0.7, Intent: "explore_ideas", Multiplier: 1.1},
			{Signal: "pace", Above: 1.3, Intent: "continue_writing", Multiplier: 1.1},
			{Signal: "confidence_level", Below: 0.4, Intent: "request_feedback", Multiplier: 1.1},
		},

		ToneKeywords: map[string][]string{
			"energetic": {
				"amazing", "awesome", "incredible", "love", "fantastic",
				"exciting", "can't wait", "thrilled",
			},
			"contemplative": {
				"wonder", "perhaps", "reflect", "consider", "ponder",
				"meaning", "deep", "quiet",
			},
			"serious": {
				"important", "critical", "must", "deadline", "serious",
				"focus", "precise", "exact",
			},
			"playful": {
				"fun", "silly", "quirky", "playful", "joke", "whimsical",
				"lighthearted",
			},
			"warm": {
				"heart", "gentle", "cozy", "comfort", "tender", "kind",
				"warm", "family",
			},
		},

		EmotionKeywords: map[string][]string{
			"excited":    {"excited", "can't wait", "thrilled", "pumped", "amazing", "incredible"},
			"happy":      {"happy", "glad", "great", "wonderful", "love", "delighted"},
			"calm":       {"calm", "peaceful", "relaxed", "steady", "easy"},
			"focused":    {"focused", "concentrate", "ready to work", "let's get", "on task"},
			"curious":    {"curious", "wonder", "what if", "interesting", "intrigued"},
			"confident":  {"confident", "sure", "certain", "know exactly", "definitely"},
			"frustrated": {"frustrated", "stuck", "annoying", "not working", "ugh", "struggling"},
			"anxious":    {"worried", "nervous", "anxious", "afraid", "scared", "stress"},
			"tired":      {"tired", "exhausted", "drained", "worn out", "sleepy"},
		},

		MoodPatterns: map[string][]string{
			"energetic":    {"let's go", "pumped", "fired up", "ready", "energy"},
			"passionate":   {"love this", "passionate", "deeply", "means so much", "heart"},
			"focused":      {"focus", "concentrate", "get it done", "on task", "no distractions"},
			"reflective":   {"thinking back", "reflect", "looking back", "meaning", "wonder"},
			"playful":      {"fun", "play", "silly", "experiment with", "quirky"},
			"determined":   {"determined", "no matter what", "will finish", "commit", "push through"},
			"experimental": {"try something new", "experiment", "different approach", "unusual", "wild"},
			"relaxed":      {"relaxed", "easy", "no rush", "casual", "laid back"},
		},

		MoodVoiceBoosts: []MoodBoost{
			{Signal: "energy_level", Above: 0.8, Mood: "energetic", Bonus: 0.3},
			{Signal: "enthusiasm", Above: 0.7, Mood: "passionate", Bonus: 0.2},
			{Signal: "pace", Below: 0.7, Mood: "reflective", Bonus: 0.2},
			{Signal: "energy_level", Below: 0.3, Mood: "relaxed", Bonus: 0.2},
		},

		GenreKeywords: map[string][]string{
			"mystery":   {"mystery", "detective", "clue", "whodunit", "crime", "investigation"},
			"romance":   {"romance", "love story", "relationship", "heartbreak", "passion"},
			"scifi":     {"sci-fi", "science fiction", "space", "future", "robot", "alien"},
			"fantasy":   {"fantasy", "magic", "dragon", "kingdom", "quest", "wizard"},
			"thriller":  {"thriller", "suspense", "chase", "conspiracy", "danger"},
			"horror":    {"horror", "scary", "haunted", "ghost", "terror"},
			"literary":  {"literary", "character study", "introspective", "lyrical"},
			"self_help": {"self-help", "improve", "habits", "productivity", "mindset"},
			"children":  {"children's book", "kids", "picture book", "bedtime story"},
		},

		GoalKeywords: map[string][]string{
			"bestseller":             {"bestseller", "best seller", "top of the charts", "hit book"},
			"passive_income":         {"passive income", "royalties", "side income", "make money"},
			"audience_building":      {"audience", "readers", "fanbase", "following", "community"},
			"personal_fulfillment":   {"always dreamed", "bucket list", "for myself", "personal goal"},
			"professional_authority": {"credibility", "expert", "authority", "portfolio", "career"},
		},

		ConfidenceWords: []string{
			"definitely", "absolutely", "certainly", "sure", "exactly",
			"precisely", "without a doubt", "clearly",
		},
		UncertaintyWords: []string{
			"maybe", "perhaps", "not sure", "might", "possibly",
			"i guess", "sort of", "kind of",
		},
		FillerWords: []string{
			"um", "uh", "like", "you know", "i mean", "basically", "actually",
		},

		CreativeMarkers: map[string][]string{
			"sensory":     {"glittering", "whisper", "fragrant", "velvet", "bitter", "glow"},
			"emotional":   {"longing", "grief", "joy", "dread", "hope", "yearning"},
			"temporal":    {"midnight", "dawn", "winter", "decades", "moment", "eternity"},
			"descriptive": {"crumbling", "vast", "narrow", "ancient", "gleaming", "weathered"},
			"action":      {"chase", "escape", "discover", "confront", "unravel", "vanish"},
		},

		CollaborationPhrases: map[string]string{
			"guide me":          "guided",
			"walk me through":   "guided",
			"let me lead":       "independent",
			"i'll decide":       "independent",
			"just do it":        "delegating",
			"handle it for me":  "delegating",
			"work together":     "collaborative",
			"let's collaborate": "collaborative",
		},
	}
}
