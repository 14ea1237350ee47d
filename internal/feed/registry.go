package feed

// Source describes one upstream feed: where to fetch it and which
// identity headers that host expects
type Source struct {
	Name        string
	DisplayName string
	URL         string
	Headers     map[string]string
}

// Registry holds the configured feed sources by name
type Registry struct {
	sources map[string]Source
	order   []string
}

// NewRegistry creates an empty source registry
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source, replacing any source with the same name
func (r *Registry) Register(s Source) {
	if _, exists := r.sources[s.Name]; !exists {
		r.order = append(r.order, s.Name)
	}
	r.sources[s.Name] = s
}

// Get returns a source by name
func (r *Registry) Get(name string) (Source, bool) {
	s, ok := r.sources[name]
	return s, ok
}

// All returns every registered source in registration order
func (r *Registry) All() []Source {
	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}

// DefaultSources returns the built-in feed set
func DefaultSources() []Source {
	return []Source{
		{
			Name:        "hackernews",
			DisplayName: "Hacker News",
			URL:         "https://news.ycombinator.com/rss",
			Headers: map[string]string{
				"Accept": "application/rss+xml, application/xml, text/xml",
			},
		},
		{
			Name:        "lobsters",
			DisplayName: "Lobsters",
			URL:         "https://lobste.rs/rss",
			Headers: map[string]string{
				"Accept": "application/rss+xml, application/xml, text/xml",
			},
		},
		{
			Name:        "bbc",
			DisplayName: "BBC World",
			URL:         "https://feeds.bbci.co.uk/news/world/rss.xml",
			Headers: map[string]string{
				"Accept": "application/rss+xml, application/xml, text/xml",
			},
		},
	}
}
