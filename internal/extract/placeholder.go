package extract

import "fmt"

// Placeholders maps opaque tokens to proxy-wrapped URLs. Tokens are
// substituted for real URLs before any text reaches the model, so the
// model can neither fabricate nor corrupt a URL. Image and link tokens
// use disjoint prefixes ("I", "L") to avoid collision. The table is
// append-only during extraction and read-only during resolution.
type Placeholders struct {
	table  map[string]string
	images int
	links  int
}

// NewPlaceholders creates an empty placeholder table
func NewPlaceholders() *Placeholders {
	return &Placeholders{table: make(map[string]string)}
}

// AddImage records a proxied image URL and returns its token (I0, I1, ...)
func (p *Placeholders) AddImage(url string) string {
	token := fmt.Sprintf("I%d", p.images)
	p.images++
	p.table[token] = url
	return token
}

// AddLink records a proxied link URL and returns its token (L0, L1, ...)
func (p *Placeholders) AddLink(url string) string {
	token := fmt.Sprintf("L%d", p.links)
	p.links++
	p.table[token] = url
	return token
}

// Lookup returns the URL recorded for a token
func (p *Placeholders) Lookup(token string) (string, bool) {
	url, ok := p.table[token]
	return url, ok
}

// Len returns the number of recorded tokens
func (p *Placeholders) Len() int {
	return len(p.table)
}

// Resolve walks an arbitrary tree of decoded values and replaces every
// string that exactly matches a recorded token with its URL. All other
// values pass through unchanged. The input is tree-shaped by
// construction, so each node is visited exactly once.
func (p *Placeholders) Resolve(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		if url, ok := p.table[val]; ok {
			return url
		}
		return val
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = p.Resolve(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = p.ResolveString(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = p.Resolve(item)
		}
		return out
	default:
		return val
	}
}

// ResolveString resolves a single string value
func (p *Placeholders) ResolveString(s string) string {
	if url, ok := p.table[s]; ok {
		return url
	}
	return s
}

// ResolveStrings resolves a slice of strings
func (p *Placeholders) ResolveStrings(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = p.ResolveString(s)
	}
	return out
}
