package tokenizer

// TokenCache memoizes token counts per text fragment with map-owned keys.
// It is per-document, per-worker state and is never shared across
// goroutines.
type TokenCache struct {
	tok    Tokenizer
	counts map[string]int
}

// NewTokenCache returns an empty cache over the given tokenizer.
func NewTokenCache(tok Tokenizer) *TokenCache {
	return &TokenCache{tok: tok, counts: make(map[string]int)}
}

// TokenCount returns the memoized token count for text, computing it on
// first use.
func (c *TokenCache) TokenCount(text string) int {
	if n, ok := c.counts[text]; ok {
		return n
	}
	n := c.tok.CountTokens(text)
	c.counts[text] = n
	return n
}

// Clear resets the cache.
func (c *TokenCache) Clear() {
	c.counts = make(map[string]int)
}

// InternedTokenCache is the hot-path variant used during section
// combination. Looked-up fragments are interned into an owned store so
// repeated lookups of substrings of a live buffer never re-tokenize; Clear
// drops both the map and the store together, which keeps the lifetime
// contract of the two in lockstep.
type InternedTokenCache struct {
	tok    Tokenizer
	counts map[string]int
	store  []string
}

// NewInternedTokenCache returns an empty interning cache.
func NewInternedTokenCache(tok Tokenizer) *InternedTokenCache {
	return &InternedTokenCache{tok: tok, counts: make(map[string]int)}
}

// TokenCount returns the memoized token count for the fragment.
func (c *InternedTokenCache) TokenCount(fragment string) int {
	if n, ok := c.counts[fragment]; ok {
		return n
	}
	// Clone so the map key does not pin the caller's backing buffer.
	owned := string(append([]byte(nil), fragment...))
	c.store = append(c.store, owned)
	n := c.tok.CountTokens(owned)
	c.counts[owned] = n
	return n
}

// Size returns the number of cached fragments.
func (c *InternedTokenCache) Size() int { return len(c.counts) }

// Clear resets the map and the interned storage.
func (c *InternedTokenCache) Clear() {
	c.counts = make(map[string]int)
	c.store = nil
}
