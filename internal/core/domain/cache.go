package domain

// EmbeddingCacheStats summarises the persistent embedding cache.
type EmbeddingCacheStats struct {
	TotalEntries int            `json:"total_entries"`
	ByModel      map[string]int `json:"by_model"`
}

// ResponseCacheStats summarises the persistent generative response cache.
type ResponseCacheStats struct {
	TotalEntries int            `json:"total_entries"`
	TotalHits    int            `json:"total_hits"`
	ByModel      map[string]int `json:"by_model"`
}

// CacheStats combines both caches for reporting.
type CacheStats struct {
	Embeddings EmbeddingCacheStats `json:"embeddings"`
	Responses  ResponseCacheStats  `json:"responses"`
}
