package services

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/topictrend/internal/core/domain"
	"github.com/custodia-labs/topictrend/internal/core/ports/driving"
	"github.com/custodia-labs/topictrend/internal/logger"
)

// Ensure DuplicateDetector implements the interface.
var _ driving.DuplicateService = (*DuplicateDetector)(nil)

// Duplicate detection defaults.
const (
	DefaultDuplicateThreshold = 0.85
	duplicateChunkRows        = 1000
)

// DuplicateConfig configures a DuplicateDetector.
type DuplicateConfig struct {
	// Threshold is the inclusive cosine similarity at which two texts are duplicates.
	Threshold float64

	// BatchSize is forwarded to the encoder.
	BatchSize int
}

// DuplicateDetector finds near-duplicate texts by embedding similarity.
type DuplicateDetector struct {
	encoder Encoder
	cfg     DuplicateConfig
}

// NewDuplicateDetector creates a detector. Zero Threshold uses DefaultDuplicateThreshold.
func NewDuplicateDetector(encoder Encoder, cfg DuplicateConfig) *DuplicateDetector {
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultDuplicateThreshold
	}
	return &DuplicateDetector{encoder: encoder, cfg: cfg}
}

// FindDuplicates walks texts in order, keeping each text not yet marked and
// marking every later text at or above the threshold as its duplicate.
// Blank texts are always kept.
func (d *DuplicateDetector) FindDuplicates(ctx context.Context, texts []string, scope string) (domain.DuplicateResult, error) {
	logger.Section("Duplicate Detection")
	defer logger.Timer("duplicate detection")()

	result := domain.DuplicateResult{Unique: []int{}, Duplicates: map[int]int{}}
	if len(texts) == 0 {
		return result, nil
	}
	if d.encoder == nil {
		return result, fmt.Errorf("%w: duplicate detection needs embeddings", domain.ErrEmbeddingUnavailable)
	}

	vectors, err := d.encoder.Encode(ctx, texts, EncodeOptions{BatchSize: d.cfg.BatchSize, Scope: scope})
	if err != nil {
		return result, err
	}

	dim := maxDim(vectors)
	if dim == 0 {
		for i := range texts {
			result.Unique = append(result.Unique, i)
		}
		return result, nil
	}
	rows := normalizedRows(vectors, dim)
	threshold := d.cfg.Threshold - thresholdTolerance
	n := len(texts)

	// Similarity rows are computed in chunks to bound memory on large inputs.
	var sims *mat.Dense
	chunkStart := -1
	for i := 0; i < n; i++ {
		if _, dup := result.Duplicates[i]; dup {
			continue
		}
		result.Unique = append(result.Unique, i)

		if chunkStart < 0 || i >= chunkStart+duplicateChunkRows {
			chunkStart = i
			end := min(i+duplicateChunkRows, n)
			sims = cosineMatrix(rows.Slice(i, end, 0, dim).(*mat.Dense), rows)
		}
		for j := i + 1; j < n; j++ {
			if _, dup := result.Duplicates[j]; dup {
				continue
			}
			if sims.At(i-chunkStart, j) >= threshold {
				result.Duplicates[j] = i
			}
		}
	}

	logger.Info("Found %d duplicates in %d texts (threshold %.2f)",
		len(result.Duplicates), n, d.cfg.Threshold)
	return result, nil
}
