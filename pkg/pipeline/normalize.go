package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/cfg/normalize"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/observability"
)

// Normalize decodes a raw payload and extracts its basic blocks.
// It returns [ErrNoBlocks] when the payload decodes but holds no block.
func Normalize(ctx context.Context, payload []byte) (string, []cfg.BasicBlock, error) {
	hooks := observability.Pipeline()
	hooks.OnNormalizeStart(ctx, len(payload))
	start := time.Now()

	strategy, blocks, err := normalizePayload(payload)
	hooks.OnNormalizeComplete(ctx, strategy, len(blocks), time.Since(start), err)
	return strategy, blocks, err
}

func normalizePayload(payload []byte) (string, []cfg.BasicBlock, error) {
	v, err := normalize.Parse(payload)
	if err != nil {
		return normalize.StrategyNone, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "payload is not valid JSON")
	}
	strategy, raw := normalize.Extract(v)
	blocks := normalize.Blocks(raw)
	if len(blocks) == 0 {
		return strategy, nil, ErrNoBlocks
	}
	return strategy, blocks, nil
}
