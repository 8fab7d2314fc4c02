package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/papermind-ai/papermind/internal/util"
)

const defaultDimensions = 1024

// GenerateEmbedding creates a vector embedding for the given input
// text using the configured embedding model on Ollama. Blank input
// yields a zero vector without a server round trip.
func (c *Client) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	dim := int(util.GetEnvNumeric("AI_EMBED_DIM", defaultDimensions))
	if len(strings.TrimSpace(string(input))) == 0 {
		return make([]float32, dim), nil
	}

	req := &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: string(input),
	}
	res, err := c.Client.Embed(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding model %q returned no embeddings", c.embeddingModel)
	}

	out := make([]float32, 0, dim)
	for _, v := range res.Embeddings[0] {
		out = append(out, v)
	}
	return out, nil
}

// GenerateEmbeddings creates embeddings for multiple inputs in one
// request, preserving input order.
func (c *Client) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	out := make([][]float32, 0, len(inputs))
	for _, input := range inputs {
		vector, err := c.GenerateEmbedding(ctx, input)
		if err != nil {
			return nil, err
		}
		out = append(out, vector)
	}
	return out, nil
}
