package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/papermind-ai/papermind/pkg/ai"
	"github.com/papermind-ai/papermind/pkg/logger"
)

// DefaultTopK is the number of chunks retrieved per question when the
// caller does not override it.
const DefaultTopK = 4

type chainOptions struct {
	Model         string
	SystemPrompts []string
	TopK          int
	Tracer        Tracer
}

// ChainOption is a functional option for configuring chain behavior.
type ChainOption func(*chainOptions)

// WithModel returns a ChainOption that specifies which model to use for
// generating answers.
func WithModel(model string) ChainOption {
	return func(o *chainOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a ChainOption that appends additional system
// prompts to guide answer generation.
func WithSystemPrompts(prompts ...string) ChainOption {
	return func(o *chainOptions) {
		o.SystemPrompts = append(o.SystemPrompts, prompts...)
	}
}

// WithTopK returns a ChainOption that sets how many chunks are retrieved
// per question.
func WithTopK(k int) ChainOption {
	return func(o *chainOptions) {
		o.TopK = k
	}
}

// WithTracer returns a ChainOption that records which source files each
// question considered and used.
func WithTracer(t Tracer) ChainOption {
	return func(o *chainOptions) {
		o.Tracer = t
	}
}

// Chain grounds model answers in retrieved chunks. It combines a
// Retriever for context building with a Completer for reasoning, and
// refuses to answer from thin air when retrieval comes back empty.
type Chain struct {
	retriever Retriever
	completer Completer
	options   chainOptions
}

// NewChain creates a retrieval-augmented answering chain.
//
// Example:
//
//	chain := query.NewChain(retriever, aiClient, query.WithTopK(6))
func NewChain(r Retriever, c Completer, opts ...ChainOption) *Chain {
	chain := Chain{
		retriever: r,
		completer: c,
		options:   chainOptions{TopK: DefaultTopK},
	}

	for _, o := range opts {
		o(&chain.options)
	}
	if chain.options.TopK <= 0 {
		chain.options.TopK = DefaultTopK
	}

	return &chain
}

// Ask answers a question from the corpus. Retrieved chunks become the
// answer context; when nothing relevant is found the model is asked to
// say so in the question's language instead of hallucinating.
func (c *Chain) Ask(ctx context.Context, question string) (*Answer, error) {
	chunks, err := c.retriever.Retrieve(ctx, question, c.options.TopK)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		return c.noDataAnswer(ctx, question)
	}

	sources := make([]string, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))
	sections := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if _, ok := seen[chunk.SourceFile]; !ok {
			seen[chunk.SourceFile] = struct{}{}
			sources = append(sources, chunk.SourceFile)
		}
		sections = append(sections, fmt.Sprintf("[Source: %s, page %d]\n%s", chunk.SourceFile, chunk.Page, chunk.Text))
	}
	RecordConsideredSources(c.options.Tracer, sources...)

	prompt := fmt.Sprintf(ai.QueryAnswerPrompt, strings.Join(sections, "\n\n"), question)

	generateOpts := []ai.GenerateOption{}
	if len(c.options.SystemPrompts) > 0 {
		generateOpts = append(generateOpts, ai.WithSystemPrompts(c.options.SystemPrompts...))
	}
	if c.options.Model != "" {
		generateOpts = append(generateOpts, ai.WithModel(c.options.Model))
	}

	text, err := c.completer.GenerateCompletion(ctx, prompt, generateOpts...)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}
	RecordUsedSources(c.options.Tracer, sources...)

	return &Answer{
		Text:    text,
		Sources: sources,
		Chunks:  chunks,
	}, nil
}

// noDataAnswer generates a response in the user's language when no
// relevant context is found in the knowledge base.
func (c *Chain) noDataAnswer(ctx context.Context, question string) (*Answer, error) {
	prompt := fmt.Sprintf(ai.NoDataPrompt, question)
	text, err := c.completer.GenerateCompletion(ctx, prompt)
	if err != nil {
		logger.Error("[Query] Failed to generate no data response", "err", err)
		return nil, err
	}

	return &Answer{Text: text, Sources: []string{}}, nil
}
