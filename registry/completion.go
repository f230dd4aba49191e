package registry

import (
	"context"
	"strings"
)

// CompletionProvider suggests values for a single prompt or resource-template
// argument. Providers are stored on references keyed by argument name; the
// registry never invokes them.
type CompletionProvider interface {
	Complete(ctx context.Context, value string) ([]string, error)
}

// CompletionFunc adapts a plain function to CompletionProvider.
type CompletionFunc func(ctx context.Context, value string) ([]string, error)

func (f CompletionFunc) Complete(ctx context.Context, value string) ([]string, error) {
	return f(ctx, value)
}

// ListCompletionProvider completes from a fixed list of values, keeping the
// entries that start with the current input.
type ListCompletionProvider []string

func (l ListCompletionProvider) Complete(_ context.Context, value string) ([]string, error) {
	out := make([]string, 0, len(l))
	for _, v := range l {
		if strings.HasPrefix(v, value) {
			out = append(out, v)
		}
	}
	return out, nil
}

func cloneCompletions(in map[string]CompletionProvider) map[string]CompletionProvider {
	out := make(map[string]CompletionProvider, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
