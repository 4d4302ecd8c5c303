package summary

import (
	"context"
	"fmt"
	"sync"

	"github.com/lehigh-university-libraries/bookbrief/internal/providers"
)

// scriptedProvider replays canned responses in order and records every call
type scriptedProvider struct {
	mu        sync.Mutex
	responses []scripted
	calls     []providers.Config
}

type scripted struct {
	text string
	err  error
}

func reply(text string) scripted { return scripted{text: text} }

func fail(msg string) scripted { return scripted{err: fmt.Errorf("%s", msg)} }

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) GenerateText(_ context.Context, config providers.Config) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, config)
	if len(p.responses) == 0 {
		return "", fmt.Errorf("no scripted response left")
	}
	next := p.responses[0]
	p.responses = p.responses[1:]
	return next.text, next.err
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
