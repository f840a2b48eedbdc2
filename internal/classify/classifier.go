// Package classify decides which department a citizen message belongs to and
// whether a message is only small talk.
package classify

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/city-intake/internal/department"
	"github.com/ziadkadry99/city-intake/internal/llm"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 10 * time.Second

// keywordSets are checked in department priority order, so a message that
// mentions both a road and garbage is routed to traffic.
var keywordSets = []struct {
	dept  department.Department
	words []string
}{
	{department.Traffic, []string{
		"traffic", "road", "congestion", "parking", "accident", "pothole", "highway",
		"intersection", "stop sign", "traffic light", "speed limit", "blocked", "blockage",
	}},
	{department.Waste, []string{
		"trash", "garbage", "waste", "recycling", "litter", "dump", "bin", "rubbish",
		"refuse", "collection", "overflowing", "smell", "smells",
	}},
	{department.Energy, []string{
		"park", "green", "energy", "electricity", "pollution", "tree", "environment",
		"solar", "wind", "renewable", "carbon", "emission", "light", "lights",
		"street light", "streetlight", "street lights", "lamp", "lamps", "power", "utility",
	}},
}

const routingPrompt = `You are a routing assistant. Classify the user's message into one of these departments:
- traffic_dept: For congestion, road issues, traffic lights, parking, accidents, road maintenance
- waste_dept: For trash, recycling, garbage collection, waste disposal, litter
- energy_dept: For parks, green spaces, electricity issues, pollution, environmental concerns

Respond with ONLY one word: traffic_dept, waste_dept, or energy_dept`

// Classifier routes messages to a department. The model backend is optional;
// without one the classifier relies on keywords and the traffic default.
type Classifier struct {
	provider llm.Provider
	model    string
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a Classifier. provider may be nil.
func New(provider llm.Provider, model string, timeout time.Duration, logger *zap.Logger) *Classifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		provider: provider,
		model:    model,
		timeout:  timeout,
		logger:   logger.With(zap.String("component", "classifier")),
	}
}

// Classify always returns a routable department.
func (c *Classifier) Classify(ctx context.Context, text string) department.Department {
	if d, ok := Keywords(text); ok {
		return d
	}
	if d, ok := c.ask(ctx, text); ok {
		return d
	}
	return department.Traffic
}

// Keywords runs the keyword stage alone.
func Keywords(text string) (department.Department, bool) {
	lower := strings.ToLower(text)
	for _, set := range keywordSets {
		for _, w := range set.words {
			if strings.Contains(lower, w) {
				return set.dept, true
			}
		}
	}
	return department.None, false
}

func (c *Classifier) ask(ctx context.Context, text string) (department.Department, bool) {
	if c.provider == nil {
		return department.None, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{llm.System(routingPrompt), llm.User(text)},
		MaxTokens:   10,
		Temperature: 0,
	})
	if err != nil {
		c.logger.Warn("model classification failed, using keyword routing",
			zap.String("provider", c.provider.Name()), zap.Error(err))
		return department.None, false
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Content))
	for _, d := range department.All {
		if strings.Contains(answer, string(d)) {
			return d, true
		}
	}
	c.logger.Debug("model answer matched no department", zap.String("answer", answer))
	return department.None, false
}
