package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/Veraticus/eco-ledger/internal/testutil/factors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient replies with queued responses in order.
type scriptedClient struct {
	replies []scriptedReply
	prompts []string
	mu      sync.Mutex
}

type scriptedReply struct {
	err     error
	content string
}

func (c *scriptedClient) Complete(_ context.Context, _ string, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, prompt)
	if len(c.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply.content, reply.err
}

func (c *scriptedClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func newTestExtractor(t *testing.T, client Client, table *footprint.FactorTable) *Extractor {
	t.Helper()
	return NewExtractorWithClient(client, Config{MaxRetries: 3, RetryDelay: time.Millisecond, RateLimit: 1000}, table, nil)
}

func TestExtractor_ExtractActivity(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{content: "```json\n{\"category\":\"transport\",\"quantity\":12,\"unit\":\"km\",\"variant\":\"bus\"}\n```"},
	}}
	e := newTestExtractor(t, client, nil)

	got, err := e.ExtractActivity(context.Background(), "Took the bus 12 km")
	require.NoError(t, err)
	assert.Equal(t, "transport", got.Category)
	assert.Equal(t, "bus", got.Variant)

	t.Run("cached on repeat", func(t *testing.T) {
		again, err := e.ExtractActivity(context.Background(), "took the bus   12 km")
		require.NoError(t, err)
		assert.Equal(t, got.Category, again.Category)
		assert.Equal(t, 1, client.calls())
	})
}

func TestExtractor_RateLimitSkipsCachedText(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{content: `{"category":"transport","quantity":15,"unit":"km"}`},
		{content: `{"category":"water","quantity":2,"unit":"liter"}`},
	}}
	e := NewExtractorWithClient(client, Config{MaxRetries: 1, RetryDelay: time.Millisecond, RateLimit: 60}, nil, nil)

	_, err := e.ExtractActivity(context.Background(), "drove 15 km")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	cached, err := e.ExtractActivity(ctx, "Drove 15 KM")
	require.NoError(t, err)
	assert.Equal(t, "transport", cached.Category)

	_, err = e.ExtractActivity(ctx, "boiled 2 liters")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, 1, client.calls())
}

func TestExtractor_BlankTextSkipsModel(t *testing.T) {
	client := &scriptedClient{}
	e := newTestExtractor(t, client, nil)

	got, err := e.ExtractActivity(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, got.Insufficient)
	assert.Zero(t, client.calls())

	_, err = got.Entry()
	var incomplete *footprint.IncompleteActivityError
	require.ErrorAs(t, err, &incomplete)
}

func TestExtractor_RetriesUnparseableReply(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{content: "I think you drove somewhere"},
		{err: errors.New("connection reset")},
		{content: `{"category":"energy","quantity":3,"unit":"kwh"}`},
	}}
	e := newTestExtractor(t, client, nil)

	got, err := e.ExtractActivity(context.Background(), "ran the heater")
	require.NoError(t, err)
	assert.Equal(t, "energy", got.Category)
	assert.Equal(t, 3, client.calls())
}

func TestExtractor_PermanentFailure(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{err: common.Permanent(errors.New("unauthorized"))},
	}}
	e := newTestExtractor(t, client, nil)

	_, err := e.ExtractActivity(context.Background(), "drove 5 km")
	require.ErrorIs(t, err, common.ErrExtractionFailed)
	assert.Equal(t, 1, client.calls())
}

func TestExtractor_ExtractionFlowsThroughLedger(t *testing.T) {
	table := testFactorTable(t)
	ledger, err := footprint.NewLedger(table, footprint.DefaultThresholds())
	require.NoError(t, err)

	client := &scriptedClient{replies: []scriptedReply{
		{content: `{"category":"transport","quantity":null,"unit":null,"missing":["quantity","unit"],"emission":4.2}`},
		{content: `{"category":"transport","quantity":10,"unit":"km","emission":999}`},
	}}
	e := newTestExtractor(t, client, table)

	incomplete, err := e.ExtractActivity(context.Background(), "I drove to work")
	require.NoError(t, err)
	_, err = ledger.AddExtracted(incomplete)
	var incErr *footprint.IncompleteActivityError
	require.ErrorAs(t, err, &incErr)
	assert.True(t, incErr.Needs("quantity"))
	assert.Equal(t, 0, ledger.Len())

	complete, err := e.ExtractActivity(context.Background(), "I drove 10 km to work")
	require.NoError(t, err)
	record, err := ledger.AddExtracted(complete)
	require.NoError(t, err)
	assert.InDelta(t, 10*0.23, record.EmissionKg, 1e-9)
}

func TestExtractor_PromptListsVariants(t *testing.T) {
	table := testFactorTable(t)

	e := newTestExtractor(t, &scriptedClient{}, table)
	prompt := e.buildExtractionPrompt("x")

	assert.Contains(t, prompt, "- transport: km")
	assert.Contains(t, prompt, "transport/km: bicycle, diesel")
	assert.Contains(t, prompt, "diet/day: vegan, vegetarian")
	assert.Contains(t, prompt, `Activity: "x"`)
}

func TestExtractor_SuggestTips(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{content: "nothing useful"},
		{content: "Bike to work|High|transport\nLower the thermostat|Medium|energy\nCompost scraps|Low|waste\nShorter showers|Low|water"},
	}}
	e := newTestExtractor(t, client, nil)

	records := []model.ActivityRecord{{
		Category:    model.CategoryTransport,
		Unit:        model.UnitKilometer,
		Description: "commute",
		Quantity:    12,
		EmissionKg:  2.52,
	}}

	tips, err := e.SuggestTips(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, tips, 3)
	assert.Equal(t, "Bike to work", tips[0].Title)
	assert.Contains(t, client.prompts[0], "commute: 12 km")
}

func TestExtractor_SuggestTipsNone(t *testing.T) {
	client := &scriptedClient{replies: []scriptedReply{
		{content: "no"}, {content: "still no"}, {content: "nope"},
	}}
	e := newTestExtractor(t, client, nil)

	_, err := e.SuggestTips(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrNoSuggestions)
}

func testFactorTable(t *testing.T) *footprint.FactorTable {
	t.Helper()
	return factors.NewBuilder(t).
		WithFixture(factors.FixtureBaseline).
		WithFixture(factors.FixtureVariants).
		Table()
}
