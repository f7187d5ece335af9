package outlining

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/brief-studio/internal/llm"
	"github.com/jonathan/brief-studio/internal/research"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements llm.Client with canned responses.
type fakeClient struct {
	reply  string
	err    error
	prompt string
	tier   llm.ModelTier
	calls  int
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompt = prompt
	f.tier = tier
	f.calls++
	return f.reply, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(context.Background(), prompt, tier)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

const validOutlineReply = `{
	"total_word_count": 2000,
	"sections": [
		{"level": "H2", "heading": "Crawling", "children": [
			{"level": "H3", "heading": "Crawl budget"}
		]},
		{"level": "H2", "heading": "Indexing"}
	]
}`

func TestGenerateBuildsPromptFromRequest(t *testing.T) {
	client := &fakeClient{reply: validOutlineReply}
	svc := NewService(client)

	doc, err := svc.Generate(context.Background(), Request{
		Topic:     "Technical SEO",
		Language:  "German",
		WordCount: 2000,
		Coverage:  "competitors lead with crawling",
	})

	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Crawling", doc.Sections[0].Heading)
	assert.Equal(t, 2000, doc.TotalWordCount)
	assert.Equal(t, llm.TierStandard, client.tier)
	assert.Contains(t, client.prompt, "Technical SEO")
	assert.Contains(t, client.prompt, "German")
	assert.Contains(t, client.prompt, "2000")
	assert.Contains(t, client.prompt, "competitors lead with crawling")
}

func TestGenerateDefaults(t *testing.T) {
	client := &fakeClient{reply: `{"sections": [{"level": "H2", "heading": "Only section"}]}`}
	svc := NewService(client)

	doc, err := svc.Generate(context.Background(), Request{Topic: "Technical SEO"})

	require.NoError(t, err)
	assert.Contains(t, client.prompt, DefaultLanguage)
	// Reply carried no target, so the request default fills it in.
	assert.Equal(t, DefaultWordCount, doc.TotalWordCount)
}

func TestGenerateValidation(t *testing.T) {
	svc := NewService(&fakeClient{reply: validOutlineReply})

	tests := []struct {
		name string
		req  Request
	}{
		{"empty topic", Request{}},
		{"whitespace topic", Request{Topic: "   "}},
		{"negative word count", Request{Topic: "SEO basics", WordCount: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.req)
			var invalid *InvalidRequestError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestGenerateRejectsSchemaInvalidReply(t *testing.T) {
	// H1 is not a permitted level, so the reply must not reach the caller.
	client := &fakeClient{reply: `{"sections": [{"level": "H1", "heading": "Nope"}]}`}
	svc := NewService(client)

	_, err := svc.Generate(context.Background(), Request{Topic: "Technical SEO"})

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "invalid outline")
}

func TestGenerateWrapsGenerationFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	svc := NewService(&fakeClient{err: cause})

	_, err := svc.Generate(context.Background(), Request{Topic: "Technical SEO"})

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, cause)
}

func TestSummarizeCoverage(t *testing.T) {
	client := &fakeClient{reply: "Competitors focus on crawling.\n"}
	svc := NewService(client)

	pages := []research.CompetitorPage{
		{URL: "a", Headings: []research.Heading{{Level: "h2", Text: "Crawling basics"}}},
		{URL: "b", Headings: []research.Heading{{Level: "h3", Text: "Crawl budget"}}},
	}

	note, err := svc.SummarizeCoverage(context.Background(), "Technical SEO", pages)

	require.NoError(t, err)
	assert.Equal(t, "Competitors focus on crawling.", note)
	assert.Equal(t, llm.TierLite, client.tier)
	assert.Contains(t, client.prompt, "Technical SEO")
	assert.Contains(t, client.prompt, "h2: Crawling basics")
	assert.Contains(t, client.prompt, "h3: Crawl budget")
}

func TestSummarizeCoverageSkipsModelWithoutHeadings(t *testing.T) {
	client := &fakeClient{reply: "should not be used"}
	svc := NewService(client)

	note, err := svc.SummarizeCoverage(context.Background(), "Technical SEO", []research.CompetitorPage{{URL: "a"}})

	require.NoError(t, err)
	assert.Empty(t, note)
	assert.Zero(t, client.calls)
}
