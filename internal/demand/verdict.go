package demand

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/llm"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/prompts"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/validation"
)

// The LLM path needs a real discussion to summarize; below these floors the
// deterministic keyword path runs instead.
const (
	DefaultMinSamples  = 3
	DefaultMinComments = 10
)

// verdictSentenceCount is the fixed shape of every summary.
const verdictSentenceCount = 3

// SummarizerOptions tune when the LLM path engages.
type SummarizerOptions struct {
	MinSamples  int
	MinComments int
}

// Summarizer produces community verdicts: LLM-written when the discussion is
// substantial, keyword-derived otherwise. Both paths emit the same
// three-sentence contract.
type Summarizer struct {
	client      llm.Client
	minSamples  int
	minComments int
}

// NewSummarizer builds a summarizer. A nil client pins every verdict to the
// keyword path.
func NewSummarizer(client llm.Client, opts SummarizerOptions) *Summarizer {
	minSamples := opts.MinSamples
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	minComments := opts.MinComments
	if minComments <= 0 {
		minComments = DefaultMinComments
	}
	return &Summarizer{client: client, minSamples: minSamples, minComments: minComments}
}

// Summarize produces the community verdict for one product's payload. The
// LLM path failing for any reason falls back to the keyword path rather
// than surfacing an error.
func (s *Summarizer) Summarize(ctx context.Context, productName string, payload *types.DemandPayload) *types.CommunityVerdict {
	if payload == nil {
		return nil
	}
	if s.shouldUseLLM(payload) {
		if verdict, err := s.llmVerdict(ctx, productName, payload); err == nil {
			return verdict
		}
	}
	return keywordVerdict(productName, payload)
}

// SummarizeAll attaches verdicts to every product carrying a demand payload.
func (s *Summarizer) SummarizeAll(ctx context.Context, products []*types.Product) {
	for _, p := range products {
		if p == nil || p.Demand == nil {
			continue
		}
		p.Demand.Verdict = s.Summarize(ctx, p.Name, p.Demand)
	}
}

func (s *Summarizer) shouldUseLLM(payload *types.DemandPayload) bool {
	return s.client != nil &&
		payload.HN.Status == types.SignalOK &&
		len(payload.HN.SampleComments) >= s.minSamples &&
		payload.HN.Comments >= s.minComments
}

func (s *Summarizer) llmVerdict(ctx context.Context, productName string, payload *types.DemandPayload) (*types.CommunityVerdict, error) {
	// Comments are scraped text from strangers; strip injection attempts
	// and label them as quoted data before they touch a prompt.
	joined := strings.Join(payload.HN.SampleComments, "\n---\n")
	sanitized := validation.SanitizeForPrompt(joined, "HN COMMENTS")

	template := prompts.MustGet("verdict.json", "community-verdict")
	prompt := prompts.Format(template, map[string]string{
		"ProductName":  productName,
		"Points":       strconv.Itoa(payload.HN.Points),
		"CommentCount": strconv.Itoa(payload.HN.Comments),
		"Comments":     sanitized,
	})

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("verdict generation failed: %w", err)
	}

	var parsed struct {
		Summary    string  `json:"summary"`
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse verdict response: %w", err)
	}
	if strings.TrimSpace(parsed.Summary) == "" {
		return nil, fmt.Errorf("verdict response missing summary")
	}

	return &types.CommunityVerdict{
		Summary:    NormalizeSentences(parsed.Summary, verdictSentenceCount),
		Sentiment:  parseSentiment(parsed.Sentiment),
		Confidence: clamp01(parsed.Confidence),
		Source:     "llm",
	}, nil
}

// Markers for the keyword fallback. Matching is case-insensitive substring;
// these are deliberately unambiguous words so a fragment like "not great"
// miscounting once does not flip the overall read.
var positiveMarkers = []string{
	"love", "great", "impressive", "useful", "excellent",
	"works well", "solid", "recommend", "amazing",
}

var negativeMarkers = []string{
	"returned", "disappointing", "broken", "useless", "waste",
	"overpriced", "scam", "vaporware", "regret", "refund",
}

func keywordVerdict(productName string, payload *types.DemandPayload) *types.CommunityVerdict {
	hn := payload.HN
	pos, neg := countMarkers(hn.SampleComments)
	sentiment := sentimentFromCounts(pos, neg)

	var sentences []string
	if hn.Comments > 0 {
		sentences = append(sentences, fmt.Sprintf(
			"%s drew %d comments on %d points in its strongest recent Hacker News thread.",
			productName, hn.Comments, hn.Points))
	} else {
		sentences = append(sentences, fmt.Sprintf(
			"%s has not drawn substantial community discussion recently.", productName))
	}

	switch sentiment {
	case types.SentimentPositive:
		sentences = append(sentences, "Sampled comments lean clearly positive about the product.")
	case types.SentimentNegative:
		sentences = append(sentences, "Sampled comments lean negative, with recurring complaints.")
	case types.SentimentMixed:
		sentences = append(sentences, "Sampled comments are split between praise and complaints.")
	default:
		sentences = append(sentences, "Sampled comments show no strong sentiment either way.")
	}

	switch {
	case hn.IsControversial:
		sentences = append(sentences, "The thread runs far deeper than its upvotes, which usually signals disagreement.")
	case payload.X.NonOfficialMentions7d > 0:
		sentences = append(sentences, fmt.Sprintf(
			"Beyond the official account, %d recent X posts from %d authors mention it.",
			payload.X.NonOfficialMentions7d, payload.X.UniqueAuthors7d))
	}

	confidence := 0.3
	if len(hn.SampleComments) > 0 {
		confidence = 0.5
	}

	return &types.CommunityVerdict{
		Summary:    NormalizeSentences(strings.Join(sentences, " "), verdictSentenceCount),
		Sentiment:  sentiment,
		Confidence: confidence,
		Source:     "keyword",
	}
}

func countMarkers(comments []string) (pos, neg int) {
	for _, comment := range comments {
		lower := strings.ToLower(comment)
		for _, marker := range positiveMarkers {
			if strings.Contains(lower, marker) {
				pos++
			}
		}
		for _, marker := range negativeMarkers {
			if strings.Contains(lower, marker) {
				neg++
			}
		}
	}
	return pos, neg
}

func sentimentFromCounts(pos, neg int) types.Sentiment {
	switch {
	case pos > 0 && neg > 0:
		return types.SentimentMixed
	case pos > neg:
		return types.SentimentPositive
	case neg > pos:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

func parseSentiment(raw string) types.Sentiment {
	switch types.Sentiment(strings.ToLower(strings.TrimSpace(raw))) {
	case types.SentimentPositive:
		return types.SentimentPositive
	case types.SentimentMixed:
		return types.SentimentMixed
	case types.SentimentNegative:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

// fillerSentences pad short summaries up to the fixed sentence count.
var fillerSentences = []string{
	"Broader community reaction has not surfaced yet.",
	"Demand evidence beyond this remains limited.",
	"No further discussion details are available.",
}

// NormalizeSentences coerces text into exactly want sentences, truncating
// extras and padding shortfalls with neutral filler.
func NormalizeSentences(text string, want int) string {
	if want <= 0 {
		return ""
	}
	sentences := splitSentences(text)
	if len(sentences) > want {
		sentences = sentences[:want]
	}
	for i := 0; len(sentences) < want; i++ {
		sentences = append(sentences, fillerSentences[i%len(fillerSentences)])
	}
	return strings.Join(sentences, " ")
}

// splitSentences breaks text on terminator runs followed by whitespace or
// end-of-text, so decimals ("$3.5M") and version strings ("v2.0") do not
// split mid-number.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	runes := []rune(strings.TrimSpace(text))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Absorb closing quotes/brackets after the terminator.
		for i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\'' || runes[i+1] == ')') {
			i++
			b.WriteRune(runes[i])
		}
		if i+1 < len(runes) && !isSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}
	if rest := strings.TrimSpace(b.String()); rest != "" {
		sentences = append(sentences, rest+".")
	}
	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
