package scoring

import "strings"

// Keyword weights for AI-relevance scoring.
const (
	highRelevanceWeight   = 0.4
	mediumRelevanceWeight = 0.15
	lowRelevanceWeight    = 0.05
)

// highRelevanceKeywords mark products whose core offering is an AI system.
var highRelevanceKeywords = []string{
	"llm",
	"large language model",
	"foundation model",
	"generative ai",
	"gpt",
	"ai agent",
	"agentic",
	"machine learning",
	"deep learning",
	"neural network",
	"transformer",
	"diffusion model",
	"multimodal",
	"fine-tun",
	"inference engine",
	"retrieval-augmented",
	"copilot",
	"text-to-",
}

// mediumRelevanceKeywords mark AI-adjacent functionality.
var mediumRelevanceKeywords = []string{
	"ai-powered",
	"ai powered",
	"artificial intelligence",
	"chatbot",
	"computer vision",
	"speech recognition",
	"voice assistant",
	"nlp",
	"natural language",
	"recommendation engine",
	"anomaly detection",
	"automation",
	"semantic search",
}

// lowRelevanceKeywords are weak signals that appear across the industry.
var lowRelevanceKeywords = []string{
	"smart",
	"assistant",
	"predictive",
	"analytics",
	"personalized",
	"robot",
}

// nicheCategories rate how specialized a product's primary category is.
// Specialized verticals score high; crowded generic categories score low.
var nicheCategories = map[string]float64{
	"robotics":        1.0,
	"biotech":         1.0,
	"space":           1.0,
	"defense":         1.0,
	"climate":         0.9,
	"healthcare":      0.9,
	"legal":           0.9,
	"materials":       0.9,
	"manufacturing":   0.8,
	"security":        0.8,
	"finance":         0.7,
	"education":       0.7,
	"developer tools": 0.6,
	"hardware":        0.6,
	"productivity":    0.3,
	"chatbot":         0.3,
	"content":         0.3,
	"marketing":       0.3,
}

const defaultNicheBonus = 0.5

// aiRelevance scores how central AI is to the product, from weighted
// keyword hits over its descriptive text, capped at 1.0.
func aiRelevance(corpus string) float64 {
	corpus = strings.ToLower(corpus)
	score := 0.0
	for _, kw := range highRelevanceKeywords {
		if strings.Contains(corpus, kw) {
			score += highRelevanceWeight
		}
	}
	for _, kw := range mediumRelevanceKeywords {
		if strings.Contains(corpus, kw) {
			score += mediumRelevanceWeight
		}
	}
	for _, kw := range lowRelevanceKeywords {
		if strings.Contains(corpus, kw) {
			score += lowRelevanceWeight
		}
	}
	return clamp01(score)
}

// nicheBonus rates the specialization of the product's categories, taking
// the most specialized category present.
func nicheBonus(categories []string) float64 {
	best := 0.0
	found := false
	for _, cat := range categories {
		if bonus, ok := nicheCategories[strings.ToLower(strings.TrimSpace(cat))]; ok {
			found = true
			if bonus > best {
				best = bonus
			}
		}
	}
	if !found {
		return defaultNicheBonus
	}
	return best
}
