package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"supportbot/internal/domain"
	"supportbot/internal/port"
)

const intentPrompt = `Classify this query: %s
Options: faq, complaint, troubleshooting
Answer with the single category word.`

const sentimentPrompt = `Analyze the sentiment of this query: %s

Return a single word for each category:
1. Emotion: frustrated, confused, neutral, or positive
2. Urgency: low, medium, or high
3. Satisfaction: a number from 1 to 10

Format your response exactly like this:
Emotion: [word]
Urgency: [word]
Satisfaction: [number]`

// Classifier labels a query's intent and sentiment using the chat model.
// Both operations degrade instead of failing: classification errors yield
// the unknown intent or the default sentiment.
type Classifier struct {
	llm    port.LLM
	logger *slog.Logger
}

func NewClassifier(llm port.LLM, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{llm: llm, logger: logger}
}

// ClassifyIntent labels text as faq, complaint, or troubleshooting.
func (c *Classifier) ClassifyIntent(ctx context.Context, text string) string {
	answer, err := c.llm.Generate(ctx, fmt.Sprintf(intentPrompt, text))
	if err != nil {
		c.logger.Warn("intent classification failed", "error", err)
		return domain.IntentUnknown
	}
	return normalizeIntent(answer)
}

// AnalyzeSentiment extracts emotion, urgency and satisfaction from the
// model's free-text output.
func (c *Classifier) AnalyzeSentiment(ctx context.Context, text string) domain.Sentiment {
	answer, err := c.llm.Generate(ctx, fmt.Sprintf(sentimentPrompt, text))
	if err != nil {
		c.logger.Warn("sentiment analysis failed, using defaults", "error", err)
		return domain.DefaultSentiment()
	}
	return ParseSentiment(answer)
}

// normalizeIntent maps free-text model output onto a known intent label.
func normalizeIntent(answer string) string {
	lower := strings.ToLower(answer)
	switch {
	case strings.Contains(lower, domain.IntentTroubleshooting):
		return domain.IntentTroubleshooting
	case strings.Contains(lower, domain.IntentComplaint):
		return domain.IntentComplaint
	case strings.Contains(lower, domain.IntentFAQ):
		return domain.IntentFAQ
	default:
		return domain.IntentUnknown
	}
}

var (
	emotionRe      = regexp.MustCompile(`(?i)emotion:\s*\[?(\w+)`)
	urgencyRe      = regexp.MustCompile(`(?i)urgency:\s*\[?(\w+)`)
	satisfactionRe = regexp.MustCompile(`(?i)satisfaction:\s*\[?(\d+)`)
)

var validEmotions = map[string]bool{
	domain.EmotionFrustrated: true,
	domain.EmotionConfused:   true,
	domain.EmotionNeutral:    true,
	domain.EmotionPositive:   true,
}

var validUrgencies = map[string]bool{
	domain.UrgencyLow:    true,
	domain.UrgencyMedium: true,
	domain.UrgencyHigh:   true,
}

// ParseSentiment tolerantly extracts sentiment fields from free text.
// Each field falls back to its default independently; a single garbled
// line never fails the whole request.
func ParseSentiment(text string) domain.Sentiment {
	result := domain.DefaultSentiment()

	if m := emotionRe.FindStringSubmatch(text); m != nil {
		emotion := strings.ToLower(m[1])
		if validEmotions[emotion] {
			result.Emotion = emotion
		}
	}

	if m := urgencyRe.FindStringSubmatch(text); m != nil {
		urgency := strings.ToLower(m[1])
		if validUrgencies[urgency] {
			result.Urgency = urgency
		}
	}

	if m := satisfactionRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			result.Satisfaction = clamp(n, 1, 10)
		}
	}

	return result
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
