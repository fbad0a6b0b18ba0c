package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yungbote/medstudy-backend/internal/observability"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/platform/openai"
)

const (
	OpAsk             = "ask"
	OpRecommendations = "recommendations"
	OpEnhanceNotes    = "enhance_notes"
	OpGenerateMCQs    = "generate_mcqs"

	apologyAnswer     = "I apologize, but I couldn't process your question properly."
	defaultConfidence = 0.7
	DefaultDifficulty = "medium"
)

const askSystemPrompt = `You are an advanced medical AI assistant helping medical students learn.
Provide accurate, educational medical information with appropriate disclaimers.
Always include confidence level and suggest related topics for further study.
Format your response as JSON with: answer, confidence (0-1), sources (optional), relatedTopics (optional).
Remember this is for educational purposes only and not for actual medical diagnosis.`

const recommendationsSystemPrompt = `You are an AI study advisor for medical students.
Analyze the user's progress and study history to recommend optimal study topics.
Consider: progress gaps, time since last study, accuracy rates, and medical curriculum importance.
Return JSON object {"recommendations": [...]} where each item has: subject, topic, reason, priority (high/medium/low), estimatedTime (minutes).`

const enhanceSystemPrompt = `You are an AI assistant that enhances medical study notes.
Improve clarity, add relevant details, correct any inaccuracies, and maintain educational value.
Keep the original structure but make it more comprehensive and easier to study from.`

const mcqSystemPrompt = `You are a medical education AI that creates high-quality multiple choice questions.
Generate clinically relevant MCQs with explanations for each answer option.
Return JSON object {"questions": [...]} where each item has: question, options (array of 4-5 choices), correctAnswer (index), explanation, difficulty.`

var (
	validPriorities   = map[string]struct{}{"high": {}, "medium": {}, "low": {}}
	validDifficulties = map[string]struct{}{"easy": {}, "medium": {}, "hard": {}}
)

type QuestionAnswer struct {
	Answer        string   `json:"answer"`
	Confidence    float64  `json:"confidence"`
	Sources       []string `json:"sources"`
	RelatedTopics []string `json:"relatedTopics"`
}

type StudyRecommendation struct {
	Subject       string `json:"subject"`
	Topic         string `json:"topic"`
	Reason        string `json:"reason"`
	Priority      string `json:"priority"`
	EstimatedTime int    `json:"estimatedTime"`
}

type MCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

// ProgressSnapshot and StudyHistoryItem are the recommendation inputs.
type ProgressSnapshot struct {
	Subject     string     `json:"subject"`
	Progress    float64    `json:"progress"`
	LastStudied *time.Time `json:"lastStudied,omitempty"`
}

type StudyHistoryItem struct {
	Subject  string  `json:"subject"`
	Duration int     `json:"duration"`
	Accuracy float64 `json:"accuracy"`
}

// Fallback is the failure policy of one AI operation: either a hard failure
// surfaced as ErrAIUnavailable, or a substitute value returned as success.
type Fallback[T any] struct {
	value func() T
}

func HardFail[T any]() Fallback[T] { return Fallback[T]{} }

func SoftFallback[T any](value func() T) Fallback[T] { return Fallback[T]{value: value} }

func (f Fallback[T]) Soft() bool { return f.value != nil }

func (f Fallback[T]) resolve(log *logger.Logger, op string, cause error) (T, error) {
	if f.value == nil {
		var zero T
		log.Warn("AI operation failed", "operation", op, "error", cause)
		return zero, fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrAIUnavailable, cause)
	}
	observability.Current().IncAIFallback(op)
	log.Warn("AI operation degraded to fallback", "operation", op, "error", cause)
	return f.value(), nil
}

type AIService interface {
	AskMedicalQuestion(ctx context.Context, question, questionContext string) (QuestionAnswer, error)
	GenerateStudyRecommendations(ctx context.Context, progress []ProgressSnapshot, history []StudyHistoryItem) ([]StudyRecommendation, error)
	EnhanceNotes(ctx context.Context, notes, subject string) (string, error)
	GenerateMCQs(ctx context.Context, subject, topic, difficulty string) ([]MCQ, error)
}

type aiService struct {
	log    *logger.Logger
	client openai.Client
}

func NewAIService(log *logger.Logger, client openai.Client) AIService {
	return &aiService{log: log.With("service", "AIService"), client: client}
}

func (s *aiService) AskMedicalQuestion(ctx context.Context, question, questionContext string) (QuestionAnswer, error) {
	fallback := HardFail[QuestionAnswer]()
	question = strings.TrimSpace(question)
	if question == "" {
		return QuestionAnswer{}, pkgerrors.InvalidArgument("Question is required")
	}
	user := "Question: " + question
	if c := strings.TrimSpace(questionContext); c != "" {
		user = "Context: " + c + "\n\n" + user
	}
	res, err := s.client.Complete(ctx, openai.ChatRequest{
		Operation:   OpAsk,
		System:      askSystemPrompt,
		User:        user,
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		return fallback.resolve(s.log, OpAsk, err)
	}
	out, err := coerceAnswer(res.Content)
	if err != nil {
		return fallback.resolve(s.log, OpAsk, err)
	}
	return out, nil
}

func coerceAnswer(content string) (QuestionAnswer, error) {
	var raw struct {
		Answer        *string  `json:"answer"`
		Confidence    *float64 `json:"confidence"`
		Sources       []string `json:"sources"`
		RelatedTopics []string `json:"relatedTopics"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return QuestionAnswer{}, fmt.Errorf("decode answer: %w", err)
	}
	out := QuestionAnswer{
		Answer:        apologyAnswer,
		Confidence:    defaultConfidence,
		Sources:       raw.Sources,
		RelatedTopics: raw.RelatedTopics,
	}
	if raw.Answer != nil && strings.TrimSpace(*raw.Answer) != "" {
		out.Answer = *raw.Answer
	}
	if raw.Confidence != nil && !math.IsNaN(*raw.Confidence) {
		out.Confidence = math.Max(0, math.Min(1, *raw.Confidence))
	}
	if out.Sources == nil {
		out.Sources = []string{}
	}
	if out.RelatedTopics == nil {
		out.RelatedTopics = []string{}
	}
	return out, nil
}

func (s *aiService) GenerateStudyRecommendations(ctx context.Context, progress []ProgressSnapshot, history []StudyHistoryItem) ([]StudyRecommendation, error) {
	fallback := SoftFallback(func() []StudyRecommendation { return []StudyRecommendation{} })
	if progress == nil {
		progress = []ProgressSnapshot{}
	}
	if history == nil {
		history = []StudyHistoryItem{}
	}
	progressJSON, err := json.Marshal(progress)
	if err != nil {
		return fallback.resolve(s.log, OpRecommendations, err)
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fallback.resolve(s.log, OpRecommendations, err)
	}
	user := fmt.Sprintf("User Progress: %s\nStudy History: %s\n\nProvide 3-5 personalized study recommendations.", progressJSON, historyJSON)
	res, err := s.client.Complete(ctx, openai.ChatRequest{
		Operation:   OpRecommendations,
		System:      recommendationsSystemPrompt,
		User:        user,
		Temperature: 0.4,
		JSON:        true,
	})
	if err != nil {
		return fallback.resolve(s.log, OpRecommendations, err)
	}
	out, err := coerceRecommendations(res.Content)
	if err != nil {
		return fallback.resolve(s.log, OpRecommendations, err)
	}
	return out, nil
}

func coerceRecommendations(content string) ([]StudyRecommendation, error) {
	var raw struct {
		Recommendations []json.RawMessage `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	out := make([]StudyRecommendation, 0, len(raw.Recommendations))
	for _, item := range raw.Recommendations {
		var r StudyRecommendation
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		r.Priority = strings.ToLower(strings.TrimSpace(r.Priority))
		if _, ok := validPriorities[r.Priority]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *aiService) EnhanceNotes(ctx context.Context, notes, subject string) (string, error) {
	if strings.TrimSpace(notes) == "" {
		return "", pkgerrors.InvalidArgument("Notes content is required")
	}
	fallback := SoftFallback(func() string { return notes })
	user := "Original Notes: " + notes
	if sub := strings.TrimSpace(subject); sub != "" {
		user = "Subject: " + sub + "\n\n" + user
	}
	res, err := s.client.Complete(ctx, openai.ChatRequest{
		Operation:   OpEnhanceNotes,
		System:      enhanceSystemPrompt,
		User:        user,
		Temperature: 0.3,
	})
	if err != nil {
		return fallback.resolve(s.log, OpEnhanceNotes, err)
	}
	if strings.TrimSpace(res.Content) == "" {
		return fallback.resolve(s.log, OpEnhanceNotes, fmt.Errorf("empty enhancement"))
	}
	return res.Content, nil
}

// NormalizeDifficulty defaults an empty difficulty to medium and rejects
// anything outside easy/medium/hard.
func NormalizeDifficulty(difficulty string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(difficulty))
	if d == "" {
		return DefaultDifficulty, nil
	}
	if _, ok := validDifficulties[d]; !ok {
		return "", pkgerrors.InvalidArgument("difficulty must be one of easy, medium, hard")
	}
	return d, nil
}

func (s *aiService) GenerateMCQs(ctx context.Context, subject, topic, difficulty string) ([]MCQ, error) {
	subject, topic = strings.TrimSpace(subject), strings.TrimSpace(topic)
	if subject == "" || topic == "" {
		return nil, pkgerrors.InvalidArgument("Subject and topic are required")
	}
	difficulty, err := NormalizeDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	fallback := SoftFallback(func() []MCQ { return []MCQ{} })
	user := fmt.Sprintf("Subject: %s\nTopic: %s\nDifficulty: %s\n\nGenerate 5 multiple choice questions.", subject, topic, difficulty)
	res, err := s.client.Complete(ctx, openai.ChatRequest{
		Operation:   OpGenerateMCQs,
		System:      mcqSystemPrompt,
		User:        user,
		Temperature: 0.5,
		JSON:        true,
	})
	if err != nil {
		return fallback.resolve(s.log, OpGenerateMCQs, err)
	}
	out, err := coerceMCQs(res.Content, difficulty)
	if err != nil {
		return fallback.resolve(s.log, OpGenerateMCQs, err)
	}
	return out, nil
}

func coerceMCQs(content, difficulty string) ([]MCQ, error) {
	var raw struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	out := make([]MCQ, 0, len(raw.Questions))
	for _, item := range raw.Questions {
		var q MCQ
		if err := json.Unmarshal(item, &q); err != nil {
			continue
		}
		if strings.TrimSpace(q.Question) == "" || len(q.Options) < 4 || len(q.Options) > 5 {
			continue
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			continue
		}
		q.Difficulty = strings.ToLower(strings.TrimSpace(q.Difficulty))
		if _, ok := validDifficulties[q.Difficulty]; !ok {
			q.Difficulty = difficulty
		}
		out = append(out, q)
	}
	return out, nil
}
