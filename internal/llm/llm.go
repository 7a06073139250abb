package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lucifersir1/Ai-based-question-paper-generator/internal/llm/prompts"
)

// errorQuestionText is the single placeholder returned when the model call
// fails. The caller sees a usable-but-diminished result, never the failure.
const errorQuestionText = "Error generating questions."

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// New creates a new LLM client. timeout bounds every generation call.
func New(baseURL, apiKey, modelName string, temperature float64, maxTokens int, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:         openai.NewClientWithConfig(config),
		model:       modelName,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
		timeout:     timeout,
	}
}

// Ping checks that the API endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// Result is the outcome of one generation call. Degraded reports that the
// model call failed and Questions holds only the error placeholder; Err then
// carries the underlying cause for logging.
type Result struct {
	Questions []string
	Prompt    string
	Degraded  bool
	Err       error
}

// GenerateQuestions asks the model for count questions based on the syllabus
// and returns up to count non-empty lines of its response. Transport and
// service failures are not propagated: the result degrades to a single
// placeholder question and the request continues. No retries are attempted.
func (c *Client) GenerateQuestions(ctx context.Context, subjectCode, difficulty, syllabus string, count int) Result {
	prompt, err := prompts.Generate(prompts.GenerateData{
		SubjectCode: subjectCode,
		Difficulty:  difficulty,
		Syllabus:    syllabus,
		Count:       count,
	})
	if err != nil {
		// Template execution over plain strings cannot realistically fail,
		// but degrade the same way if it ever does.
		return degraded(prompt, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return degraded(prompt, fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return degraded(prompt, fmt.Errorf("model returned no choices"))
	}

	questions := parseQuestions(resp.Choices[0].Message.Content, count)
	slog.Debug("generated questions", "subject_code", subjectCode, "requested", count, "returned", len(questions))
	return Result{Questions: questions, Prompt: prompt}
}

func degraded(prompt string, err error) Result {
	slog.Error("question generation failed", "error", err)
	return Result{
		Questions: []string{errorQuestionText},
		Prompt:    prompt,
		Degraded:  true,
		Err:       err,
	}
}

// parseQuestions extracts up to count non-empty trimmed lines. The model may
// return fewer; callers that need exactly count slots pad the remainder.
func parseQuestions(raw string, count int) []string {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == count {
			break
		}
	}
	return questions
}
