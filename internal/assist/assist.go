// Package assist builds writing-assistant prompts, sends them to the LLM and cleans the reply
// into plain resume text.
package assist

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
)

// Task selects which kind of content the assistant writes.
type Task string

const (
	TaskSummary    Task = "summary"
	TaskExperience Task = "experience"
	TaskImprove    Task = "improve"
)

// Context carries the resume fields a task reads.
type Context struct {
	CurrentContent string   `json:"currentContent,omitempty"`
	Name           string   `json:"name,omitempty"`
	CurrentBullets []string `json:"currentBullets,omitempty"`
	Position       string   `json:"position,omitempty"`
	Company        string   `json:"company,omitempty"`
}

// Request is the body of an assist call.
type Request struct {
	Type    Task    `json:"type"`
	Context Context `json:"context"`
}

// Response is the body returned for a successful assist call.
type Response struct {
	Content string `json:"content"`
}

// BuildPrompt returns the full text sent upstream: the system prompt, a blank line, then the
// task-specific user prompt.
func BuildPrompt(task Task, c Context) (string, error) {
	var systemKey, userKey string
	data := map[string]string{}

	switch task {
	case TaskSummary:
		systemKey = "summary_system"
		if strings.TrimSpace(c.CurrentContent) != "" {
			userKey = "summary_rewrite"
			data["Text"] = c.CurrentContent
		} else {
			userKey = "summary_draft"
			name := strings.TrimSpace(c.Name)
			if name == "" {
				subject, err := prompt("summary_default_subject")
				if err != nil {
					return "", err
				}
				name = subject
			}
			data["Name"] = name
		}
	case TaskExperience:
		systemKey = "experience_system"
		if len(c.CurrentBullets) > 0 {
			userKey = "experience_improve"
			data["Bullets"] = strings.Join(c.CurrentBullets, "; ")
		} else {
			userKey = "experience_generate"
			data["Position"] = c.Position
			data["Company"] = c.Company
		}
	case TaskImprove:
		systemKey = "improve_system"
		userKey = "improve_user"
		data["Text"] = c.CurrentContent
	default:
		return "", &InvalidTaskError{Type: string(task)}
	}

	system, err := prompt(systemKey)
	if err != nil {
		return "", err
	}
	user, err := prompt(userKey)
	if err != nil {
		return "", err
	}
	return system + "\n\n" + prompts.Format(user, data), nil
}

func prompt(key string) (string, error) {
	p, err := prompts.Get(prompts.AssistFile, key)
	if err != nil {
		return "", &PromptError{Key: key, Cause: err}
	}
	return p, nil
}

// Service runs assist requests against an LLM client.
type Service struct {
	client llm.Client
	policy *bluemonday.Policy
	tier   llm.ModelTier
}

// NewService creates a Service using the standard model tier.
func NewService(client llm.Client) *Service {
	return &Service{
		client: client,
		policy: bluemonday.StrictPolicy(),
		tier:   llm.TierStandard,
	}
}

// Generate produces plain-text content for req. Provider rate limits come back as
// *llm.RateLimitError.
func (s *Service) Generate(ctx context.Context, req Request) (string, error) {
	fullPrompt, err := BuildPrompt(req.Type, req.Context)
	if err != nil {
		return "", err
	}

	raw, err := s.client.GenerateContent(ctx, fullPrompt, s.tier)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s content: %w", req.Type, err)
	}

	content := s.sanitize(raw)
	if req.Type == TaskImprove {
		content = NormalizeParagraph(content)
	}
	if content == "" {
		log.Warn().Str("task", string(req.Type)).Int("raw_length", len(raw)).Msg("assist response empty after cleanup")
		return "", &EmptyOutputError{Task: req.Type}
	}
	return content, nil
}

// maxSanitizePasses bounds how many layers of entity-encoded markup sanitize unwraps.
const maxSanitizePasses = 5

// sanitize drops any HTML the model produced and returns trimmed plain text. Entities are
// decoded for readability, and the decoded text is sanitized again so "&lt;script&gt;" cannot
// turn back into a tag. Text that is still changing after maxSanitizePasses stays escaped.
func (s *Service) sanitize(text string) string {
	for range maxSanitizePasses {
		escaped := s.policy.Sanitize(text)
		plain := html.UnescapeString(escaped)
		if plain == text {
			return strings.TrimSpace(plain)
		}
		text = plain
	}
	return strings.TrimSpace(s.policy.Sanitize(text))
}
