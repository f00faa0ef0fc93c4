// Package lessongen asks an LLM for a lesson config and accepts it only
// after it parses and passes every validator.
package lessongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lessonkit/internal/activity"
	"github.com/abhisek/lessonkit/internal/llm"
)

// SchemaName names the lesson schema sent with every request.
const SchemaName = "lesson-config"

// ErrInvalidInput is returned when an Input cannot be turned into a request.
var ErrInvalidInput = errors.New("invalid lesson request")

// Input describes the lesson to generate.
type Input struct {
	Topic        string
	Grade        string
	Activities   int
	Kinds        []activity.Kind
	PassingScore int
}

// Result is an accepted lesson.
type Result struct {
	Config *activity.LessonConfig

	// Canonical is the JSON the config was decoded from, re-encoded.
	Canonical json.RawMessage

	// Usage sums every request, rejected drafts included.
	Usage llm.Usage

	// Requests counts the draft and any repair requests.
	Requests int
}

// Service generates lesson configs.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a lesson generation service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Generate drafts a lesson and accepts it only once it matches the schema,
// parses, and passes every validator. A rejected draft is sent back with
// the reasons, up to Config.MaxRepairs times. Provider failures are not
// repaired.
func (s *Service) Generate(ctx context.Context, in Input) (*Result, error) {
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}

	schema := &llm.Schema{
		Name:        SchemaName,
		Description: "An ordered list of interactive activities",
		Definition:  activity.SchemaDefinition(),
	}
	messages := []llm.Message{
		{Role: llm.RoleUser, Content: buildUserMessage(in)},
	}
	res := &Result{}
	purpose := llm.PurposeLessonDraft

	var lastErr error
	for range max(s.cfg.MaxRepairs, 0) + 1 {
		res.Requests++
		resp, err := s.provider.Generate(llm.WithPurpose(ctx, purpose), llm.Request{
			System:      systemPrompt,
			Messages:    messages,
			Schema:      schema,
			MaxTokens:   s.cfg.MaxTokens,
			Temperature: s.cfg.Temperature,
		})

		var draft json.RawMessage
		switch {
		case err == nil:
			res.Usage = res.Usage.Add(resp.Usage)
			draft = resp.Content
			cfg, aerr := s.accept(resp.Content, in)
			if aerr == nil {
				canonical, merr := json.Marshal(cfg)
				if merr != nil {
					return nil, fmt.Errorf("encode lesson config: %w", merr)
				}
				res.Config, res.Canonical = cfg, canonical
				return res, nil
			}
			err = aerr
		case errors.Is(err, llm.ErrInvalidOutput):
			draft, _ = llm.OutputOf(err)
		default:
			return nil, fmt.Errorf("lesson generation: %w", err)
		}

		lastErr = err
		if len(draft) > 0 {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: string(draft)})
		}
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: buildRepairMessage(err)})
		purpose = llm.PurposeLessonRepair
	}
	return nil, fmt.Errorf("lesson generation: %w", lastErr)
}

func (s *Service) accept(content []byte, in Input) (*activity.LessonConfig, error) {
	cfg, err := activity.Parse(content)
	if err != nil {
		return nil, err
	}
	for _, v := range s.cfg.Validators {
		if verr := v.Validate(cfg, in); verr != nil {
			return nil, verr
		}
	}
	if in.PassingScore > 0 {
		cfg.PassingScore = in.PassingScore
	}
	return cfg, nil
}

func (s *Service) normalize(in Input) (Input, error) {
	in.Topic = strings.TrimSpace(in.Topic)
	if in.Topic == "" {
		return in, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	if in.Activities == 0 {
		in.Activities = s.cfg.DefaultActivities
	}
	if in.Activities < 1 || (s.cfg.MaxActivities > 0 && in.Activities > s.cfg.MaxActivities) {
		return in, fmt.Errorf("%w: activities must be between 1 and %d", ErrInvalidInput, s.cfg.MaxActivities)
	}
	if in.PassingScore < 0 || in.PassingScore > 100 {
		return in, fmt.Errorf("%w: passing score must be between 0 and 100", ErrInvalidInput)
	}
	for _, k := range in.Kinds {
		if !k.Valid() {
			return in, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, k)
		}
	}
	return in, nil
}
