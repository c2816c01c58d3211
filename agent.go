package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	agentName      = "resume extractor"
	extractorModel = "gemini-2.5-pro"

	// noExceptionalAbility is persisted when the extractor finds nothing
	// notable, so the field is always populated.
	noExceptionalAbility = "No exceptional ability could be found/noted."
)

func newExtractorAgent(apiKey string) (agent.Agent, error) {
	ctx := context.Background()
	model, err := gemini.NewModel(ctx, extractorModel, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %v", err)
	}

	extractor, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Extract structured candidate profiles from resume text",
		Instruction: extractorPrompt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %v", err)
	}

	return extractor, nil
}

// AgentExtractor runs the extraction agent once per resume, each call in its
// own short-lived session so concurrent files never share state.
type AgentExtractor struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
}

func NewAgentExtractor(apiKey string) (*AgentExtractor, error) {
	extractor, err := newExtractorAgent(apiKey)
	if err != nil {
		return nil, err
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        extractor.Name(),
		Agent:          extractor,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %v", err)
	}

	return &AgentExtractor{
		runner:   r,
		sessions: sessions,
		appName:  extractor.Name(),
	}, nil
}

func (e *AgentExtractor) Extract(ctx context.Context, resumeText string, now time.Time) (*ResumeData, error) {
	userID := "pipeline"
	agentSession, err := e.sessions.Create(ctx, &session.CreateRequest{
		AppName:   e.appName,
		UserID:    userID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent session: %w", err)
	}
	defer func() {
		_ = e.sessions.Delete(ctx, &session.DeleteRequest{
			AppName:   agentSession.Session.AppName(),
			UserID:    agentSession.Session.UserID(),
			SessionID: agentSession.Session.ID(),
		})
	}()

	msg := fmt.Sprintf(
		"Extract structured resume data from the given text:\n\n%s\n\nUse the current date %s if needed to calculate total_experience. If total_experience is not a whole number, keep the decimal as-is.",
		resumeText,
		now.Format("January 2, 2006"),
	)

	output, err := retry(2, func() (string, error) {
		stream := e.runner.Run(ctx, agentSession.Session.UserID(), agentSession.Session.ID(), &genai.Content{
			Role: "user",
			Parts: []*genai.Part{
				{Text: msg},
			},
		}, agent.RunConfig{})

		var out string
		for event, err := range stream {
			if err != nil {
				return "", err
			}
			if event != nil && event.IsFinalResponse() && len(event.Content.Parts) > 0 {
				out = event.Content.Parts[0].Text
			}
		}
		if out == "" {
			return "", errors.New("empty agent response")
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("agent stream error: %w", err)
	}

	return parseResumeData(output)
}

// parseResumeData validates the agent output against the profile schema.
func parseResumeData(raw string) (*ResumeData, error) {
	cleaned := CleanJson(raw)

	var profile ResumeData
	if err := json.Unmarshal([]byte(cleaned), &profile); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	if strings.TrimSpace(profile.Name) == "" {
		return nil, errors.New("profile validation: missing candidate name")
	}
	if strings.TrimSpace(profile.Skills) == "" {
		return nil, errors.New("profile validation: missing skills text")
	}
	if strings.TrimSpace(profile.ExceptionalAbility) == "" {
		profile.ExceptionalAbility = noExceptionalAbility
	}
	if profile.TechStack == nil {
		profile.TechStack = []string{}
	}
	return &profile, nil
}
