package main

import (
	"github.com/google/uuid"
)

// Task kinds carried on the resume-pipeline queue.
const (
	TaskProcessResume = "process-resume"
	TaskScreenResumes = "screen-resumes"
)

// Pipeline job statuses persisted in pipeline_jobs.
const (
	StatusPending   = "pending"
	StatusIngesting = "ingesting"
	StatusScreening = "screening"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// EventScreeningComplete is broadcast once per successfully screened job.
const EventScreeningComplete = "screening:complete"

// Task is a single queued unit of work: one stage for one job.
type Task struct {
	Kind  string    `json:"kind"`
	JobID uuid.UUID `json:"job_id"`
}

// ScreeningCompletePayload is the broadcast payload for EventScreeningComplete.
type ScreeningCompletePayload struct {
	JobID uuid.UUID `json:"job_id"`
}

type ContactDetails struct {
	Email         string `json:"email,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	Location      string `json:"location,omitempty"`
	Website       string `json:"website,omitempty"`
}

type SocialLink struct {
	Platform string `json:"platform,omitempty"`
	URL      string `json:"url"`
}

type ProjectLink struct {
	Title       string `json:"title,omitempty"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// ResumeData is the structured profile produced by the extractor for one
// resume. Skills is the free-text skills summary the ranking embeds.
type ResumeData struct {
	Name                string         `json:"name"`
	ContactDetails      ContactDetails `json:"contact_details"`
	ProfessionalTitle   string         `json:"professional_title,omitempty"`
	ProfessionalSummary string         `json:"professional_summary,omitempty"`
	SocialLinks         []SocialLink   `json:"social_links,omitempty"`
	ProjectLinks        []ProjectLink  `json:"project_links,omitempty"`
	Experience          string         `json:"experience,omitempty"`
	Education           string         `json:"education,omitempty"`
	TotalExperience     *float64       `json:"total_experience,omitempty"`
	ExceptionalAbility  string         `json:"exceptional_ability,omitempty"`
	TechStack           []string       `json:"tech_stack"`
	Skills              string         `json:"skills"`
}
