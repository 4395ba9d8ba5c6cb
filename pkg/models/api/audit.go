package api

import "time"

type Workspace struct {
	SubscriptionID string `json:"subscription_id"`
	ResourceGroup  string `json:"resource_group"`
	Name           string `json:"name"`
}

type Check struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type Finding struct {
	Category   string      `json:"category"`
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
	Issue      string      `json:"issue"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type SkippedCheck struct {
	Check    string `json:"check"`
	Category string `json:"category"`
	Error    string `json:"error"`
}

type AuditReport struct {
	ID         string          `json:"id"`
	Workspace  Workspace       `json:"workspace"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Empty      bool            `json:"empty"`
	Categories []CategoryCount `json:"categories"`
	Findings   []Finding       `json:"findings"`
	Issues     []Finding       `json:"issues"`
	Skipped    []SkippedCheck  `json:"skipped"`
}
