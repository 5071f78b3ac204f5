package model

import "time"

// Review is the first approval of a pull request.
type Review struct {
	PRNumber    int       `yaml:"pr_number" json:"pr_number"`
	PRTitle     string    `yaml:"pr_title" json:"pr_title"`
	Reviewer    string    `yaml:"reviewer" json:"reviewer"`
	SubmittedAt time.Time `yaml:"submitted_at" json:"submitted_at"`
}

// Requirement is a dependency declared in a project manifest.
type Requirement struct {
	// Name as written in the manifest.
	Name string
	// Normalized is the lowercase, dash-separated form used for matching.
	Normalized string
	// Specifiers holds each version clause, e.g. ">=1.0", "<2".
	Specifiers []string
	// Raw is the original requirement string.
	Raw string
}
