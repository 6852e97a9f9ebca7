// internal/models/feedback.go
package models

import (
	"strings"
	"time"
)

// FeedbackLabel is the user's verdict on the last answer.
type FeedbackLabel string

const (
	FeedbackYes FeedbackLabel = "Yes"
	FeedbackNo  FeedbackLabel = "No"
)

// ParseFeedbackLabel accepts yes/no in any case. Empty means Yes.
func ParseFeedbackLabel(s string) (FeedbackLabel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yes":
		return FeedbackYes, true
	case "no":
		return FeedbackNo, true
	default:
		return "", false
	}
}

// FeedbackRecord is one appended block in the feedback log.
type FeedbackRecord struct {
	Timestamp time.Time
	Question  string
	Answer    string
	Label     FeedbackLabel
}
