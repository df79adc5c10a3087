package models

// ReviewStats summarizes a learner's schedule states for dashboard display.
// The buckets are mutually exclusive: a card whose last answer was wrong is
// struggling no matter how many repetitions it has accumulated.
type ReviewStats struct {
	TotalReviewed int `json:"total_reviewed"`
	Mastered      int `json:"mastered"`
	Learning      int `json:"learning"`
	Struggling    int `json:"struggling"`
	DueNow        int `json:"due_now"`
}
