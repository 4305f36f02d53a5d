package dto

// ActivityCreateDTO logs one baby-care event.
type ActivityCreateDTO struct {
	Timestamp string                 `json:"timestamp"`
	BabyName  string                 `json:"baby_name"`
	Type      string                 `json:"activity_type" validate:"required,oneof=feeding sleep diaper milestone esfinteres growth"`
	Details   map[string]interface{} `json:"details"`
}

// ActivityUpdateDTO rewrites an existing event, addressed by its original
// timestamp.
type ActivityUpdateDTO struct {
	OriginalTimestamp string                 `json:"original_timestamp" validate:"required"`
	Timestamp         string                 `json:"timestamp"`
	BabyName          string                 `json:"baby_name"`
	Type              string                 `json:"activity_type" validate:"required,oneof=feeding sleep diaper milestone esfinteres growth"`
	Details           map[string]interface{} `json:"details"`
}

// ActivityDTO is one event in a feed response.
type ActivityDTO struct {
	Timestamp string                 `json:"timestamp"`
	UserEmail string                 `json:"user_email"`
	BabyName  string                 `json:"baby_name"`
	Type      string                 `json:"activity_type"`
	Details   map[string]interface{} `json:"details"`
}

// ActivityFeedDTO is the feed plus the caller's current-month count.
type ActivityFeedDTO struct {
	Activities   []ActivityDTO `json:"activities"`
	MonthlyCount int           `json:"monthly_count"`
}
