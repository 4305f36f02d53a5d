package model

// Activity types tracked by the app.
const (
	ActivityFeeding    = "feeding"
	ActivitySleep      = "sleep"
	ActivityDiaper     = "diaper"
	ActivityMilestone  = "milestone"
	ActivityEsfinteres = "esfinteres"
	ActivityGrowth     = "growth"
)

// ActivityTypes lists every valid activity type.
var ActivityTypes = []string{
	ActivityFeeding,
	ActivitySleep,
	ActivityDiaper,
	ActivityMilestone,
	ActivityEsfinteres,
	ActivityGrowth,
}

// Activity is a row in the Actividades sheet. There is no id column: the
// (UserEmail, Timestamp) pair identifies a row for update and delete.
type Activity struct {
	Timestamp string                 `json:"timestamp"`
	UserEmail string                 `json:"user_email"`
	BabyName  string                 `json:"baby_name"`
	Type      string                 `json:"activity_type"`
	Details   map[string]interface{} `json:"details"`
}
