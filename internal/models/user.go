package models

import "time"

// User holds the per-user values the ledger needs: the timezone that defines
// "today" and the vacation flag that protects streaks.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Timezone     string    `json:"timezone"` // IANA name or "Local"
	VacationMode bool      `json:"is_vacation"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
