package domain

// Counts is the number of stored records per collection.
type Counts struct {
	Bookings          int64 `json:"bookings"`
	Feedbacks         int64 `json:"feedbacks"`
	Reports           int64 `json:"reports"`
	AccountRecoveries int64 `json:"accountRecoveries"`
	Blogs             int64 `json:"blogs"`
}
