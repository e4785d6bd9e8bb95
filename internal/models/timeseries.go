package models

// TimePoint is one hourly bucket. Count is the smoothed value, RawCount the
// number of messages in the bucket.
type TimePoint struct {
	Timestamp string  `json:"timestamp"`
	Count     float64 `json:"count"`
	RawCount  int     `json:"raw_count"`
}

// TimeSeries is the payload of the timeseries endpoint.
type TimeSeries struct {
	Window     string      `json:"window"`
	TimeSeries []TimePoint `json:"time_series"`
}

// UserBehavior summarizes one user's sending activity.
type UserBehavior struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	MessageCount int    `json:"message_count"`
	ActivePeriod string `json:"active_period"`
}

// UserBehaviorReport is the payload of the user behavior endpoint.
type UserBehaviorReport struct {
	UserBehavior []UserBehavior `json:"user_behavior"`
}

// FriendCount is one user's number of friends.
type FriendCount struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	FriendCount int    `json:"friend_count"`
	Color       string `json:"color"`
}

// FriendDistribution is the payload of the friend distribution endpoint.
type FriendDistribution struct {
	Users  []FriendCount `json:"users"`
	Mean   float64       `json:"mean"`
	Median float64       `json:"median"`
	Colors []string      `json:"colors"`
}
