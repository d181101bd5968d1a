package race

import "time"

// Event is a race session published by the upstream race-data provider.
type Event struct {
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	SessionType string    `json:"session_type"`
	Year        int       `json:"year"`
	Country     string    `json:"country"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type Driver struct {
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
	TeamName     string `json:"team_name"`
}

// EventsQuery filters upstream sessions. Nil and blank fields are not sent.
type EventsQuery struct {
	Year        *int
	Country     string
	MeetingKey  *int
	SessionType string
}

// DriverMarket is a driver with odds drawn at query time. It is never persisted.
type DriverMarket struct {
	Driver Driver `json:"driver"`
	Odds   Odds   `json:"odds"`
}

func NewDriverMarket(driver Driver, policy OddsPolicy) (DriverMarket, error) {
	if policy == nil {
		return DriverMarket{}, ErrNilOddsPolicy
	}
	return DriverMarket{Driver: driver, Odds: policy.NextOdds()}, nil
}
