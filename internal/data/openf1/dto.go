package openf1

import (
	"time"

	"github.com/race-betting-ledger/internal/domain/race"
)

type sessionDTO struct {
	SessionKey  string    `json:"sessionKey"`
	SessionName string    `json:"sessionName"`
	SessionType string    `json:"sessionType"`
	Year        int       `json:"year"`
	Country     string    `json:"country"`
	DateStart   time.Time `json:"dateStart"`
	DateEnd     time.Time `json:"dateEnd"`
}

func (d sessionDTO) toEvent() race.Event {
	return race.Event{
		EventID:     d.SessionKey,
		Name:        d.SessionName,
		SessionType: d.SessionType,
		Year:        d.Year,
		Country:     d.Country,
		StartTime:   d.DateStart,
		EndTime:     d.DateEnd,
	}
}

type driverDTO struct {
	DriverNumber int    `json:"driverNumber"`
	FullName     string `json:"fullName"`
	TeamName     string `json:"teamName"`
}

func (d driverDTO) toDriver() race.Driver {
	return race.Driver{
		DriverNumber: d.DriverNumber,
		FullName:     d.FullName,
		TeamName:     d.TeamName,
	}
}
