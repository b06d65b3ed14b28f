package types

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a single itinerary entry. Budget and Location are optional on
// the wire (the model may omit them) but are always populated by the time an
// itinerary is assembled.
type Activity struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      string `json:"budget,omitempty"`
	Location    string `json:"location,omitempty"`
}

// DayItinerary is one calendar day inside a city stay. Activities always has
// exactly four entries after assembly.
type DayItinerary struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Title      string     `json:"title"`
	City       string     `json:"city"`
	Activities []Activity `json:"activities"`
}

// CityStay is the contiguous date-bounded segment of a trip spent in one city.
// EndDate = StartDate + nights; consecutive stays share a boundary date.
type CityStay struct {
	City      string         `json:"city"`
	Country   string         `json:"country"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Days      []DayItinerary `json:"days"`
}

// TripItinerary is the assembled output of a generation call. It is built once
// and superseded wholesale by the next call.
type TripItinerary struct {
	Destinations []string   `json:"destinations"`
	Dates        string     `json:"dates"`
	TotalBudget  string     `json:"total_budget"`
	Cities       []CityStay `json:"cities"`
	PackingList  []string   `json:"packing_list"`
	Tips         []string   `json:"tips"`
}

// CityVisit is one requested destination in a multi-city trip.
type CityVisit struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Nights  int    `json:"nights"`
}

// TripPreferences carries the per-request preference signals.
type TripPreferences struct {
	FamilyFriendly bool     `json:"family_friendly"`
	Accessibility  bool     `json:"accessibility"`
	Interests      []string `json:"interests"`
	TravelStyle    string   `json:"travel_style"`
}

// MultiCityTripRequest is the input to the multi-city assembler.
type MultiCityTripRequest struct {
	Destinations []CityVisit      `json:"destinations"`
	StartDate    time.Time        `json:"start_date"`
	Budget       float64          `json:"budget"`
	Preferences  *TripPreferences `json:"preferences,omitempty"`
}

// DestinationContent is the structured fragment the content generator returns
// for one city: the full activity pool plus packing list and local tips.
type DestinationContent struct {
	Activities  []Activity `json:"activities"`
	PackingList []string   `json:"packingList"`
	Tips        []string   `json:"tips"`
}

// UserPreferences are the stored (profile-level) preference signals, merged
// with per-request preferences at generation time.
type UserPreferences struct {
	Interests      []string `json:"interests"`
	TravelStyle    string   `json:"travel_style"`
	FamilyFriendly bool     `json:"family_friendly"`
	Accessibility  bool     `json:"accessibility"`
}

// SavedTrip is a persisted trip record with its generated itinerary.
type SavedTrip struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Destinations []string      `json:"destinations"`
	Dates        string        `json:"dates"`
	TotalBudget  string        `json:"total_budget"`
	Status       string        `json:"status"`
	Itinerary    TripItinerary `json:"itinerary"`
	CreatedAt    time.Time     `json:"created_at"`
}
