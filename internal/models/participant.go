package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Participant is a registrant on one of the two dating lists.
type Participant struct {
	ID             string    `json:"id"`
	Gender         string    `json:"gender"`
	List           string    `json:"list"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Status         string    `json:"status"`
	Height         *int      `json:"height,omitempty"`
	Location       string    `json:"location,omitempty"`
	Community      string    `json:"community,omitempty"`
	Religiosity    string    `json:"religiosity,omitempty"`
	Service        string    `json:"service,omitempty"`
	Occupation     string    `json:"occupation,omitempty"`
	Education      string    `json:"education,omitempty"`
	Personality    string    `json:"personality,omitempty"`
	LookingFor     string    `json:"lookingFor,omitempty"`
	AdditionalInfo string    `json:"additionalInfo,omitempty"`
	ContactName    string    `json:"contactName,omitempty"`
	Phone          string    `json:"phone"`
	Photo          *Photo    `json:"photo,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// Photo is what the image host returned for an uploaded participant photo.
type Photo struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Format       string `json:"format"`
}

// ParticipantSummary is echoed back after a successful submission.
type ParticipantSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	List        string    `json:"list"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ParticipantInput is the raw submission as received from the form client.
// Every field arrives as text; numbers are parsed during validation.
type ParticipantInput struct {
	Gender         FlexString `json:"gender"`
	Name           FlexString `json:"name"`
	Age            FlexString `json:"age"`
	Status         FlexString `json:"status"`
	Height         FlexString `json:"height"`
	Location       FlexString `json:"location"`
	Community      FlexString `json:"community"`
	Religiosity    FlexString `json:"religiosity"`
	Service        FlexString `json:"service"`
	Occupation     FlexString `json:"occupation"`
	Education      FlexString `json:"education"`
	Personality    FlexString `json:"personality"`
	LookingFor     FlexString `json:"lookingFor"`
	AdditionalInfo FlexString `json:"additionalInfo"`
	ContactName    FlexString `json:"contactName"`
	Phone          FlexString `json:"phone"`
}

// ParticipantInputFromForm builds an input from url-encoded or multipart values.
func ParticipantInputFromForm(get func(string) string) *ParticipantInput {
	return &ParticipantInput{
		Gender:         FlexString(get("gender")),
		Name:           FlexString(get("name")),
		Age:            FlexString(get("age")),
		Status:         FlexString(get("status")),
		Height:         FlexString(get("height")),
		Location:       FlexString(get("location")),
		Community:      FlexString(get("community")),
		Religiosity:    FlexString(get("religiosity")),
		Service:        FlexString(get("service")),
		Occupation:     FlexString(get("occupation")),
		Education:      FlexString(get("education")),
		Personality:    FlexString(get("personality")),
		LookingFor:     FlexString(get("lookingFor")),
		AdditionalInfo: FlexString(get("additionalInfo")),
		ContactName:    FlexString(get("contactName")),
		Phone:          FlexString(get("phone")),
	}
}

// ParticipantStats holds the per-list counts.
type ParticipantStats struct {
	TotalParticipants int64 `json:"totalParticipants"`
	Males             int64 `json:"males"`
	Females           int64 `json:"females"`
}

// FlexString decodes any JSON value into text so a wrongly typed field is
// reported by validation instead of failing the whole body. Strings are
// unquoted, null is empty, and numbers, booleans, objects and arrays keep
// their raw JSON text.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		*f = FlexString(data)
	}
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
