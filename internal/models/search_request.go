package models

import "time"

// SearchRequest describes someone seen at the event whom the searcher wants
// to be introduced to.
type SearchRequest struct {
	ID                string            `json:"id"`
	TargetGender      string            `json:"targetGender"`
	Description       TargetDescription `json:"description"`
	ConnectionToEvent string            `json:"connectionToEvent"`
	Searcher          Searcher          `json:"searcher"`
	SubmittedAt       time.Time         `json:"submittedAt"`
}

type TargetDescription struct {
	Height          string `json:"height"`
	HairColor       string `json:"hairColor"`
	Clothing        string `json:"clothing"`
	SpecialFeatures string `json:"specialFeatures"`
}

type Searcher struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	AboutMe string `json:"aboutMe"`
}

// SearchRequestSummary is echoed back after a successful submission.
type SearchRequestSummary struct {
	ID           string    `json:"id"`
	SearcherName string    `json:"searcherName"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// SearchRequestInput accepts both the nested body and the flat keys the
// older search form posts. Nested values win when both are present. Fields
// are FlexString so a wrongly typed value reaches validation.
type SearchRequestInput struct {
	TargetGender      FlexString              `json:"targetGender"`
	Description       *TargetDescriptionInput `json:"description"`
	ConnectionToEvent FlexString              `json:"connectionToEvent"`
	Searcher          *SearcherInput          `json:"searcher"`

	Height          FlexString `json:"height"`
	HairColor       FlexString `json:"hairColor"`
	Clothing        FlexString `json:"clothing"`
	SpecialFeatures FlexString `json:"specialFeatures"`
	SearcherName    FlexString `json:"searcherName"`
	SearcherPhone   FlexString `json:"searcherPhone"`
	AboutMe         FlexString `json:"aboutMe"`
}

type TargetDescriptionInput struct {
	Height          *FlexString `json:"height"`
	HairColor       *FlexString `json:"hairColor"`
	Clothing        *FlexString `json:"clothing"`
	SpecialFeatures *FlexString `json:"specialFeatures"`
}

type SearcherInput struct {
	Name    *FlexString `json:"name"`
	Phone   *FlexString `json:"phone"`
	AboutMe *FlexString `json:"aboutMe"`
}

// Flatten merges the nested and flat shapes into a single record draft.
func (in *SearchRequestInput) Flatten() SearchRequest {
	out := SearchRequest{
		TargetGender:      in.TargetGender.String(),
		ConnectionToEvent: in.ConnectionToEvent.String(),
		Description: TargetDescription{
			Height:          in.Height.String(),
			HairColor:       in.HairColor.String(),
			Clothing:        in.Clothing.String(),
			SpecialFeatures: in.SpecialFeatures.String(),
		},
		Searcher: Searcher{
			Name:    in.SearcherName.String(),
			Phone:   in.SearcherPhone.String(),
			AboutMe: in.AboutMe.String(),
		},
	}
	if d := in.Description; d != nil {
		pick(&out.Description.Height, d.Height)
		pick(&out.Description.HairColor, d.HairColor)
		pick(&out.Description.Clothing, d.Clothing)
		pick(&out.Description.SpecialFeatures, d.SpecialFeatures)
	}
	if s := in.Searcher; s != nil {
		pick(&out.Searcher.Name, s.Name)
		pick(&out.Searcher.Phone, s.Phone)
		pick(&out.Searcher.AboutMe, s.AboutMe)
	}
	return out
}

func pick(dst *string, v *FlexString) {
	if v != nil {
		*dst = v.String()
	}
}
