package services

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/weddingmatch/backend/internal/models"
)

const (
	MinAge           = 18
	MaxAge           = 99
	MinHeight        = 140
	MaxHeight        = 220
	MaxAboutMeLength = 500
)

var phonePattern = regexp.MustCompile(`^[\d\-\+\(\)\s]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name so violations line up with fieldErrors keys.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "phone_chars", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "marital_status", enumRule(models.MaritalStatuses))
	mustRegister(v, "religiosity", enumRule(models.Religiosities))
	mustRegister(v, "height_bucket", enumRule(models.HeightBuckets))
	mustRegister(v, "event_connection", enumRule(models.EventConnections))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func enumRule(e models.Enum) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return e.Contains(fl.Field().String())
	}
}

type participantRules struct {
	Gender      string `json:"gender" validate:"required,oneof=male female"`
	Name        string `json:"name" validate:"required"`
	Age         *int   `json:"age" validate:"required,min=18,max=99"`
	Status      string `json:"status" validate:"required,marital_status"`
	Height      *int   `json:"height" validate:"omitempty,min=140,max=220"`
	Religiosity string `json:"religiosity" validate:"omitempty,religiosity"`
	Phone       string `json:"phone" validate:"required,phone_chars"`
}

var participantFieldOrder = []string{"gender", "name", "age", "status", "height", "religiosity", "phone"}

type searchRequestRules struct {
	TargetGender      string           `json:"targetGender" validate:"required,oneof=male female"`
	Description       descriptionRules `json:"description"`
	ConnectionToEvent string           `json:"connectionToEvent" validate:"omitempty,event_connection"`
	Searcher          searcherRules    `json:"searcher"`
}

type descriptionRules struct {
	Height string `json:"height" validate:"omitempty,height_bucket"`
}

type searcherRules struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	AboutMe string `json:"aboutMe" validate:"max=500"`
}

var searchRequestFieldOrder = []string{
	"targetGender", "description.height", "connectionToEvent",
	"searcher.name", "searcher.phone", "searcher.aboutMe",
}

// ValidateParticipant checks a raw submission and returns the record to store.
// Every field is checked; on failure the *ValidationError lists all of them.
// Id, submission time and photo are left for the caller.
func ValidateParticipant(in *models.ParticipantInput) (*models.Participant, error) {
	found := map[string]string{}

	age, ok := parseOptionalInt(in.Age.String())
	if !ok {
		found["age"] = "invalid"
	}
	height, ok := parseOptionalInt(in.Height.String())
	if !ok {
		found["height"] = "invalid"
	}

	p := &models.Participant{
		Gender:         models.Genders.Normalize(in.Gender.String()),
		Name:           strings.TrimSpace(in.Name.String()),
		Status:         models.MaritalStatuses.Normalize(in.Status.String()),
		Religiosity:    models.Religiosities.Normalize(in.Religiosity.String()),
		Location:       strings.TrimSpace(in.Location.String()),
		Community:      strings.TrimSpace(in.Community.String()),
		Service:        strings.TrimSpace(in.Service.String()),
		Occupation:     strings.TrimSpace(in.Occupation.String()),
		Education:      strings.TrimSpace(in.Education.String()),
		Personality:    strings.TrimSpace(in.Personality.String()),
		LookingFor:     strings.TrimSpace(in.LookingFor.String()),
		AdditionalInfo: strings.TrimSpace(in.AdditionalInfo.String()),
		ContactName:    strings.TrimSpace(in.ContactName.String()),
		Phone:          strings.TrimSpace(in.Phone.String()),
		Height:         height,
	}

	rules := participantRules{
		Gender:      p.Gender,
		Name:        p.Name,
		Age:         age,
		Status:      p.Status,
		Height:      height,
		Religiosity: p.Religiosity,
		Phone:       p.Phone,
	}
	if err := collect(validate.Struct(rules), found); err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return nil, ordered(found, participantFieldOrder)
	}

	p.Age = *age
	p.List = models.ListForGender(p.Gender)
	return p, nil
}

// ValidateSearchRequest checks a raw search request and returns the record to
// store, with the same all-fields reporting as ValidateParticipant.
func ValidateSearchRequest(in *models.SearchRequestInput) (*models.SearchRequest, error) {
	flat := in.Flatten()
	sr := &models.SearchRequest{
		TargetGender:      models.Genders.Normalize(flat.TargetGender),
		ConnectionToEvent: models.EventConnections.Normalize(flat.ConnectionToEvent),
		Description: models.TargetDescription{
			Height:          models.HeightBuckets.Normalize(flat.Description.Height),
			HairColor:       strings.TrimSpace(flat.Description.HairColor),
			Clothing:        strings.TrimSpace(flat.Description.Clothing),
			SpecialFeatures: strings.TrimSpace(flat.Description.SpecialFeatures),
		},
		Searcher: models.Searcher{
			Name:    strings.TrimSpace(flat.Searcher.Name),
			Phone:   strings.TrimSpace(flat.Searcher.Phone),
			AboutMe: strings.TrimSpace(flat.Searcher.AboutMe),
		},
	}

	rules := searchRequestRules{
		TargetGender:      sr.TargetGender,
		Description:       descriptionRules{Height: sr.Description.Height},
		ConnectionToEvent: sr.ConnectionToEvent,
		Searcher: searcherRules{
			Name:    sr.Searcher.Name,
			Phone:   sr.Searcher.Phone,
			AboutMe: sr.Searcher.AboutMe,
		},
	}
	found := map[string]string{}
	if err := collect(validate.Struct(rules), found); err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return nil, ordered(found, searchRequestFieldOrder)
	}
	return sr, nil
}

// collect folds validator output into found, keeping any violation already
// recorded for a field. Errors other than field violations are returned.
func collect(err error, found map[string]string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if _, seen := found[field]; seen {
			continue
		}
		found[field] = kindForTag(fe.Tag())
	}
	return nil
}

func kindForTag(tag string) string {
	switch tag {
	case "required", "min", "max":
		return tag
	case "phone_chars":
		return "pattern"
	}
	return "invalid"
}

func ordered(found map[string]string, order []string) *ValidationError {
	out := &ValidationError{Violations: make([]Violation, 0, len(found))}
	for _, field := range order {
		if kind, ok := found[field]; ok {
			out.Violations = append(out.Violations, Violation{Field: field, Kind: kind})
			delete(found, field)
		}
	}
	// Anything not in the declared order still gets reported.
	for field, kind := range found {
		out.Violations = append(out.Violations, Violation{Field: field, Kind: kind})
	}
	return out
}

// parseOptionalInt returns nil for blank input and false when s is not an integer.
func parseOptionalInt(s string) (*int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, false
	}
	return &n, true
}
