package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultsToHebrew(t *testing.T) {
	tr := NewTranslator("he")

	assert.Equal(t, "he", tr.DefaultLocale())
	assert.Equal(t, "גיל מינימלי הוא 18 שנים", tr.T("", "field.age.min", nil))
	assert.Equal(t, "משתתף לא נמצא", tr.T("fr-FR", "participant.not_found", nil))
}

func TestTranslator_AcceptLanguage(t *testing.T) {
	tr := NewTranslator("he")

	assert.Equal(t, "Minimum age is 18", tr.T("en-US,en;q=0.9", "field.age.min", nil))
	assert.Equal(t, "Participant not found", tr.T("en", "participant.not_found", nil))
}

func TestTranslator_TemplateData(t *testing.T) {
	tr := NewTranslator("he")

	assert.Equal(t, "המשתתף נוסף בהצלחה לרשימת הרווקים",
		tr.T("he", "participant.created", map[string]any{"List": "רווקים"}))
	assert.Equal(t, "Photo is too large. 5MB maximum",
		tr.T("en", "photo.too_large", map[string]any{"MaxMB": 5}))
}

func TestTranslator_MissingKey(t *testing.T) {
	tr := NewTranslator("he")

	assert.Equal(t, "no.such.key", tr.T("en", "no.such.key", nil))
	_, ok := tr.Lookup("en", "no.such.key", nil)
	assert.False(t, ok)

	msg, ok := tr.Lookup("he", "field.phone.required", nil)
	assert.True(t, ok)
	assert.Equal(t, "מספר טלפון הוא שדה חובה", msg)
}

func TestTranslator_UnknownDefaultLocale(t *testing.T) {
	tr := NewTranslator("not a locale!")

	assert.Equal(t, "he", tr.DefaultLocale())
}

func TestTranslator_EnglishDefault(t *testing.T) {
	tr := NewTranslator("en")

	assert.Equal(t, "Route not found", tr.T("", "route.not_found", nil))
}
