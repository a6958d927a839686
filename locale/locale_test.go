package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXMLLang(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"en_US", "en"},
		{"fr_CA", "fr"},
		{"es", "es"},
		{"pt_BR", "pt"},
		{"sr_RS@latin", "sr"},
		{"zz_ZZ", "zz"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, XMLLang(tt.locale))
		})
	}
}

func TestToBCP47(t *testing.T) {
	assert.Equal(t, "pt-BR", ToBCP47("pt_BR"))
	assert.Equal(t, "en-US", ToBCP47("en_US"))
	assert.Equal(t, "sr-Latn-RS", ToBCP47("sr_RS@latin"))
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Subject", Translate("en_US", KeySubject))
	assert.Equal(t, "Sujet", Translate("fr_CA", KeySubject))
	assert.Equal(t, "Materia", Translate("es_ES", KeySubject))
	assert.Equal(t, "Subject", Translate("not a locale", KeySubject))

	assert.Equal(t, "Copyright (c) 2024 Jane Doe",
		Translate("en_US", KeyCopyrightStatement, "2024", "Jane Doe"))
	assert.Equal(t, "Copyright (c) Jane Doe",
		Translate("en_US", KeyCopyrightStatement, "", "Jane Doe"))
}
