package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		addr  string
		valid bool
	}{
		{"plain address", "jan.doe@example.com", true},
		{"subdomain", "jan@mail.example.co", true},
		{"plus tag", "jan+parcels@example.com", true},
		{"surrounding whitespace", "  jan@example.com  ", true},
		{"missing at", "jan.example.com", false},
		{"missing tld", "jan@example", false},
		{"long tld rejected", "jan@example.abcdefg", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"embedded space", "jan doe@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidEmail(tt.addr))
		})
	}
}

func TestNormalizeMobile(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "0412345678", "0412345678"},
		{"dropped leading zero restored", "412345678", "0412345678"},
		{"spaces stripped", "0412 345 678", "0412345678"},
		{"dropped zero with spaces", "412 345 678", "0412345678"},
		{"dashes and parens stripped", "(04)12-345-678", "0412345678"},
		{"nine digits not starting with 4 untouched", "512345678", "512345678"},
		{"letters never corrected", "4a2345678", "4a2345678"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMobile(tt.in))
		})
	}
}

func TestValidMobile(t *testing.T) {
	tests := []struct {
		name  string
		nbr   string
		valid bool
	}{
		{"ten digits with prefix", "0412345678", true},
		{"dropped leading zero", "412345678", true},
		{"spaced input", "0412 345 678", true},
		{"landline prefix", "0298765432", false},
		{"too short", "04123456", false},
		{"too long", "04123456789", false},
		{"letters", "041234567a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidMobile(tt.nbr))
		})
	}
}
