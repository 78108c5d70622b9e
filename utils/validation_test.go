package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+923001234567"))
	assert.True(t, ValidatePhone("923001234567"))
	assert.True(t, ValidatePhone("+1 (415) 555-0100"))
	assert.False(t, ValidatePhone("0300123"))
	assert.False(t, ValidatePhone("abc"))
	assert.False(t, ValidatePhone(""))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "923001234567", NormalizePhone("whatsapp:+923001234567"))
	assert.Equal(t, "923001234567", NormalizePhone("+92 300-1234567"))
	assert.Equal(t, "923001234567", NormalizePhone("923001234567"))
	assert.Equal(t, "", NormalizePhone("whatsapp:"))
}
