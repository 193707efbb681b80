package infra

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateSheetName(t *testing.T) {
	short := "Probe swab 10mm"
	assert.Equal(t, short, truncateSheetName(short))

	long := truncateSheetName("A rather long swab description that will not fit")
	assert.Equal(t, sheetNameLimit, utf8.RuneCountInString(long))

	// Multibyte names truncate on rune boundaries, never mid-sequence.
	accented := truncateSheetName("Tampone sonda àèìòù con descrizione lunga")
	assert.True(t, utf8.ValidString(accented))
	assert.Equal(t, sheetNameLimit, utf8.RuneCountInString(accented))
}
