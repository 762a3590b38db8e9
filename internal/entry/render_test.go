package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayValueMasksKeypadSegments(t *testing.T) {
	st := verified(t, "41111111")
	assert.Equal(t, "4111 1111", st.DisplayValue())

	st = st.KeypadDigit('1')
	st = st.KeypadDigit('2')
	assert.Equal(t, "4111 1111 ••34", st.DisplayValue())

	st = st.KeypadDigit('3')
	st = st.KeypadDigit('4')
	st = st.KeypadDigit('5')
	assert.Equal(t, "4111 1111 •••• •234", st.DisplayValue())
}

func TestDisplayValueAmex(t *testing.T) {
	st := verified(t, "3412")
	for _, d := range "123456" {
		st = st.KeypadDigit(d)
	}
	require.Equal(t, SegmentB, st.Active)
	assert.Equal(t, "3412 ••••••", st.DisplayValue())

	st = st.KeypadDigit('7')
	assert.Equal(t, "3412 •••••• •2345", st.DisplayValue())
}

func TestGhostOverlay(t *testing.T) {
	st := frontFilled(t, "4111")
	assert.Equal(t, " 1234 1234 1234", st.GhostOverlay())

	st = NewState()
	assert.Equal(t, "1234 1234 1234 1234", st.GhostOverlay())
}

func TestValidityThreshold(t *testing.T) {
	st := verified(t, "41111111")
	for _, d := range "1111" {
		st = st.KeypadDigit(d)
	}
	// 12 digits: below the checksum threshold, no validity state.
	_, computed := st.Validity()
	assert.False(t, computed)

	st = st.KeypadDigit('1')
	// 13 digits: checksum now computed (and fails for this sequence).
	valid, computed := st.Validity()
	assert.True(t, computed)
	assert.False(t, valid)
}
