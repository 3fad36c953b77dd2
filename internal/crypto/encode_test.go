package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestB64(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte{}, ""},
		{[]byte("f"), "Zg=="},
		{[]byte("fo"), "Zm8="},
		{[]byte("foo"), "Zm9v"},
		{[]byte{0xfb, 0xff}, "+/8="},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, B64(tt.in))
		back, err := FromB64(tt.want)
		require.NoError(t, err)
		assert.Equal(t, tt.in, back)
	}
}

func TestFromB64_Rejects(t *testing.T) {
	for _, s := range []string{"Zg", "Zm9v!", "-_8=", "Zh==", "Zm9v\n", "Zm\r\n9v", "\nZm9v"} {
		_, err := FromB64(s)
		assert.Error(t, err, "FromB64(%q)", s)
	}
}

func TestWipe(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	Wipe(a, b, nil)
	assert.Equal(t, []byte{0, 0, 0}, a)
	assert.Equal(t, []byte{0, 0}, b)
}
