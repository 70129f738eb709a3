package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validity(ws []Warning) []bool {
	out := make([]bool, len(ws))
	for i, w := range ws {
		out[i] = w.IsValid
	}
	return out
}

func TestCheck(t *testing.T) {
	tests := []struct {
		pw    string
		name  string
		email string
		want  []bool
	}{
		{"", "", "", []bool{true, false, false}},
		{"short1", "", "", []bool{true, false, true}},
		{"longenough", "", "", []bool{true, true, false}},
		{"longenough!", "", "", []bool{true, true, true}},
		{"비밀번호는길다9", "", "", []bool{true, true, true}},
		{"Minsu2024!", "minsu", "", []bool{false, true, true}},
		{"hello.world#1", "", "hello.world@example.com", []bool{false, true, true}},
		{"jiyoung#2024", "", "", []bool{true, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			ws := Check(tt.pw, tt.name, tt.email)
			assert.Equal(t, tt.want, validity(ws))
			assert.Equal(t, !containsFalse(tt.want), Valid(ws))
		})
	}
}

func containsFalse(bs []bool) bool {
	for _, b := range bs {
		if !b {
			return true
		}
	}
	return false
}

func TestHashCompare(t *testing.T) {
	hash, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, Compare(hash, "s3cret-pass"))
	assert.ErrorIs(t, Compare(hash, "wrong-pass"), ErrMismatch)
	assert.Error(t, Compare("not-a-hash", "x"))
}
