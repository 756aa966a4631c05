package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCensorRune(t *testing.T) {
	req := require.New(t)

	r, err := CensorRune("")
	req.NoError(err)
	req.Equal('*', r)

	r, err = CensorRune("#")
	req.NoError(err)
	req.Equal('#', r)

	_, err = CensorRune("##")
	req.Error(err)
}

func TestSplitWords(t *testing.T) {
	req := require.New(t)

	req.Empty(SplitWords(""))
	req.Equal([]string{"foo", "bar"}, SplitWords(" foo , bar ,, "))
}
