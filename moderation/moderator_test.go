package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCensor_MasksConfiguredWords(t *testing.T) {
	req := require.New(t)

	censor, err := NewCensor([]string{"spoiler", "secret"}, '*')
	req.NoError(err)

	req.Equal("the ******* is out", censor.Censor("the spoiler is out"))
	req.Equal("a ****** plan", censor.Censor("a SECRET plan"))
	req.Equal("nothing to hide", censor.Censor("nothing to hide"))
}

func TestCensor_EmptyListPassesThrough(t *testing.T) {
	req := require.New(t)

	censor, err := NewCensor(nil, '*')
	req.NoError(err)
	req.Equal("anything goes", censor.Censor("anything goes"))

	censor, err = NewCensor([]string{"  ", ""}, '*')
	req.NoError(err)
	req.Equal("still anything", censor.Censor("still anything"))
}

func TestCensor_NilReceiverPassesThrough(t *testing.T) {
	var censor *Censor
	require.Equal(t, "untouched", censor.Censor("untouched"))
}
