package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageDataURL(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

	url := EncodeImage("", png)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", url)

	mime, data, err := DecodeImage(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, png, data)
}

func TestDecodeImageRejectsText(t *testing.T) {
	for _, in := range []string{
		"hello",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,raw",
		"data:image/png;base64",
	} {
		_, _, err := DecodeImage(in)
		assert.ErrorIs(t, err, ErrNotImage, in)
	}

	_, _, err := DecodeImage("data:image/png;base64,!!!")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotImage)
}

func TestPartitionKeepsOrder(t *testing.T) {
	list := HistoryList{
		{ID: 5, Content: "e"},
		{ID: 4, Content: "d", Pinned: true},
		{ID: 3, Content: "c"},
		{ID: 2, Content: "b", Pinned: true},
	}

	pinned, unpinned := list.Partition()
	assert.Equal(t, []int64{4, 2}, ids(pinned))
	assert.Equal(t, []int64{5, 3}, ids(unpinned))
}

func TestCloneIsIndependent(t *testing.T) {
	list := HistoryList{{ID: 1, Content: "a"}}
	clone := list.Clone()
	clone[0].Pinned = true
	assert.False(t, list[0].Pinned)
}

func ids(l HistoryList) []int64 {
	out := make([]int64, 0, len(l))
	for _, e := range l {
		out = append(out, e.ID)
	}
	return out
}
