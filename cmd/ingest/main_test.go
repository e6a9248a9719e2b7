package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"spanish"}, splitList("spanish"))
	assert.Equal(t, []string{"spanish", "german"}, splitList(" spanish, ,german ,"))
}
