package statistic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTally_InsertionOrder(t *testing.T) {
	tally := NewTally[string]()
	for _, k := range []string{"web", "email", "web", "untagged", "email", "web"} {
		tally.Inc(k)
	}

	assert.Equal(t, []Entry[string]{
		{Key: "web", Count: 3},
		{Key: "email", Count: 2},
		{Key: "untagged", Count: 1},
	}, tally.Entries())
	assert.Equal(t, 3, tally.Len())
	assert.Equal(t, uint64(6), tally.Total())
	assert.Equal(t, uint64(0), tally.Get("ssh"))
}

func TestTally_AddZero(t *testing.T) {
	tally := NewTally[string]()
	tally.Add("web", 0)

	assert.Equal(t, 0, tally.Len())
	assert.Empty(t, tally.Entries())
}

func TestTally_CloneIsIndependent(t *testing.T) {
	tally := NewTally[string]()
	tally.Inc("web")

	clone := tally.Clone()
	tally.Inc("web")
	tally.Inc("ssh")

	assert.Equal(t, uint64(1), clone.Get("web"))
	assert.Equal(t, 1, clone.Len())
	assert.Equal(t, uint64(1), clone.Total())
	assert.Equal(t, uint64(2), tally.Get("web"))
}

func TestTally_Merge(t *testing.T) {
	a := NewTally[string]()
	a.Inc("web")
	a.Inc("email")

	b := NewTally[string]()
	b.Inc("ssh")
	b.Add("web", 2)

	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, []Entry[string]{
		{Key: "web", Count: 3},
		{Key: "email", Count: 1},
		{Key: "ssh", Count: 1},
	}, a.Entries())
	assert.Equal(t, uint64(5), a.Total())
	assert.Equal(t, map[string]uint64{"ssh": 1, "web": 2}, b.Counts())
}
