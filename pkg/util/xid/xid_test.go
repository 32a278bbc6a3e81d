package xid

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedMachine(id uint16) Option {
	return WithMachineID(func() (uint16, error) { return id, nil })
}

func TestGenerator_UniqueAndIncreasing(t *testing.T) {
	g, err := NewGenerator(fixedMachine(7))
	require.NoError(t, err)

	seen := make(map[int64]struct{}, 1000)
	var last int64
	for range 1000 {
		id, err := g.New()
		require.NoError(t, err)
		assert.Greater(t, id, last)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
		last = id
	}
}

func TestGenerator_NewString(t *testing.T) {
	g, err := NewGenerator(fixedMachine(1))
	require.NoError(t, err)

	s, err := g.NewString()
	require.NoError(t, err)
	n, err := strconv.ParseInt(s, 36, 64)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestGenerator_MachineIDError(t *testing.T) {
	_, err := NewGenerator(WithMachineID(func() (uint16, error) {
		return 0, errors.New("no machine")
	}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGenerator_Nil(t *testing.T) {
	var g *Generator
	_, err := g.New()
	assert.ErrorIs(t, err, ErrNilGenerator)
	_, err = g.NewString()
	assert.ErrorIs(t, err, ErrNilGenerator)
}

func TestDefaultMachineID_Env(t *testing.T) {
	t.Setenv(EnvMachineID, "42")
	id, err := DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, uint16(42), id)

	t.Setenv(EnvMachineID, "70000")
	_, err = DefaultMachineID()
	assert.Error(t, err)
}

func TestDefaultMachineID_Hostname(t *testing.T) {
	t.Setenv(EnvMachineID, "")
	orig := osHostname
	t.Cleanup(func() { osHostname = orig })

	osHostname = func() (string, error) { return "broker-host", nil }
	id, err := DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, hashToMachineID("broker-host"), id)

	osHostname = func() (string, error) { return "", nil }
	_, err = DefaultMachineID()
	assert.Error(t, err)

	osHostname = func() (string, error) { return "", errors.New("denied") }
	_, err = DefaultMachineID()
	assert.Error(t, err)
}
