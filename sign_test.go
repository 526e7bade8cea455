package tssrsa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tssrsa "github.com/cryptovault-labs/tssrsa"
)

func TestSignRejectsOutOfRangeIndex(t *testing.T) {
	_, _, meta, err := tssrsa.GenerateKey(1024, 3, 2)
	require.NoError(t, err)

	bogus := tssrsa.PrivateShare{Index: 99, Si: meta.Vkv} // index out of [1, l]
	_, err = bogus.Sign([]byte("doc"), meta, &tssrsa.PublicKey{N: meta.Vkv, E: meta.Vkv})
	require.Error(t, err)
}

func TestSignProducesVerifiableShare(t *testing.T) {
	shares, pub, meta, err := tssrsa.GenerateKey(1024, 3, 2)
	require.NoError(t, err)

	sig, err := shares[0].Sign([]byte("a message to sign"), meta, pub)
	require.NoError(t, err)
	assert.Equal(t, shares[0].Index, sig.Index)
	assert.NotNil(t, sig.SigShare)
	assert.NotNil(t, sig.Z)
	assert.NotNil(t, sig.C)
}
