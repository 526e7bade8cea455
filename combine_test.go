package tssrsa_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tssrsa "github.com/cryptovault-labs/tssrsa"
)

func TestCombineEndToEnd(t *testing.T) {
	shares, pub, meta, err := tssrsa.GenerateKey(1024, 3, 2)
	require.NoError(t, err)

	doc := []byte("end to end message")
	sig0, err := shares[0].Sign(doc, meta, pub)
	require.NoError(t, err)
	sig1, err := shares[1].Sign(doc, meta, pub)
	require.NoError(t, err)

	sigma, err := tssrsa.CombineSignatures(doc, []tssrsa.SigShare{*sig0, *sig1}, pub, meta)
	require.NoError(t, err)
	assert.True(t, pub.VerifySignature(doc, sigma))
}

func TestCombineRejectsFewerThanThreshold(t *testing.T) {
	shares, pub, meta, err := tssrsa.GenerateKey(1024, 3, 2)
	require.NoError(t, err)

	doc := []byte("under threshold")
	sig0, err := shares[0].Sign(doc, meta, pub)
	require.NoError(t, err)

	_, err = tssrsa.CombineSignatures(doc, []tssrsa.SigShare{*sig0}, pub, meta)
	require.Error(t, err)
	var terr *tssrsa.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, tssrsa.InvalidShare, terr.Kind)
}

func TestCombineRejectsDuplicateIndices(t *testing.T) {
	shares, pub, meta, err := tssrsa.GenerateKey(1024, 3, 2)
	require.NoError(t, err)

	doc := []byte("dup index")
	sig0, err := shares[0].Sign(doc, meta, pub)
	require.NoError(t, err)

	_, err = tssrsa.CombineSignatures(doc, []tssrsa.SigShare{*sig0, *sig0}, pub, meta)
	require.Error(t, err)
}

func TestCombineRejectsTamperedShare(t *testing.T) {
	shares, pub, meta, err := tssrsa.GenerateKey(1024, 3, 2)
	require.NoError(t, err)

	doc := []byte("tampered share")
	sig0, err := shares[0].Sign(doc, meta, pub)
	require.NoError(t, err)
	sig1, err := shares[1].Sign(doc, meta, pub)
	require.NoError(t, err)

	tampered := *sig0
	tampered.SigShare = new(big.Int).Add(tampered.SigShare, big.NewInt(1))

	_, err = tssrsa.CombineSignatures(doc, []tssrsa.SigShare{tampered, *sig1}, pub, meta)
	require.Error(t, err)
	var terr *tssrsa.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, tssrsa.InvalidShare, terr.Kind)
}

func TestCombineWithoutValidationAgreesWithValidated(t *testing.T) {
	shares, pub, meta, err := tssrsa.GenerateKey(1024, 3, 2)
	require.NoError(t, err)

	doc := []byte("fast path agreement")
	sig0, err := shares[0].Sign(doc, meta, pub)
	require.NoError(t, err)
	sig1, err := shares[1].Sign(doc, meta, pub)
	require.NoError(t, err)

	set := []tssrsa.SigShare{*sig0, *sig1}
	checked, err := tssrsa.CombineSignatures(doc, set, pub, meta)
	require.NoError(t, err)
	unchecked, err := tssrsa.CombineSignaturesWithoutValidation(doc, set, pub, meta)
	require.NoError(t, err)
	assert.Equal(t, 0, checked.Cmp(unchecked))
}
