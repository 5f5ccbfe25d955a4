// Copyright (c) 2026 The pairwalletd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair

import (
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"
)

const testBits = MinKeyBits

var testTime = time.Date(2026, time.March, 14, 23, 30, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*Manager, *clock.TestClock) {
	t.Helper()

	dir := t.TempDir()
	clk := clock.NewTestClock(testTime)
	m, err := New(&Config{
		PrivateTemplate: filepath.Join(dir, "keys", "private-"),
		PublicTemplate:  filepath.Join(dir, "keys", "public-"),
		Clock:           clk,
	})
	require.NoError(t, err)

	return m, clk
}

// TestNewConfig checks template validation.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&Config{PrivateTemplate: "a-"})
	require.Error(t, err)

	_, err = New(&Config{PrivateTemplate: "a-", PublicTemplate: "a-"})
	require.Error(t, err)

	m, err := New(&Config{PrivateTemplate: "a-", PublicTemplate: "b-"})
	require.NoError(t, err)
	require.NotNil(t, m.clock)
}

// TestBucket checks truncation to the start of the UTC day.
func TestBucket(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	require.Equal(t, want, Bucket(testTime))
	require.Equal(t, want, Bucket(want))

	// 01:00 on the 15th at UTC+2 is still the 14th in UTC.
	zone := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2026, time.March, 15, 1, 0, 0, 0, zone)
	require.Equal(t, want, Bucket(local))
}

// TestPaths checks the same day maps to the same paths and the next day to
// new ones.
func TestPaths(t *testing.T) {
	t.Parallel()

	m, clk := newTestManager(t)

	rec := m.Current()
	require.Equal(t, "private-20260314.pem",
		filepath.Base(rec.PrivatePath))
	require.Equal(t, "public-20260314.pem", filepath.Base(rec.PublicPath))

	clk.SetTime(testTime.Add(29*time.Minute + 59*time.Second))
	last := m.Current()
	require.Equal(t, rec.PrivatePath, last.PrivatePath)

	// Midnight UTC starts a new bucket.
	midnight := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	clk.SetTime(midnight)
	next := m.Current()
	require.NotEqual(t, rec.PrivatePath, next.PrivatePath)
	require.Equal(t, "private-20260315.pem",
		filepath.Base(next.PrivatePath))
	require.Equal(t, "public-20260315.pem", filepath.Base(next.PublicPath))

	clk.SetTime(testTime.Add(time.Hour))
	require.Equal(t, next.PrivatePath, m.Current().PrivatePath)

	clk.SetTime(testTime.Add(-23 * time.Hour))
	same := m.Current()
	require.Equal(t, rec.PrivatePath, same.PrivatePath)
	require.Equal(t, rec.PublicPath, same.PublicPath)
}

// TestEnsureGeneratesOnce checks a pair is created on first use and reused
// on later calls the same day.
func TestEnsureGeneratesOnce(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	rec, err := m.Ensure(testBits)
	require.NoError(t, err)
	require.True(t, rec.Generated)

	priv, err := os.ReadFile(rec.PrivatePath)
	require.NoError(t, err)
	block, _ := pem.Decode(priv)
	require.NotNil(t, block)
	require.Equal(t, privateBlockType, block.Type)

	info, err := os.Stat(rec.PrivatePath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	pub, err := os.ReadFile(rec.PublicPath)
	require.NoError(t, err)
	block, _ = pem.Decode(pub)
	require.NotNil(t, block)
	require.Equal(t, publicBlockType, block.Type)

	again, err := m.Ensure(testBits)
	require.NoError(t, err)
	require.False(t, again.Generated)
	require.Equal(t, rec.PrivatePath, again.PrivatePath)

	privAgain, err := os.ReadFile(again.PrivatePath)
	require.NoError(t, err)
	require.Equal(t, priv, privAgain)
}

// TestEnsurePartialPair checks a pair with one file missing is regenerated
// as a whole.
func TestEnsurePartialPair(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	rec, err := m.Ensure(testBits)
	require.NoError(t, err)

	oldPub, err := os.ReadFile(rec.PublicPath)
	require.NoError(t, err)
	require.NoError(t, os.Remove(rec.PrivatePath))

	rec, err = m.Ensure(testBits)
	require.NoError(t, err)
	require.True(t, rec.Generated)

	newPub, err := os.ReadFile(rec.PublicPath)
	require.NoError(t, err)
	require.NotEqual(t, oldPub, newPub)
}

// TestEnsureCorruptPublicKey checks a damaged public key fails verification
// and is left in place.
func TestEnsureCorruptPublicKey(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	rec, err := m.Ensure(testBits)
	require.NoError(t, err)

	garbage := []byte("not a key")
	require.NoError(t, os.WriteFile(rec.PublicPath, garbage, 0600))

	_, err = m.Ensure(testBits)
	require.ErrorIs(t, err, ErrProbeMismatch)

	got, err := os.ReadFile(rec.PublicPath)
	require.NoError(t, err)
	require.Equal(t, garbage, got)
}

// TestEnsureMismatchedPair checks a public key from another pair fails the
// probe round trip.
func TestEnsureMismatchedPair(t *testing.T) {
	t.Parallel()

	m, clk := newTestManager(t)

	first, err := m.Ensure(testBits)
	require.NoError(t, err)

	clk.SetTime(testTime.Add(24 * time.Hour))
	second, err := m.Ensure(testBits)
	require.NoError(t, err)
	require.True(t, second.Generated)

	foreign, err := os.ReadFile(first.PublicPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(second.PublicPath, foreign, 0600))

	err = m.Verify(second)
	require.ErrorIs(t, err, ErrProbeMismatch)

	_, err = m.Ensure(testBits)
	require.ErrorIs(t, err, ErrProbeMismatch)
}

// TestEnsureKeyTooSmall checks undersized keys are refused before any file
// is written.
func TestEnsureKeyTooSmall(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	_, err := m.Ensure(512)
	require.ErrorIs(t, err, ErrKeyTooSmall)

	_, err = os.Stat(m.Current().PrivatePath)
	require.True(t, os.IsNotExist(err))
}

// TestVerifyMissingFile checks a missing file surfaces as a filesystem
// error.
func TestVerifyMissingFile(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	err := m.Verify(m.Current())
	require.ErrorIs(t, err, os.ErrNotExist)
}
