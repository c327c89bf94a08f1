package flood

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAccounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testAccounts.json")
	fixture := `{"accounts": [
		{"address": "rTestOne", "secret": "sOne"},
		{"address": "rTestTwo", "secret": "sTwo"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	accounts, err := LoadAccounts(path)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, Account{Address: "rTestOne", Secret: "sOne"}, accounts[0])
}

func TestLoadAccountsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testAccounts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"accounts": []}`), 0o600))

	_, err := LoadAccounts(path)
	require.Error(t, err)
}

func TestLoadAccountsMissingFile(t *testing.T) {
	_, err := LoadAccounts(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestGeneratorRequests(t *testing.T) {
	accounts := []Account{
		{Address: "rTestOne", Secret: "sOne"},
		{Address: "rTestTwo", Secret: "sTwo"},
	}
	const ratio = 0.8
	gen := NewGenerator(accounts, "rLotto", ratio, 42)

	requests := gen.Requests(50)
	require.Len(t, requests, 50)

	seen := make(map[string]bool)
	for _, req := range requests {
		assert.False(t, seen[req.ID], "duplicate request id")
		seen[req.ID] = true

		assert.Contains(t, []string{"rTestOne", "rTestTwo"}, req.SourceAddress)
		assert.NotEmpty(t, req.SourceSecret)
		assert.Equal(t, "rLotto", req.DestinationAddress)

		require.NotNil(t, req.DestinationTag)
		assert.Contains(t, []uint32{100, 1000}, *req.DestinationTag)

		// prize x ratio x (0.5, 1.5) for prizes 100 and 1000.
		assert.GreaterOrEqual(t, req.Amount, 100*ratio*0.5)
		assert.Less(t, req.Amount, 1000*ratio*1.5)

		assert.Equal(t, "playTest", req.Memo)
	}
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	accounts := []Account{{Address: "rTestOne", Secret: "sOne"}}

	a := NewGenerator(accounts, "rLotto", 0.8, 7).Requests(10)
	b := NewGenerator(accounts, "rLotto", 0.8, 7).Requests(10)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Amount, b[i].Amount)
		assert.Equal(t, *a[i].DestinationTag, *b[i].DestinationTag)
	}
}
