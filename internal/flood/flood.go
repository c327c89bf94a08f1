// Package flood generates randomized test payments fired at the test
// network from a pool of funded test accounts.
package flood

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"

	"github.com/dvilelaf/zerppay/internal/domain"
)

// Account is one funded test-network account from the fixture pool.
type Account struct {
	Address string `json:"address"`
	Secret  string `json:"secret"`
}

// LoadAccounts reads the test account fixture file.
func LoadAccounts(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file %s: %w", path, err)
	}
	var fixture struct {
		Accounts []Account `json:"accounts"`
	}
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse accounts file %s: %w", path, err)
	}
	if len(fixture.Accounts) == 0 {
		return nil, fmt.Errorf("accounts file %s holds no accounts", path)
	}
	return fixture.Accounts, nil
}

var (
	prizes = []float64{100, 1000}
	tags   = []uint32{100, 1000}
)

// Generator produces randomized payment requests mimicking lottery
// participations: a random test account plays a random fraction of a prize
// value against a reserved destination tag.
type Generator struct {
	accounts    []Account
	destination string
	ratio       float64
	rng         *rand.Rand
}

// NewGenerator creates a generator over the account pool. The seed makes a
// run reproducible.
func NewGenerator(accounts []Account, destination string, ratio float64, seed int64) *Generator {
	return &Generator{
		accounts:    accounts,
		destination: destination,
		ratio:       ratio,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Requests generates n randomized payment requests. Amounts stay within
// (0.5, 1.5) times prize x ratio.
func (g *Generator) Requests(n int) []domain.PaymentRequest {
	requests := make([]domain.PaymentRequest, 0, n)
	for i := 0; i < n; i++ {
		account := g.accounts[g.rng.Intn(len(g.accounts))]
		prize := prizes[g.rng.Intn(len(prizes))]
		tag := tags[g.rng.Intn(len(tags))]
		amount := prize * g.ratio * (0.5 + g.rng.Float64())

		requests = append(requests, domain.PaymentRequest{
			ID:                 uuid.NewString(),
			SourceAddress:      account.Address,
			SourceSecret:       account.Secret,
			DestinationAddress: g.destination,
			DestinationTag:     &tag,
			Amount:             amount,
			Memo:               "playTest",
			Kind:               "PLAY_TEST",
		})
	}
	return requests
}
