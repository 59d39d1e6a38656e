package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateReferencesResolve(t *testing.T) {
	g := NewRetail(Options{Seed: 42, Customers: 20, Commands: 60, ProductsPerCategory: 3, Now: anchor})
	data, err := g.Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Categories, len(categoryNames))
	require.Len(t, data.Products, len(categoryNames)*3)
	require.Len(t, data.Customers, 20)
	require.Len(t, data.Commands, 60)

	categories := map[int]bool{}
	for _, c := range data.Categories {
		categories[c.ID] = true
	}
	products := map[int]bool{}
	for _, p := range data.Products {
		assert.True(t, categories[p.CategoryID], "product %d category", p.ID)
		products[p.ID] = true
	}
	customers := map[int]bool{}
	emails := map[string]bool{}
	for _, c := range data.Customers {
		customers[c.ID] = true
		assert.False(t, emails[c.Email], "duplicate email %s", c.Email)
		emails[c.Email] = true
		assert.False(t, c.LastSeen.Before(c.FirstSeen))
	}
	commands := map[int]bool{}
	for _, c := range data.Commands {
		commands[c.ID] = true
		assert.True(t, customers[c.CustomerID])
		assert.NotEmpty(t, c.Basket)
		for _, item := range c.Basket {
			assert.True(t, products[item.ProductID])
			assert.GreaterOrEqual(t, item.Quantity, 1)
		}
		assert.InDelta(t, c.TotalExTaxes+c.DeliveryFees+c.Taxes, c.Total, 0.011)
	}
	for _, inv := range data.Invoices {
		assert.True(t, commands[inv.CommandID])
		assert.True(t, customers[inv.CustomerID])
	}
	for _, r := range data.Reviews {
		assert.True(t, commands[r.CommandID])
		assert.True(t, products[r.ProductID])
		assert.True(t, customers[r.CustomerID])
		assert.False(t, r.Date.After(anchor))
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	opts := Options{Seed: 7, Customers: 5, Commands: 10, ProductsPerCategory: 2, Now: anchor}
	a, err := NewRetail(opts).Generate(context.Background())
	require.NoError(t, err)
	b, err := NewRetail(opts).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCustomerAggregatesMatchCommands(t *testing.T) {
	data, err := NewRetail(Options{Seed: 3, Customers: 10, Commands: 40, ProductsPerCategory: 2, Now: anchor}).Generate(context.Background())
	require.NoError(t, err)

	counts := map[int]int{}
	for _, c := range data.Commands {
		if c.Status != statusCancelled {
			counts[c.CustomerID]++
		}
	}
	for _, c := range data.Customers {
		assert.Equal(t, counts[c.ID], c.NbCommands, "customer %d", c.ID)
		assert.Equal(t, counts[c.ID] > 0, c.HasOrdered)
		assert.Equal(t, c.HasOrdered, c.LatestPurchase != nil)
	}
}

func TestGenerateHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRetail(Options{Seed: 1}).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
