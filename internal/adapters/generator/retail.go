package generator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
	"github.com/brianvoe/gofakeit/v7"
)

var categoryNames = []string{
	"animals", "beard", "business", "cars", "flowers", "food",
	"nature", "people", "sports", "tech", "travel", "water",
}

const (
	statusOrdered   = "ordered"
	statusDelivered = "delivered"
	statusCancelled = "cancelled"
)

var reviewStatuses = []string{"accepted", "pending", "rejected"}

type Options struct {
	Seed                uint64
	Customers           int
	Commands            int
	ProductsPerCategory int
	// Now anchors every generated date. Zero means time.Now().
	Now time.Time
}

func DefaultOptions() Options {
	return Options{Customers: 50, Commands: 150, ProductsPerCategory: 10}
}

// Retail produces a poster-shop dataset with consistent cross references.
type Retail struct {
	opts Options
}

func NewRetail(opts Options) *Retail {
	def := DefaultOptions()
	if opts.Customers <= 0 {
		opts.Customers = def.Customers
	}
	if opts.Commands < 0 {
		opts.Commands = 0
	}
	if opts.ProductsPerCategory <= 0 {
		opts.ProductsPerCategory = def.ProductsPerCategory
	}
	return &Retail{opts: opts}
}

func (g *Retail) Generate(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	now := g.opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC().Truncate(time.Second)
	seed := g.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	f := gofakeit.New(seed)

	var data domain.Dataset
	data.Categories = generateCategories()
	data.Products = generateProducts(f, data.Categories, g.opts.ProductsPerCategory)
	data.Customers = generateCustomers(f, g.opts.Customers, now)
	if len(data.Products) > 0 {
		data.Commands = generateCommands(f, data.Customers, data.Products, g.opts.Commands, now)
	}
	data.Invoices = generateInvoices(data.Commands)
	data.Reviews = generateReviews(f, data.Commands, now)
	finalizeCustomers(data.Customers, data.Commands, data.Reviews)
	finalizeProducts(data.Products, data.Commands)
	return data, nil
}

func generateCategories() []domain.GeneratedCategory {
	out := make([]domain.GeneratedCategory, 0, len(categoryNames))
	for i, name := range categoryNames {
		out = append(out, domain.GeneratedCategory{ID: i, Name: name})
	}
	return out
}

func generateProducts(f *gofakeit.Faker, categories []domain.GeneratedCategory, perCategory int) []domain.GeneratedProduct {
	out := make([]domain.GeneratedProduct, 0, len(categories)*perCategory)
	for _, c := range categories {
		for n := 1; n <= perCategory; n++ {
			width := round2(f.Float64Range(10, 40))
			height := round2(f.Float64Range(10, 40))
			out = append(out, domain.GeneratedProduct{
				ID:          len(out),
				CategoryID:  c.ID,
				Reference:   titleCase(f.Adjective() + " " + f.Noun()),
				Width:       width,
				Height:      height,
				Price:       round2(f.Float64Range(10, 100)),
				Thumbnail:   fmt.Sprintf("https://marmelab.com/posters/%s-%d.jpeg", c.Name, n),
				Image:       fmt.Sprintf("https://marmelab.com/posters/%s-%d.jpeg", c.Name, n),
				Description: sentence(f, 18),
				Stock:       f.IntRange(0, 150),
			})
		}
	}
	return out
}

func generateCustomers(f *gofakeit.Faker, count int, now time.Time) []domain.GeneratedCustomer {
	out := make([]domain.GeneratedCustomer, 0, count)
	for i := 0; i < count; i++ {
		first := f.FirstName()
		last := f.LastName()
		firstSeen := f.DateRange(now.AddDate(-2, 0, 0), now.AddDate(0, -3, 0)).UTC()
		lastSeen := f.DateRange(firstSeen, now).UTC()

		var birthday *time.Time
		if f.Bool() {
			b := f.DateRange(now.AddDate(-70, 0, 0), now.AddDate(-18, 0, 0)).UTC()
			birthday = &b
		}

		out = append(out, domain.GeneratedCustomer{
			ID:            i,
			FirstName:     first,
			LastName:      last,
			Email:         emailFor(first, last, i),
			Address:       f.Street(),
			Zipcode:       f.Zip(),
			City:          f.City(),
			StateAbbr:     f.StateAbr(),
			Avatar:        fmt.Sprintf("https://marmelab.com/posters/avatar-%d.jpeg", i%200),
			Birthday:      birthday,
			FirstSeen:     firstSeen,
			LastSeen:      lastSeen,
			HasNewsletter: f.Bool(),
		})
	}
	return out
}

func generateCommands(f *gofakeit.Faker, customers []domain.GeneratedCustomer, products []domain.GeneratedProduct, count int, now time.Time) []domain.GeneratedCommand {
	if len(customers) == 0 {
		return nil
	}
	// Only about half of the customers ever order.
	buyers := customers[:max(1, len(customers)/2)]

	out := make([]domain.GeneratedCommand, 0, count)
	for i := 0; i < count; i++ {
		customer := buyers[f.IntRange(0, len(buyers)-1)]
		date := f.DateRange(customer.FirstSeen, now).UTC()

		basket := make([]domain.GeneratedBasketItem, 0, 5)
		picked := map[int]bool{}
		items := f.IntRange(1, 5)
		var totalExTaxes float64
		for len(basket) < items && len(picked) < len(products) {
			p := products[f.IntRange(0, len(products)-1)]
			if picked[p.ID] {
				continue
			}
			picked[p.ID] = true
			qty := f.IntRange(1, 3)
			basket = append(basket, domain.GeneratedBasketItem{ProductID: p.ID, Quantity: qty})
			totalExTaxes += p.Price * float64(qty)
		}

		status := statusDelivered
		switch {
		case now.Sub(date) < 7*24*time.Hour:
			status = statusOrdered
		case f.IntRange(1, 100) <= 8:
			status = statusCancelled
		}

		totalExTaxes = round2(totalExTaxes)
		deliveryFees := round2(f.Float64Range(3, 8))
		taxRate := []float64{0.12, 0.17, 0.2}[f.IntRange(0, 2)]
		taxes := round2((totalExTaxes + deliveryFees) * taxRate)

		out = append(out, domain.GeneratedCommand{
			ID:           i,
			Reference:    strings.ToUpper(f.LetterN(6)),
			Date:         date,
			CustomerID:   customer.ID,
			Basket:       basket,
			TotalExTaxes: totalExTaxes,
			DeliveryFees: deliveryFees,
			TaxRate:      taxRate,
			Taxes:        taxes,
			Total:        round2(totalExTaxes + deliveryFees + taxes),
			Status:       status,
			Returned:     status == statusDelivered && f.IntRange(1, 100) <= 10,
		})
	}
	return out
}

func generateInvoices(commands []domain.GeneratedCommand) []domain.GeneratedInvoice {
	out := make([]domain.GeneratedInvoice, 0, len(commands))
	for _, c := range commands {
		if c.Status == statusCancelled {
			continue
		}
		out = append(out, domain.GeneratedInvoice{
			ID:           len(out),
			Date:         c.Date,
			CommandID:    c.ID,
			CustomerID:   c.CustomerID,
			TotalExTaxes: c.TotalExTaxes,
			DeliveryFees: c.DeliveryFees,
			TaxRate:      c.TaxRate,
			Taxes:        c.Taxes,
			Total:        c.Total,
		})
	}
	return out
}

func generateReviews(f *gofakeit.Faker, commands []domain.GeneratedCommand, now time.Time) []domain.GeneratedReview {
	var out []domain.GeneratedReview
	for _, c := range commands {
		if c.Status != statusDelivered {
			continue
		}
		for _, item := range c.Basket {
			if f.IntRange(1, 100) > 30 {
				continue
			}
			date := c.Date.Add(time.Duration(f.IntRange(1, 14*24)) * time.Hour)
			if date.After(now) {
				date = now
			}
			out = append(out, domain.GeneratedReview{
				ID:         len(out),
				Date:       date,
				Status:     reviewStatuses[f.IntRange(0, len(reviewStatuses)-1)],
				CommandID:  c.ID,
				ProductID:  item.ProductID,
				CustomerID: c.CustomerID,
				Rating:     f.IntRange(1, 5),
				Comment:    sentence(f, 12),
			})
		}
	}
	return out
}

// finalizeCustomers fills the purchase aggregates and group tags the
// generator derives from orders. They are never persisted.
func finalizeCustomers(customers []domain.GeneratedCustomer, commands []domain.GeneratedCommand, reviews []domain.GeneratedReview) {
	index := make(map[int]int, len(customers))
	for i, c := range customers {
		index[c.ID] = i
	}
	returned := map[int]bool{}
	for _, cmd := range commands {
		i, ok := index[cmd.CustomerID]
		if !ok || cmd.Status == statusCancelled {
			continue
		}
		c := &customers[i]
		c.NbCommands++
		c.TotalSpent = round2(c.TotalSpent + cmd.Total)
		c.HasOrdered = true
		if c.LatestPurchase == nil || cmd.Date.After(*c.LatestPurchase) {
			d := cmd.Date
			c.LatestPurchase = &d
		}
		if cmd.Returned {
			returned[cmd.CustomerID] = true
		}
	}
	reviewers := map[int]bool{}
	for _, r := range reviews {
		reviewers[r.CustomerID] = true
	}

	for i := range customers {
		c := &customers[i]
		var groups []string
		switch {
		case c.NbCommands == 1:
			groups = append(groups, "ordered_once")
		case c.NbCommands >= 5:
			groups = append(groups, "regular")
		}
		if c.TotalSpent > 1500 {
			groups = append(groups, "collector")
		}
		if returned[c.ID] {
			groups = append(groups, "returns")
		}
		if reviewers[c.ID] {
			groups = append(groups, "reviewer")
		}
		c.Groups = groups
	}
}

func finalizeProducts(products []domain.GeneratedProduct, commands []domain.GeneratedCommand) {
	index := make(map[int]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}
	for _, cmd := range commands {
		if cmd.Status == statusCancelled {
			continue
		}
		for _, item := range cmd.Basket {
			if i, ok := index[item.ProductID]; ok {
				products[i].Sales += item.Quantity
			}
		}
	}
}

func emailFor(first, last string, n int) string {
	clean := func(s string) string {
		s = strings.ToLower(s)
		return strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' {
				return r
			}
			return -1
		}, s)
	}
	return fmt.Sprintf("%s.%s.%d@example.com", clean(first), clean(last), n)
}

func sentence(f *gofakeit.Faker, words int) string {
	parts := make([]string, 0, words)
	for i := 0; i < words; i++ {
		parts = append(parts, f.Word())
	}
	s := strings.Join(parts, " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
