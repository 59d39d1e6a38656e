package application

import (
	"fmt"

	"github.com/atvirokodosprendimai/retailadmin/internal/domain"
)

// idMap translates generator-local ids to the identifiers assigned in this run.
type idMap map[int]string

func (m idMap) assign(original int, newID func() string) string {
	id := newID()
	m[original] = id
	return id
}

func (m idMap) resolve(entity string, original int) (string, error) {
	id, ok := m[original]
	if !ok {
		return "", fmt.Errorf("unknown %s %d", entity, original)
	}
	return id, nil
}

// seedPlan holds the rows of one run, re-keyed and with every foreign key
// resolved. Customer rows get their user_id once the account exists.
type seedPlan struct {
	Categories []domain.CategoryRow
	Products   []domain.ProductRow
	Customers  []domain.CustomerRow
	Commands   []domain.CommandRow
	Invoices   []domain.InvoiceRow
	Reviews    []domain.ReviewRow
}

func buildPlan(data domain.Dataset, newID func() string) (seedPlan, error) {
	var plan seedPlan
	categoryIDs := idMap{}
	productIDs := idMap{}
	customerIDs := idMap{}
	commandIDs := idMap{}

	for _, c := range data.Categories {
		plan.Categories = append(plan.Categories, projectCategory(c, categoryIDs.assign(c.ID, newID)))
	}

	for _, p := range data.Products {
		categoryID, err := categoryIDs.resolve(domain.EntityCategory, p.CategoryID)
		if err != nil {
			return seedPlan{}, fmt.Errorf("product %d: %w", p.ID, err)
		}
		plan.Products = append(plan.Products, projectProduct(p, productIDs.assign(p.ID, newID), categoryID))
	}

	for _, c := range data.Customers {
		plan.Customers = append(plan.Customers, projectCustomer(c, customerIDs.assign(c.ID, newID)))
	}

	for _, c := range data.Commands {
		customerID, err := customerIDs.resolve(domain.EntityCustomer, c.CustomerID)
		if err != nil {
			return seedPlan{}, fmt.Errorf("command %d: %w", c.ID, err)
		}
		basket := make([]domain.BasketItemRow, 0, len(c.Basket))
		for _, item := range c.Basket {
			productID, err := productIDs.resolve(domain.EntityProduct, item.ProductID)
			if err != nil {
				return seedPlan{}, fmt.Errorf("command %d basket: %w", c.ID, err)
			}
			basket = append(basket, domain.BasketItemRow{ProductID: productID, Quantity: item.Quantity})
		}
		plan.Commands = append(plan.Commands, projectCommand(c, commandIDs.assign(c.ID, newID), customerID, basket))
	}

	for _, inv := range data.Invoices {
		customerID, err := customerIDs.resolve(domain.EntityCustomer, inv.CustomerID)
		if err != nil {
			return seedPlan{}, fmt.Errorf("invoice %d: %w", inv.ID, err)
		}
		commandID, err := commandIDs.resolve(domain.EntityCommand, inv.CommandID)
		if err != nil {
			return seedPlan{}, fmt.Errorf("invoice %d: %w", inv.ID, err)
		}
		plan.Invoices = append(plan.Invoices, projectInvoice(inv, newID(), customerID, commandID))
	}

	for _, r := range data.Reviews {
		customerID, err := customerIDs.resolve(domain.EntityCustomer, r.CustomerID)
		if err != nil {
			return seedPlan{}, fmt.Errorf("review %d: %w", r.ID, err)
		}
		commandID, err := commandIDs.resolve(domain.EntityCommand, r.CommandID)
		if err != nil {
			return seedPlan{}, fmt.Errorf("review %d: %w", r.ID, err)
		}
		productID, err := productIDs.resolve(domain.EntityProduct, r.ProductID)
		if err != nil {
			return seedPlan{}, fmt.Errorf("review %d: %w", r.ID, err)
		}
		plan.Reviews = append(plan.Reviews, projectReview(r, newID(), customerID, commandID, productID))
	}

	return plan, nil
}

func projectCategory(c domain.GeneratedCategory, id string) domain.CategoryRow {
	return domain.CategoryRow{ID: id, Name: c.Name}
}

// projectProduct drops stock and sales, which have no column.
func projectProduct(p domain.GeneratedProduct, id, categoryID string) domain.ProductRow {
	return domain.ProductRow{
		ID:          id,
		CategoryID:  categoryID,
		Reference:   p.Reference,
		Width:       p.Width,
		Height:      p.Height,
		Price:       p.Price,
		Thumbnail:   p.Thumbnail,
		Image:       p.Image,
		Description: p.Description,
	}
}

// projectCustomer drops the purchase aggregates and group tags.
func projectCustomer(c domain.GeneratedCustomer, id string) domain.CustomerRow {
	return domain.CustomerRow{
		ID:            id,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		Address:       c.Address,
		Zipcode:       c.Zipcode,
		City:          c.City,
		StateAbbr:     c.StateAbbr,
		Avatar:        c.Avatar,
		Birthday:      c.Birthday,
		FirstSeen:     c.FirstSeen,
		LastSeen:      c.LastSeen,
		HasNewsletter: c.HasNewsletter,
	}
}

func projectCommand(c domain.GeneratedCommand, id, customerID string, basket []domain.BasketItemRow) domain.CommandRow {
	return domain.CommandRow{
		ID:           id,
		Reference:    c.Reference,
		Date:         c.Date,
		CustomerID:   customerID,
		Basket:       basket,
		TotalExTaxes: c.TotalExTaxes,
		DeliveryFees: c.DeliveryFees,
		TaxRate:      c.TaxRate,
		Taxes:        c.Taxes,
		Total:        c.Total,
		Status:       c.Status,
		Returned:     c.Returned,
	}
}

func projectInvoice(inv domain.GeneratedInvoice, id, customerID, commandID string) domain.InvoiceRow {
	return domain.InvoiceRow{
		ID:           id,
		Date:         inv.Date,
		CommandID:    commandID,
		CustomerID:   customerID,
		TotalExTaxes: inv.TotalExTaxes,
		DeliveryFees: inv.DeliveryFees,
		TaxRate:      inv.TaxRate,
		Taxes:        inv.Taxes,
		Total:        inv.Total,
	}
}

func projectReview(r domain.GeneratedReview, id, customerID, commandID, productID string) domain.ReviewRow {
	return domain.ReviewRow{
		ID:         id,
		Date:       r.Date,
		Status:     r.Status,
		CommandID:  commandID,
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
	}
}
