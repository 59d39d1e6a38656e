package domain

import "time"

const (
	EntityCategory = "category"
	EntityProduct  = "product"
	EntityCustomer = "customer"
	EntityCommand  = "command"
	EntityInvoice  = "invoice"
	EntityReview   = "review"
)

// DeletionOrder removes dependents before the rows they reference.
var DeletionOrder = []string{EntityReview, EntityInvoice, EntityCommand, EntityProduct, EntityCategory, EntityCustomer}

// InsertionOrder is the order foreign keys become resolvable in.
var InsertionOrder = []string{EntityCategory, EntityProduct, EntityCustomer, EntityCommand, EntityInvoice, EntityReview}

// Dataset is the output of a DatasetGenerator. IDs are generator-local and
// only meaningful within one dataset.
type Dataset struct {
	Categories []GeneratedCategory
	Products   []GeneratedProduct
	Customers  []GeneratedCustomer
	Commands   []GeneratedCommand
	Invoices   []GeneratedInvoice
	Reviews    []GeneratedReview
}

type GeneratedCategory struct {
	ID   int
	Name string
}

type GeneratedProduct struct {
	ID          int
	CategoryID  int
	Reference   string
	Width       float64
	Height      float64
	Price       float64
	Thumbnail   string
	Image       string
	Description string
	Stock       int
	Sales       int
}

type GeneratedCustomer struct {
	ID             int
	FirstName      string
	LastName       string
	Email          string
	Address        string
	Zipcode        string
	City           string
	StateAbbr      string
	Avatar         string
	Birthday       *time.Time
	FirstSeen      time.Time
	LastSeen       time.Time
	HasNewsletter  bool
	HasOrdered     bool
	LatestPurchase *time.Time
	Groups         []string
	NbCommands     int
	TotalSpent     float64
}

type GeneratedBasketItem struct {
	ProductID int
	Quantity  int
}

type GeneratedCommand struct {
	ID           int
	Reference    string
	Date         time.Time
	CustomerID   int
	Basket       []GeneratedBasketItem
	TotalExTaxes float64
	DeliveryFees float64
	TaxRate      float64
	Taxes        float64
	Total        float64
	Status       string
	Returned     bool
}

type GeneratedInvoice struct {
	ID           int
	Date         time.Time
	CommandID    int
	CustomerID   int
	TotalExTaxes float64
	DeliveryFees float64
	TaxRate      float64
	Taxes        float64
	Total        float64
}

type GeneratedReview struct {
	ID         int
	Date       time.Time
	Status     string
	CommandID  int
	ProductID  int
	CustomerID int
	Rating     int
	Comment    string
}

// Persisted row shapes, tagged with the upstream column names.

type CategoryRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductRow struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"category_id"`
	Reference   string  `json:"reference"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

type CustomerRow struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Address       string     `json:"address"`
	Zipcode       string     `json:"zipcode"`
	City          string     `json:"city"`
	StateAbbr     string     `json:"stateAbbr"`
	Avatar        string     `json:"avatar"`
	Birthday      *time.Time `json:"birthday"`
	FirstSeen     time.Time  `json:"first_seen"`
	LastSeen      time.Time  `json:"last_seen"`
	HasNewsletter bool       `json:"has_newsletter"`
	UserID        string     `json:"user_id"`
}

type BasketItemRow struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CommandRow struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	Date         time.Time       `json:"date"`
	CustomerID   string          `json:"customer_id"`
	Basket       []BasketItemRow `json:"basket"`
	TotalExTaxes float64         `json:"total_ex_taxes"`
	DeliveryFees float64         `json:"delivery_fees"`
	TaxRate      float64         `json:"tax_rate"`
	Taxes        float64         `json:"taxes"`
	Total        float64         `json:"total"`
	Status       string          `json:"status"`
	Returned     bool            `json:"returned"`
}

type InvoiceRow struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	CommandID    string    `json:"command_id"`
	CustomerID   string    `json:"customer_id"`
	TotalExTaxes float64   `json:"total_ex_taxes"`
	DeliveryFees float64   `json:"delivery_fees"`
	TaxRate      float64   `json:"tax_rate"`
	Taxes        float64   `json:"taxes"`
	Total        float64   `json:"total"`
}

type ReviewRow struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	CommandID  string    `json:"command_id"`
	ProductID  string    `json:"product_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
}
