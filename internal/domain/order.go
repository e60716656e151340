package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusInProduction   OrderStatus = "In Production"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// OrderStatuses lists the pipeline in order; Cancelled is terminal and sits outside it.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusInProduction,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// InTransit reports whether the order has left production but not yet arrived.
func (s OrderStatus) InTransit() bool {
	return s == StatusShipped || s == StatusOutForDelivery
}

type Region string

const (
	RegionAPAC Region = "APAC"
	RegionUK   Region = "UK"
	RegionUS   Region = "US"
)

var Regions = []Region{RegionAPAC, RegionUK, RegionUS}

func (r Region) Valid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

type Currency string

const (
	CurrencyAUD Currency = "AUD"
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
)

// Currency returns the settlement currency for the region, empty for unknown regions.
func (r Region) Currency() Currency {
	switch r {
	case RegionAPAC:
		return CurrencyAUD
	case RegionUK:
		return CurrencyGBP
	case RegionUS:
		return CurrencyUSD
	}
	return ""
}

type ProductCategory string

const (
	CategorySofa      ProductCategory = "Sofa"
	CategoryBed       ProductCategory = "Bed"
	CategoryChair     ProductCategory = "Chair"
	CategoryTable     ProductCategory = "Table"
	CategoryAccessory ProductCategory = "Accessory"
	CategoryStorage   ProductCategory = "Storage"
)

var ProductCategories = []ProductCategory{
	CategorySofa,
	CategoryBed,
	CategoryChair,
	CategoryTable,
	CategoryAccessory,
	CategoryStorage,
}

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentPayPal       PaymentMethod = "PayPal"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentFinancing    PaymentMethod = "Financing"
)

var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentPayPal, PaymentBankTransfer, PaymentFinancing}

type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "Standard"
	DeliveryDeluxe   DeliveryOption = "Deluxe"
)

var DeliveryOptions = []DeliveryOption{DeliveryStandard, DeliveryDeluxe}

type Order struct {
	ID                     string          `json:"id"`
	DateTime               time.Time       `json:"dateTime"`
	Region                 Region          `json:"region"`
	ProductSKU             string          `json:"productSku"`
	ProductName            string          `json:"productName"`
	ProductCategory        ProductCategory `json:"productCategory"`
	Quantity               int             `json:"quantity"`
	OrderTotal             decimal.Decimal `json:"orderTotal"`
	Currency               Currency        `json:"currency"`
	CustomerName           string          `json:"customerName"`
	CustomerEmail          string          `json:"customerEmail"`
	DeliveryAddress        string          `json:"deliveryAddress"`
	City                   string          `json:"city"`
	Country                string          `json:"country"`
	Status                 OrderStatus     `json:"status"`
	PaymentMethod          PaymentMethod   `json:"paymentMethod"`
	DeliveryOption         DeliveryOption  `json:"deliveryOption"`
	DeliveryETA            time.Time       `json:"deliveryEta"`
	LastStatusUpdate       time.Time       `json:"lastStatusUpdate"`
	ProductConfiguration   map[string]any  `json:"productConfiguration"`
	WarrantyStatus         string          `json:"warrantyStatus"`
	CustomerServiceContact string          `json:"customerServiceContact"`
	FeedbackReceived       bool            `json:"feedbackReceived"`
	Notes                  string          `json:"notes"`
}

// Clone returns a copy that shares no mutable state with o.
func (o Order) Clone() Order {
	if o.ProductConfiguration != nil {
		cfg := make(map[string]any, len(o.ProductConfiguration))
		for k, v := range o.ProductConfiguration {
			cfg[k] = v
		}
		o.ProductConfiguration = cfg
	}
	return o
}

// CloneOrders copies every order in the slice. A nil input yields an empty, non-nil slice.
func CloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i := range orders {
		out[i] = orders[i].Clone()
	}
	return out
}
