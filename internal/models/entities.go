package models

import (
	"time"
)

// Event represents an event promoted on the platform
type Event struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Location          string     `json:"location"`
	StartsAt          time.Time  `json:"starts_at"`
	EndsAt            *time.Time `json:"ends_at,omitempty"`
	Type              string     `json:"type"`
	Active            bool       `json:"active"`
	RequiresPresence  bool       `json:"requires_presence"`
	ImagePath         string     `json:"image_path,omitempty"`
	ConfirmationCount int        `json:"confirmation_count"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Confirmation links a visitor's contact to an event
type Confirmation struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Coupon is a discount code issued for an event confirmation
type Coupon struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discount_percent"`
	Used            bool       `json:"used"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
	EventID         int64      `json:"event_id"`
	ConfirmationID  *int64     `json:"confirmation_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// DeliveryProduct is an item sold on the delivery storefront
type DeliveryProduct struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	PromoPrice  *float64  `json:"promo_price,omitempty"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	Featured    bool      `json:"featured"`
	Alcoholic   bool      `json:"alcoholic"`
	CategoryID  int64     `json:"category_id"`
	ImagePath   string    `json:"image_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeliveryCategory groups storefront products
type DeliveryCategory struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// Order status progression. Cancelled is a terminal branch outside the
// five-stage flow; no code here validates transition legality, the UI
// renders whatever the backend reports.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusDelivering = "delivering"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem is one line of a delivery order, stored as JSON on the order row
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// DeliveryOrder is a placed storefront order
type DeliveryOrder struct {
	ID            int64       `json:"id"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Condominium   string      `json:"condominium"`
	Tower         string      `json:"tower"`
	Apartment     string      `json:"apartment"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	CouponCode    *string     `json:"coupon_code,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Status        string      `json:"status"`
	WhatsAppSent  bool        `json:"whatsapp_sent"`
	CreatedAt     time.Time   `json:"created_at"`
	ConfirmedAt   *time.Time  `json:"confirmed_at,omitempty"`
	PreparingAt   *time.Time  `json:"preparing_at,omitempty"`
	DeliveringAt  *time.Time  `json:"delivering_at,omitempty"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	CancelledAt   *time.Time  `json:"cancelled_at,omitempty"`
}

// Profile holds a user's contact and address fields, keyed by auth user id
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Condominium string    `json:"condominium"`
	Tower       string    `json:"tower"`
	Apartment   string    `json:"apartment"`
	UpdatedAt   time.Time `json:"updated_at"`
}
