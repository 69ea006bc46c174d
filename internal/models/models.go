package models

// ConfirmPresenceRequest - body for confirming presence at an event
type ConfirmPresenceRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// ConfirmPresenceResponse returns the issued coupon, when any
type ConfirmPresenceResponse struct {
	ConfirmationID int64   `json:"confirmation_id"`
	Coupon         *Coupon `json:"coupon,omitempty"`
}

// ValidateCouponRequest - body for coupon lookup
type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidateCouponResponse reports whether a coupon can still be used
type ValidateCouponResponse struct {
	Valid           bool `json:"valid"`
	DiscountPercent int  `json:"discount_percent,omitempty"`
}

// CheckoutItem is one cart line submitted at checkout
type CheckoutItem struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest - body for placing a delivery order
type CheckoutRequest struct {
	CustomerName  string         `json:"customer_name" binding:"required"`
	CustomerPhone string         `json:"customer_phone" binding:"required"`
	Condominium   string         `json:"condominium" binding:"required"`
	Tower         string         `json:"tower"`
	Apartment     string         `json:"apartment" binding:"required"`
	Items         []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	CouponCode    string         `json:"coupon_code"`
	Notes         string         `json:"notes"`
}

// CheckoutResponse returns the created order identifiers and totals
type CheckoutResponse struct {
	ID       int64   `json:"id"`
	Status   string  `json:"status"`
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// UpdateOrderStatusRequest - admin body for moving an order along
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateProfileRequest - body for the profile endpoint
type UpdateProfileRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	Condominium string `json:"condominium"`
	Tower       string `json:"tower"`
	Apartment   string `json:"apartment"`
}

// OrderEmailRequest - body for dispatching the order confirmation email
type OrderEmailRequest struct {
	OrderID int64  `json:"order_id" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
}

// StoreStatusResponse reports the time-of-day business rules
type StoreStatusResponse struct {
	Open           bool   `json:"open"`
	AlcoholAllowed bool   `json:"alcohol_allowed"`
	NightMood      bool   `json:"night_mood"`
	Hour           int    `json:"hour"`
	Message        string `json:"message,omitempty"`
}

// OrderTrackingResponse combines the order with its display stages
type OrderTrackingResponse struct {
	Order  *DeliveryOrder `json:"order"`
	Stages []OrderStage   `json:"stages"`
}

// OrderStage is one step of the five-stage progress indicator
type OrderStage struct {
	Status  string `json:"status"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Reached bool   `json:"reached"`
	Current bool   `json:"current"`
}

// AdminUser is the trimmed auth user returned by the admin listing
type AdminUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	CreatedAt    string `json:"created_at"`
	LastSignInAt string `json:"last_sign_in_at,omitempty"`
}

// StatsResponse is the admin dashboard aggregation, computed over
// fetched rows rather than in the database
type StatsResponse struct {
	TotalOrders    int              `json:"total_orders"`
	OrdersByStatus map[string]int   `json:"orders_by_status"`
	Revenue        float64          `json:"revenue"`
	AverageTicket  float64          `json:"average_ticket"`
	OrdersPerDay   map[string]int   `json:"orders_per_day"`
	TopProducts    []ProductRanking `json:"top_products"`
	TotalEvents    int              `json:"total_events"`
	Confirmations  int              `json:"confirmations"`
	CouponsIssued  int              `json:"coupons_issued"`
	CouponsUsed    int              `json:"coupons_used"`
}

// ProductRanking is one row of the top-products card
type ProductRanking struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}
