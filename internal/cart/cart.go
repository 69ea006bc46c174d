// Package cart implements the shopping cart structure the storefront
// persists on the client. The server rebuilds it at checkout to recompute
// totals from trusted product rows instead of client-supplied prices.
package cart

import (
	"encoding/json"
	"math"
	"sort"

	"namidia/internal/models"
)

// Item is one cart line: a product snapshot plus a quantity.
type Item struct {
	ProductID  int64    `json:"product_id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	PromoPrice *float64 `json:"promo_price,omitempty"`
	Quantity   int      `json:"quantity"`
}

// EffectivePrice is the price a line actually sells at: the promotional
// price when one is set, the regular price otherwise.
func (i Item) EffectivePrice() float64 {
	if i.PromoPrice != nil && *i.PromoPrice > 0 && *i.PromoPrice < i.Price {
		return *i.PromoPrice
	}
	return i.Price
}

// Cart maps product ids to items. It is single-owner state: the browser
// tab that owns it, or the checkout request rebuilding it, so there is no
// locking here.
type Cart struct {
	items map[int64]*Item
}

func New() *Cart {
	return &Cart{items: make(map[int64]*Item)}
}

// Add inserts a product or increments its quantity when already present.
func (c *Cart) Add(product models.DeliveryProduct, quantity int) {
	if quantity <= 0 {
		return
	}
	if item, ok := c.items[product.ID]; ok {
		item.Quantity += quantity
		return
	}
	c.items[product.ID] = &Item{
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price,
		PromoPrice: product.PromoPrice,
		Quantity:   quantity,
	}
}

// Remove drops a product from the cart.
func (c *Cart) Remove(productID int64) {
	delete(c.items, productID)
}

// SetQuantity overrides a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if item, ok := c.items[productID]; ok {
		item.Quantity = quantity
	}
}

// Items returns the lines ordered by product id.
func (c *Cart) Items() []Item {
	items := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].ProductID < items[b].ProductID
	})
	return items
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums price times quantity over all lines, using promotional
// prices where set.
func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.EffectivePrice() * float64(item.Quantity)
	}
	return round2(total)
}

// Discount computes the coupon discount amount for a percentage.
func (c *Cart) Discount(percent int) float64 {
	if percent <= 0 {
		return 0
	}
	return round2(c.Subtotal() * float64(percent) / 100)
}

// Total is the subtotal minus the coupon discount.
func (c *Cart) Total(couponPercent int) float64 {
	return round2(c.Subtotal() - c.Discount(couponPercent))
}

// OrderItems converts the cart lines to order rows for checkout.
func (c *Cart) OrderItems() []models.OrderItem {
	items := c.Items()
	result := make([]models.OrderItem, len(items))
	for i, item := range items {
		result[i] = models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.EffectivePrice(),
			Quantity:  item.Quantity,
		}
	}
	return result
}

// MarshalJSON serializes the cart as the flat item list the client keeps
// in local storage.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

// UnmarshalJSON restores a cart from the client-persisted item list.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	c.items = make(map[int64]*Item, len(items))
	for i := range items {
		item := items[i]
		if item.Quantity <= 0 {
			continue
		}
		if existing, ok := c.items[item.ProductID]; ok {
			existing.Quantity += item.Quantity
			continue
		}
		c.items[item.ProductID] = &item
	}
	return nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
