package service

import (
	"namidia/internal/models"
)

// StatusInfo is the display mapping for one order status. Pure lookup:
// nothing here validates that transitions are monotonic.
type StatusInfo struct {
	Label string
	Icon  string
	Color string
}

var orderStatusInfo = map[string]StatusInfo{
	models.OrderStatusPending:    {Label: "Pedido recebido", Icon: "clock", Color: "#f59e0b"},
	models.OrderStatusConfirmed:  {Label: "Pedido confirmado", Icon: "check-circle", Color: "#3b82f6"},
	models.OrderStatusPreparing:  {Label: "Em preparo", Icon: "chef-hat", Color: "#8b5cf6"},
	models.OrderStatusDelivering: {Label: "Saiu para entrega", Icon: "bike", Color: "#06b6d4"},
	models.OrderStatusCompleted:  {Label: "Entregue", Icon: "package-check", Color: "#22c55e"},
	models.OrderStatusCancelled:  {Label: "Pedido cancelado", Icon: "x-circle", Color: "#ef4444"},
}

// orderProgression is the fixed five-stage flow rendered by the tracking
// page. Cancelled sits outside it as a terminal branch.
var orderProgression = []string{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusPreparing,
	models.OrderStatusDelivering,
	models.OrderStatusCompleted,
}

// StatusInfoFor returns the display mapping for a status. Unknown values
// fall back to the raw status string so the UI renders whatever the
// backend reported.
func StatusInfoFor(status string) StatusInfo {
	if info, ok := orderStatusInfo[status]; ok {
		return info
	}
	return StatusInfo{Label: status, Icon: "help-circle", Color: "#6b7280"}
}

// StatusIndex returns the position of a status in the progression, or -1
// for cancelled and unknown statuses.
func StatusIndex(status string) int {
	for i, s := range orderProgression {
		if s == status {
			return i
		}
	}
	return -1
}

// OrderStages builds the progress indicator for a tracking page: the five
// stages with reached/current flags, or a single cancelled stage.
func OrderStages(status string) []models.OrderStage {
	if status == models.OrderStatusCancelled {
		info := orderStatusInfo[models.OrderStatusCancelled]
		return []models.OrderStage{{
			Status:  models.OrderStatusCancelled,
			Label:   info.Label,
			Icon:    info.Icon,
			Color:   info.Color,
			Reached: true,
			Current: true,
		}}
	}

	current := StatusIndex(status)
	stages := make([]models.OrderStage, len(orderProgression))
	for i, s := range orderProgression {
		info := orderStatusInfo[s]
		stages[i] = models.OrderStage{
			Status:  s,
			Label:   info.Label,
			Icon:    info.Icon,
			Color:   info.Color,
			Reached: current >= i,
			Current: current == i,
		}
	}
	return stages
}
