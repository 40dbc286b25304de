package models

// OrderStatusChangedToPaidEvent — событие брокера о том, что заказ оплачен.
// Доставляется по схеме at-least-once: обработчик обязан переживать дубликаты.
type OrderStatusChangedToPaidEvent struct {
	OrderID         int              `json:"order_id" validate:"required,gt=0"`
	BuyerID         string           `json:"buyer_id" validate:"required"`
	OrderStockItems []OrderStockItem `json:"order_stock_items" validate:"required,dive"`
}

// OrderStockItem — позиция заказа. ProductID может указывать на товар,
// не являющийся цифровым атлетом, тогда позиция игнорируется.
type OrderStockItem struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Units     int `json:"units"`
}
