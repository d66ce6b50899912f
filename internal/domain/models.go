package domain

import "time"

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableRunning   TableStatus = "running"
	TableClosed    TableStatus = "closed" // stopped, waiting for payment
)

type SessionType string

const (
	SessionOpen  SessionType = "open"
	SessionFixed SessionType = "fixed"
)

func (t SessionType) Valid() bool { return t == SessionOpen || t == SessionFixed }

type SessionStatus string

const (
	SessionCompleted SessionStatus = "completed"
	SessionVoided    SessionStatus = "voided"
)

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderVoided    OrderStatus = "voided"
)

type PriceCategory struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourlyRate"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type BilliardTable struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Status          TableStatus   `json:"status"`
	Position        Position      `json:"position"`
	Size            Size          `json:"size"`
	PriceCategoryID string        `json:"priceCategoryId,omitempty"`
	CurrentSession  *TableSession `json:"currentSession,omitempty"`
}

// TableSession is embedded in a table while in progress and appended to the
// ledger once paid. HourlyRate is the rate resolved at start time.
type TableSession struct {
	ID             string        `json:"id"`
	TableID        string        `json:"tableId"`
	TableName      string        `json:"tableName"`
	StartTime      time.Time     `json:"startTime"`
	SessionType    SessionType   `json:"sessionType"`
	FixedDuration  *float64      `json:"fixedDuration,omitempty"` // hours
	HourlyRate     float64       `json:"hourlyRate"`
	EndedElapsedMs *int64        `json:"endedElapsedMs,omitempty"`
	EndTime        *time.Time    `json:"endTime,omitempty"`
	TotalAmount    *float64      `json:"totalAmount,omitempty"`
	Status         SessionStatus `json:"status,omitempty"`
}

// Voided reports whether the archived session was soft-deleted. Sessions
// stored without a status are completed ones.
func (s TableSession) Voided() bool { return s.Status == SessionVoided }

func (s TableSession) Amount() float64 {
	if s.TotalAmount == nil {
		return 0
	}
	return *s.TotalAmount
}

type RetailItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
}

type RetailSale struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"itemId"`
	ItemName   string    `json:"itemName"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unitPrice"`
	TotalPrice float64   `json:"totalPrice"`
	Timestamp  time.Time `json:"timestamp"`
	OrderID    string    `json:"orderId,omitempty"`
}

type OrderItem struct {
	ItemID     string  `json:"itemId"`
	ItemName   string  `json:"itemName"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

type Order struct {
	ID         string      `json:"id"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	Timestamp  time.Time   `json:"timestamp"`
	Notes      string      `json:"notes,omitempty"`
	Status     OrderStatus `json:"status"`
}

// AggregateState is the whole persisted document. UpdatedAt is epoch millis.
type AggregateState struct {
	Tables          []BilliardTable `json:"tables"`
	Sessions        []TableSession  `json:"sessions"`
	RetailItems     []RetailItem    `json:"retailItems"`
	PriceCategories []PriceCategory `json:"priceCategories,omitempty"`
	RetailSales     []RetailSale    `json:"retailSales"`
	Orders          []Order         `json:"orders,omitempty"`
	HourlyRate      float64         `json:"hourlyRate"`
	UpdatedAt       int64           `json:"updatedAt"`
}

const DefaultHourlyRate = 15

// EmptyState is the shape a store returns before anything was ever saved.
func EmptyState(now time.Time) AggregateState {
	return AggregateState{
		Tables:      []BilliardTable{},
		Sessions:    []TableSession{},
		RetailItems: []RetailItem{},
		RetailSales: []RetailSale{},
		HourlyRate:  DefaultHourlyRate,
		UpdatedAt:   now.UnixMilli(),
	}
}
