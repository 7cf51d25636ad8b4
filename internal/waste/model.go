package waste

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"greensteps/internal/reward"
)

const DateLayout = "2006-01-02"

type Category struct {
	ID   int    `db:"waste_type_id" json:"waste_type_id"`
	Code string `db:"type_code" json:"type_code"`
	Name string `db:"display_name" json:"display_name"`
	Unit string `db:"unit" json:"unit"`
}

type Record struct {
	ID           int       `db:"record_id" json:"record_id"`
	UserID       int       `db:"user_id" json:"user_id"`
	UserName     string    `db:"name" json:"name,omitempty"`
	EntryDate    time.Time `db:"entry_date" json:"entry_date"`
	CategoryID   int       `db:"waste_type_id" json:"waste_type_id"`
	CategoryName string    `db:"display_name" json:"display_name"`
	Unit         string    `db:"unit" json:"unit"`
	Quantity     float64   `db:"quantity" json:"quantity"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// EntryRequest is the body of add and update calls. Numbers may arrive as
// JSON numbers or numeric strings.
type EntryRequest struct {
	EntryDate   string      `json:"entry_date" validate:"required,datetime=2006-01-02"`
	WasteTypeID json.Number `json:"waste_type_id" validate:"required"`
	Quantity    json.Number `json:"quantity" validate:"required"`
	Notes       string      `json:"notes" validate:"max=1000"`
}

// Entry is a validated waste entry.
type Entry struct {
	EntryDate  time.Time
	CategoryID int
	Quantity   float64
	Notes      string
}

// MaxQuantity is the exclusive upper bound of waste_records.quantity, a NUMERIC(10, 2).
const MaxQuantity = 1e8

// Entry parses the request. Quantities must be positive and below MaxQuantity.
func (r EntryRequest) Entry() (Entry, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(r.EntryDate))
	if err != nil {
		return Entry{}, ErrInvalidEntry
	}

	typeID, err := r.WasteTypeID.Int64()
	if err != nil || typeID <= 0 {
		return Entry{}, ErrInvalidEntry
	}

	qty, err := r.Quantity.Float64()
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 || qty >= MaxQuantity {
		return Entry{}, ErrInvalidEntry
	}

	return Entry{
		EntryDate:  date,
		CategoryID: int(typeID),
		Quantity:   qty,
		Notes:      strings.TrimSpace(r.Notes),
	}, nil
}

type AddResponse struct {
	Message       string        `json:"message" example:"Waste entry added successfully"`
	RecordID      int           `json:"recordId"`
	PointsAwarded int           `json:"pointsAwarded"`
	Reward        *reward.Award `json:"reward"`
}

type ListResponse struct {
	Records []Record `json:"records"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}
