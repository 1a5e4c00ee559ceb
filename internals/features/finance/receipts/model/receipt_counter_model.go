package model

// ReceiptCounter is the per-year sequence behind receipt numbering.
// It is only ever touched through a single atomic upsert-increment
// statement, never read-then-written.
type ReceiptCounter struct {
	CounterYear  int `gorm:"column:counter_year;primaryKey" json:"counter_year"`
	CounterValue int `gorm:"column:counter_value;not null" json:"counter_value"`
}

func (ReceiptCounter) TableName() string { return "receipt_counters" }
