package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Currency  string `json:"currency,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// ReceiptPayment is one tender line on a receipt.
type ReceiptPayment struct {
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference,omitempty"`
}

// ReceiptLoyalty summarises points movement for the sale.
type ReceiptLoyalty struct {
	PointsRedeemed int64   `json:"points_redeemed"`
	Discount       float64 `json:"discount"`
	PointsEarned   int64   `json:"points_earned"`
	Balance        int64   `json:"balance"`
}

// Receipt is a value object composed from a committed sale. It is not persisted.
type Receipt struct {
	Header        ReceiptHeader    `json:"header"`
	SaleID        int64            `json:"sale_id"`
	ReceiptNo     string           `json:"receipt_no"`
	TransactionID string           `json:"transaction_id"`
	Date          string           `json:"date"`
	Cashier       string           `json:"cashier,omitempty"`
	Customer      string           `json:"customer,omitempty"`
	Items         []ReceiptItem    `json:"items"`
	Payments      []ReceiptPayment `json:"payments"`
	Loyalty       *ReceiptLoyalty  `json:"loyalty,omitempty"`
	SubTotal      float64          `json:"sub_total"`
	Tax           float64          `json:"tax"`
	Total         float64          `json:"total"`
	AmountDue     float64          `json:"amount_due"`
	Paid          float64          `json:"paid"`
	Change        float64          `json:"change"`
	Reprint       bool             `json:"reprint"`
	ReprintCount  int              `json:"reprint_count"`
}
