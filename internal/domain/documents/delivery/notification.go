package delivery

import (
	"fmt"
	"strings"
)

// Notification is the payload of EventRecorded: everything needed to send
// the customer a receipt without reading the ledger again.
type Notification struct {
	DeliveryID   string `json:"deliveryId"`
	Number       string `json:"number"`
	Day          string `json:"day"`
	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Filled       int64  `json:"filledBottles"`
	Empty        int64  `json:"emptyBottles"`
	FOC          int64  `json:"foc"`
	Bill         string `json:"bill"`
	Payment      string `json:"payment"`
	Balance      string `json:"balance"`
	Bottles      int64  `json:"bottles"`
}

// Text renders the receipt message sent to the customer.
func (n Notification) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n", n.CustomerName)
	fmt.Fprintf(&b, "Delivery %s on %s\n", n.Number, n.Day)
	fmt.Fprintf(&b, "Bottles delivered: %d", n.Filled)
	if n.FOC > 0 {
		fmt.Fprintf(&b, " (%d free)", n.FOC)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Empty bottles collected: %d\n", n.Empty)
	fmt.Fprintf(&b, "Amount: %s\n", n.Bill)
	fmt.Fprintf(&b, "Paid: %s\n", n.Payment)
	fmt.Fprintf(&b, "Balance due: %s\n", n.Balance)
	fmt.Fprintf(&b, "Bottles with you: %d", n.Bottles)
	return b.String()
}
