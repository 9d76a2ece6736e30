package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// The formatters below are pure: deterministic text over a bill or record,
// shared by buyer-facing chat messages and seller notifications.

// OrderSummary renders the pending bill sent to a buyer on confirm.
func OrderSummary(orderID, buyerName, address string, bill Bill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*✨ Your Order Summary:*\nOrder ID: %s\nUserName: %s\nAddress: %s\n", orderID, buyerName, address)
	for _, item := range bill.Items {
		fmt.Fprintf(&b, "- %s: ₹%d\n", item.Name, item.Price)
	}
	fmt.Fprintf(&b, "\n*Total: ₹%d*", bill.Total)
	return b.String()
}

// PaymentLinkMessage wraps a payment link for the buyer.
func PaymentLinkMessage(link string) string {
	return fmt.Sprintf("💳 Please make the payment here:\n%s", link)
}

// ReceiptMessage renders the settled-order receipt sent to the buyer.
func ReceiptMessage(orderID, paymentID, date string, items []Item, totalPaid int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 *Craftline - Order Receipt*\n\nOrder ID: %s\nPayment ID: %s\nDate: %s\n\nItems:\n", orderID, paymentID, date)
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: ₹%d\n", item.Name, item.Price)
	}
	fmt.Fprintf(&b, "\n*Total Paid: ₹%d*\n✅ Payment Successful.", totalPaid)
	return b.String()
}

// SellerNotice renders the new-order notification for the seller.
func SellerNotice(rec Record) string {
	paymentID := rec.PaymentID
	if paymentID == "" {
		paymentID = "N/A"
	}
	var b strings.Builder
	b.WriteString("🧾 *New Order Received!*\n")
	fmt.Fprintf(&b, "👤 Customer: %s\n", rec.Username)
	fmt.Fprintf(&b, "🏠 Address: %s\n", rec.Address)
	fmt.Fprintf(&b, "🕒 Time: %s\n\n", rec.Timestamp)
	b.WriteString("*🛍️ Items:*\n")
	fmt.Fprintf(&b, "🧾 UPI Payment ID: %s\n\n", paymentID)
	b.WriteString("Order to be prepared in 5 days\n")
	for _, item := range rec.Items {
		fmt.Fprintf(&b, "- %s: ₹%d\n", item.Name, item.Price)
	}
	fmt.Fprintf(&b, "\n💰 *Total: ₹%d*", rec.Total)
	return b.String()
}

// BulkSellerNotice renders one consolidated notification covering a whole
// ingested batch.
func BulkSellerNotice(orders []Record) string {
	var b strings.Builder
	b.WriteString("📦 *New Bulk Orders Received!*\n\n")
	for idx, order := range orders {
		paymentID := order.PaymentID
		if paymentID == "" {
			paymentID = "N/A"
		}
		fmt.Fprintf(&b, "🔢 Order %d\n", idx+1)
		fmt.Fprintf(&b, "👤 User ID: %s\n", order.UserID)
		fmt.Fprintf(&b, "🏠 Address: %s\n", order.Address)
		fmt.Fprintf(&b, "🕒 Time: %s\n", order.Timestamp)
		fmt.Fprintf(&b, "🧾 UPI Payment ID: %s\n", paymentID)
		b.WriteString("*🛍️ Items:*\n")
		for _, item := range order.Items {
			fmt.Fprintf(&b, "- %s (x%d): ₹%d\n", item.Name, item.Quantity, item.Price*int64(item.Quantity))
		}
		fmt.Fprintf(&b, "💰 *Total: ₹%d*\n", order.Total)
		b.WriteString("⏳ Order to be prepared in 5 days\n")
		b.WriteString("-----------------------------\n\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// BulkSummary renders the per-buyer advance bill for a bulk group.
func BulkSummary(orderID, buyerID string, orders []Record, total int64, advance decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*📦 Bulk Order Summary:*\n🆔 Order ID: %s\n👤 User: %s\n", orderID, buyerID)
	for idx, order := range orders {
		fmt.Fprintf(&b, "\n🔢 Order %d:\n", idx+1)
		for _, item := range order.Items {
			fmt.Fprintf(&b, "- %s (x%d): ₹%d\n", item.Name, item.Quantity, item.Price*int64(item.Quantity))
		}
	}
	fmt.Fprintf(&b, "\n💰 Total Cost: ₹%d\n", total)
	fmt.Fprintf(&b, "*Total Payable in Advance (10%%): ₹%s*", advance.String())
	return b.String()
}
